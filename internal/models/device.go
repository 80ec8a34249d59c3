package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// DeviceStatus represents the on/off state of a device
type DeviceStatus string

const (
	DeviceStatusOn  DeviceStatus = "ON"
	DeviceStatusOff DeviceStatus = "OFF"
)

// IsValid reports whether s is a known device status
func (s DeviceStatus) IsValid() bool {
	return s == DeviceStatusOn || s == DeviceStatusOff
}

// DeviceCategory is the telemetry category a device type maps to.
// It is classified once when the device type is set, never re-matched
// on every poll.
type DeviceCategory string

const (
	CategoryLighting DeviceCategory = "lighting"
	CategoryClimate  DeviceCategory = "climate"
	CategoryDisplay  DeviceCategory = "display"
	CategoryGeneric  DeviceCategory = "generic"
)

// Device represents a controllable classroom device
type Device struct {
	ID            string         `json:"device_id" gorm:"column:device_id;primaryKey;size:50" validate:"required"`
	Name          string         `json:"device_name" gorm:"column:device_name;not null;size:100" validate:"required"`
	Type          string         `json:"device_type" gorm:"column:device_type;not null;size:50" validate:"required"`
	CurrentStatus DeviceStatus   `json:"current_status" gorm:"type:varchar(20);not null;default:'OFF'"`
	Category      DeviceCategory `json:"category" gorm:"type:varchar(20);not null;default:'generic'"`
	ClassID       *uint          `json:"class_id" gorm:"column:class_id;index"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	Class *Class `json:"class,omitempty" gorm:"foreignKey:ClassID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName specifies the table name for Device model
func (Device) TableName() string {
	return "devices"
}

// BeforeCreate hook to default status and classify the telemetry category
func (d *Device) BeforeCreate(tx *gorm.DB) error {
	if d.CurrentStatus == "" {
		d.CurrentStatus = DeviceStatusOff
	}
	if d.Category == "" {
		d.Category = CategoryForType(d.Type)
	}
	return nil
}

// CategoryForType classifies a free-form device type string into a
// telemetry category
func CategoryForType(deviceType string) DeviceCategory {
	t := strings.ToLower(deviceType)
	switch {
	case containsAny(t, "light", "lamp", "led", "illum"):
		return CategoryLighting
	case containsAny(t, "air", "climate", "hvac", "heat", "thermo", "fan"):
		return CategoryClimate
	case containsAny(t, "projector", "display", "screen", "monitor"):
		return CategoryDisplay
	default:
		return CategoryGeneric
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

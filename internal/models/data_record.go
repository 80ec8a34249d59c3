package models

import (
	"time"

	"classroom_server/config"

	"gorm.io/gorm"
)

// DataRecord is one timestamped metric reading for a device. Records
// are written in bursts, one row per metric per telemetry poll.
type DataRecord struct {
	ID        uint      `json:"record_id" gorm:"column:record_id;primarykey"`
	DeviceID  string    `json:"device_id" gorm:"column:device_id;not null;size:50;index"`
	DataType  string    `json:"data_type" gorm:"column:data_type;not null;size:50"`
	DataValue string    `json:"data_value" gorm:"column:data_value;not null;size:100"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
	UpdatedAt time.Time `json:"updated_at"`

	Device *Device `json:"device,omitempty" gorm:"foreignKey:DeviceID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName specifies the table name for DataRecord model
func (DataRecord) TableName() string {
	return "data_records"
}

// BeforeCreate hook to stamp the reading time
func (r *DataRecord) BeforeCreate(tx *gorm.DB) error {
	if r.Timestamp.IsZero() {
		r.Timestamp = config.GetCurrentTime()
	}
	return nil
}

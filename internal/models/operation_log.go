package models

import (
	"time"

	"classroom_server/config"

	"gorm.io/gorm"
)

// OperationLog is one entry in the append-only audit trail of device
// state changes. Entries are never updated or deleted individually,
// only bulk-cleared.
type OperationLog struct {
	ID            uint      `json:"log_id" gorm:"column:log_id;primarykey"`
	DeviceID      string    `json:"device_id" gorm:"column:device_id;not null;size:50;index"`
	Operation     string    `json:"operation" gorm:"not null;size:50"`
	OperationTime time.Time `json:"operation_time" gorm:"column:operation_time;not null;index"`
	UpdatedAt     time.Time `json:"updated_at"`

	Device *Device `json:"device,omitempty" gorm:"foreignKey:DeviceID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName specifies the table name for OperationLog model
func (OperationLog) TableName() string {
	return "operation_logs"
}

// BeforeCreate hook to stamp the operation time
func (l *OperationLog) BeforeCreate(tx *gorm.DB) error {
	if l.OperationTime.IsZero() {
		l.OperationTime = config.GetCurrentTime()
	}
	return nil
}

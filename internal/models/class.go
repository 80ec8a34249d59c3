package models

import (
	"time"
)

// Class represents a classroom that devices can be assigned to
type Class struct {
	ID          uint      `json:"class_id" gorm:"column:class_id;primarykey"`
	Name        string    `json:"class_name" gorm:"column:class_name;uniqueIndex;not null;size:100" validate:"required"`
	Room        string    `json:"class_room" gorm:"column:class_room;size:100"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Devices reference classes by class_id; deleting a class detaches
	// them (SET NULL), it never deletes them
	Devices []Device `json:"devices,omitempty" gorm:"foreignKey:ClassID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName specifies the table name for Class model
func (Class) TableName() string {
	return "classes"
}

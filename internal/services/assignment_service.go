package services

import (
	"errors"

	"classroom_server/internal/models"

	"gorm.io/gorm"
)

// AssignmentService atomically rewrites a class's device membership
type AssignmentService struct {
	db *gorm.DB
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(database *gorm.DB) *AssignmentService {
	return &AssignmentService{db: database}
}

// Assign sets the membership of a class to exactly the given devices.
// A classID at or below zero means "unassign the listed devices".
//
// The whole operation is one transaction: prior occupants of the class
// are evicted first, then the listed devices are attached. Eviction
// before attachment makes the call idempotent and keeps the class from
// exceeding its intended membership mid-update. Unknown device ids are
// skipped, they never fail the batch. Any storage error rolls the
// whole batch back.
func (s *AssignmentService) Assign(classID int, deviceIDs []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		// The existence check shares the transaction with the updates,
		// so a class deleted mid-assignment cannot acquire members
		var target *uint
		if classID > 0 {
			id := uint(classID)
			var cls models.Class
			if err := tx.First(&cls, "class_id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			target = &id
		}

		if target != nil {
			if err := tx.Model(&models.Device{}).
				Where("class_id = ?", *target).
				Update("class_id", nil).Error; err != nil {
				return err
			}
		}

		for _, deviceID := range deviceIDs {
			var device models.Device
			err := tx.First(&device, "device_id = ?", deviceID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if err := tx.Model(&models.Device{}).
				Where("device_id = ?", deviceID).
				Update("class_id", target).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

package services

import (
	"errors"
	"strings"
	"time"

	"classroom_server/internal/models"

	"gorm.io/gorm"
)

// ClassService owns class records and the class/device membership
// invariant: no device may ever reference a class that does not exist.
type ClassService struct {
	db *gorm.DB
}

// NewClassService creates a new class service
func NewClassService(database *gorm.DB) *ClassService {
	return &ClassService{db: database}
}

// ClassInfo is a class row annotated with its live device count
type ClassInfo struct {
	ClassID     uint      `json:"class_id"`
	ClassName   string    `json:"class_name"`
	ClassRoom   string    `json:"class_room"`
	Description string    `json:"description"`
	DeviceCount int64     `json:"device_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateClassRequest is the payload for creating a class
type CreateClassRequest struct {
	Name        string `json:"class_name"`
	Room        string `json:"class_room"`
	Description string `json:"description"`
}

// UpdateClassRequest is a partial update of a class. Nil fields are
// left untouched; a pointer to the empty string applies the empty
// string (room and description only, a class name must stay non-empty).
type UpdateClassRequest struct {
	Name        *string `json:"class_name"`
	Room        *string `json:"class_room"`
	Description *string `json:"description"`
}

// List returns all classes with their device counts
func (s *ClassService) List() ([]ClassInfo, error) {
	var classes []models.Class
	if err := s.db.Order("class_id").Find(&classes).Error; err != nil {
		return nil, err
	}

	result := make([]ClassInfo, 0, len(classes))
	for _, cls := range classes {
		count, err := s.deviceCount(cls.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, classInfo(cls, count))
	}
	return result, nil
}

// Get returns one class with its device count
func (s *ClassService) Get(id uint) (*ClassInfo, error) {
	var cls models.Class
	if err := s.db.First(&cls, "class_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	count, err := s.deviceCount(cls.ID)
	if err != nil {
		return nil, err
	}
	info := classInfo(cls, count)
	return &info, nil
}

// Create inserts a new class and returns its id
func (s *ClassService) Create(req CreateClassRequest) (uint, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return 0, &ValidationError{Field: "class_name", Reason: "must not be empty"}
	}

	var existing models.Class
	err := s.db.Where("class_name = ?", name).First(&existing).Error
	if err == nil {
		return 0, ErrConflict
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	cls := models.Class{
		Name:        name,
		Room:        req.Room,
		Description: req.Description,
	}
	if err := s.db.Create(&cls).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrConflict
		}
		return 0, err
	}
	return cls.ID, nil
}

// Update applies a partial update to a class
func (s *ClassService) Update(id uint, req UpdateClassRequest) error {
	var cls models.Class
	if err := s.db.First(&cls, "class_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return &ValidationError{Field: "class_name", Reason: "must not be empty"}
		}
		var other models.Class
		err := s.db.Where("class_name = ? AND class_id <> ?", name, id).First(&other).Error
		if err == nil {
			return ErrConflict
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		updates["class_name"] = name
	}
	if req.Room != nil {
		updates["class_room"] = *req.Room
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		return nil
	}

	err := s.db.Model(&models.Class{}).Where("class_id = ?", id).Updates(updates).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}

// Delete removes a class. Member devices are detached, never deleted:
// the class_id of every device in the class goes NULL in the same
// transaction that removes the class row.
func (s *ClassService) Delete(id uint) error {
	var cls models.Class
	if err := s.db.First(&cls, "class_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Device{}).
			Where("class_id = ?", id).
			Update("class_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Class{}, "class_id = ?", id).Error
	})
}

func (s *ClassService) deviceCount(classID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Device{}).Where("class_id = ?", classID).Count(&count).Error
	return count, err
}

func classInfo(cls models.Class, count int64) ClassInfo {
	return ClassInfo{
		ClassID:     cls.ID,
		ClassName:   cls.Name,
		ClassRoom:   cls.Room,
		Description: cls.Description,
		DeviceCount: count,
		CreatedAt:   cls.CreatedAt,
		UpdatedAt:   cls.UpdatedAt,
	}
}

package services

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"classroom_server/internal/models"

	"gorm.io/gorm"
)

// DeviceService owns device records, their lifecycle state and their
// class membership. Every state-changing operation goes through
// SetStatus so a status flip and its audit entry commit together.
type DeviceService struct {
	db *gorm.DB
}

// NewDeviceService creates a new device service
func NewDeviceService(database *gorm.DB) *DeviceService {
	return &DeviceService{db: database}
}

// DeviceInfo is a device row joined with its class name (empty when
// the device is unassigned)
type DeviceInfo struct {
	DeviceID      string              `json:"device_id" gorm:"column:device_id"`
	DeviceName    string              `json:"device_name" gorm:"column:device_name"`
	DeviceType    string              `json:"device_type" gorm:"column:device_type"`
	CurrentStatus models.DeviceStatus `json:"current_status" gorm:"column:current_status"`
	Category      string              `json:"category" gorm:"column:category"`
	ClassID       *uint               `json:"class_id" gorm:"column:class_id"`
	ClassName     string              `json:"class_name" gorm:"column:class_name"`
	CreatedAt     time.Time           `json:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time           `json:"updated_at" gorm:"column:updated_at"`
}

// CreateDeviceRequest is the payload for registering a device. The
// device id is caller-supplied and immutable.
type CreateDeviceRequest struct {
	DeviceID      string              `json:"device_id"`
	DeviceName    string              `json:"device_name"`
	DeviceType    string              `json:"device_type"`
	CurrentStatus models.DeviceStatus `json:"current_status"`
	ClassID       *uint               `json:"class_id"`
}

// ClassRef is a nullable class reference in an update payload. It
// distinguishes "field absent" from "set to no class", and normalizes
// the legacy unassigned sentinels ("", "null", "undefined", 0 and
// JSON null) to the same NULL state.
type ClassRef struct {
	Present bool
	ID      *uint // nil means unassigned
}

// UnmarshalJSON implements the sentinel normalization
func (r *ClassRef) UnmarshalJSON(data []byte) error {
	r.Present = true
	r.ID = nil

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var token string
		if err := json.Unmarshal(data, &token); err != nil {
			return err
		}
		token = strings.TrimSpace(token)
		switch token {
		case "", "null", "undefined", "0":
			return nil
		}
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return &ValidationError{Field: "class_id", Reason: "malformed class id"}
		}
		r.setID(n)
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return &ValidationError{Field: "class_id", Reason: "malformed class id"}
	}
	r.setID(n)
	return nil
}

// Values at or below zero mean unassigned
func (r *ClassRef) setID(n int64) {
	if n <= 0 {
		return
	}
	id := uint(n)
	r.ID = &id
}

// UpdateDeviceRequest is a partial update of a device. Nil fields are
// left untouched.
type UpdateDeviceRequest struct {
	DeviceName    *string              `json:"device_name"`
	DeviceType    *string              `json:"device_type"`
	CurrentStatus *models.DeviceStatus `json:"current_status"`
	ClassID       ClassRef             `json:"class_id"`
}

const deviceSelect = "d.device_id, d.device_name, d.device_type, d.current_status, d.category, d.class_id, d.created_at, d.updated_at, c.class_name"

func (s *DeviceService) joined() *gorm.DB {
	return s.db.Table("devices AS d").
		Select(deviceSelect).
		Joins("LEFT JOIN classes AS c ON d.class_id = c.class_id")
}

// List returns all devices with their class names
func (s *DeviceService) List() ([]DeviceInfo, error) {
	var devices []DeviceInfo
	if err := s.joined().Order("d.device_id").Scan(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

// ListByClass returns the devices assigned to a class
func (s *DeviceService) ListByClass(classID uint) ([]DeviceInfo, error) {
	var cls models.Class
	if err := s.db.First(&cls, "class_id = ?", classID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var devices []DeviceInfo
	if err := s.joined().Where("d.class_id = ?", classID).Order("d.device_id").Scan(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

// ListUnassigned returns the devices that belong to no class
func (s *DeviceService) ListUnassigned() ([]DeviceInfo, error) {
	var devices []DeviceInfo
	if err := s.joined().Where("d.class_id IS NULL").Order("d.device_id").Scan(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

// Get returns one device with its class name
func (s *DeviceService) Get(id string) (*DeviceInfo, error) {
	var device DeviceInfo
	result := s.joined().Where("d.device_id = ?", id).Scan(&device)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &device, nil
}

// Create registers a new device
func (s *DeviceService) Create(req CreateDeviceRequest) error {
	if strings.TrimSpace(req.DeviceID) == "" {
		return &ValidationError{Field: "device_id", Reason: "must not be empty"}
	}
	if strings.TrimSpace(req.DeviceName) == "" {
		return &ValidationError{Field: "device_name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(req.DeviceType) == "" {
		return &ValidationError{Field: "device_type", Reason: "must not be empty"}
	}

	status := req.CurrentStatus
	if status == "" {
		status = models.DeviceStatusOff
	}
	if !status.IsValid() {
		return &ValidationError{Field: "current_status", Reason: "must be ON or OFF"}
	}

	var existing models.Device
	err := s.db.First(&existing, "device_id = ?", req.DeviceID).Error
	if err == nil {
		return ErrConflict
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	classID := req.ClassID
	if classID != nil && *classID == 0 {
		classID = nil
	}
	if classID != nil {
		if err := s.classExists(s.db, *classID); err != nil {
			return err
		}
	}

	device := models.Device{
		ID:            req.DeviceID,
		Name:          req.DeviceName,
		Type:          req.DeviceType,
		CurrentStatus: status,
		ClassID:       classID,
	}
	if err := s.db.Create(&device).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// Update applies a partial update to a device. The device id itself is
// immutable.
func (s *DeviceService) Update(id string, req UpdateDeviceRequest) error {
	var device models.Device
	if err := s.db.First(&device, "device_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	updates := map[string]interface{}{}
	if req.DeviceName != nil {
		if strings.TrimSpace(*req.DeviceName) == "" {
			return &ValidationError{Field: "device_name", Reason: "must not be empty"}
		}
		updates["device_name"] = *req.DeviceName
	}
	if req.DeviceType != nil {
		if strings.TrimSpace(*req.DeviceType) == "" {
			return &ValidationError{Field: "device_type", Reason: "must not be empty"}
		}
		updates["device_type"] = *req.DeviceType
		// Re-classify once, at the moment the type changes
		updates["category"] = models.CategoryForType(*req.DeviceType)
	}
	if req.CurrentStatus != nil {
		if !req.CurrentStatus.IsValid() {
			return &ValidationError{Field: "current_status", Reason: "must be ON or OFF"}
		}
		updates["current_status"] = *req.CurrentStatus
	}
	if req.ClassID.Present {
		if req.ClassID.ID != nil {
			if err := s.classExists(s.db, *req.ClassID.ID); err != nil {
				return err
			}
		}
		updates["class_id"] = req.ClassID.ID
	}
	if len(updates) == 0 {
		return nil
	}

	return s.db.Model(&models.Device{}).Where("device_id = ?", id).Updates(updates).Error
}

// Delete removes a device together with every operation-log and
// telemetry row that references it, in one transaction
func (s *DeviceService) Delete(id string) error {
	var device models.Device
	if err := s.db.First(&device, "device_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.OperationLog{}, "device_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.DataRecord{}, "device_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Device{}, "device_id = ?", id).Error
	})
}

// SetStatus is the single primitive behind connect, disconnect,
// turn-on and turn-off. It appends one audit entry and flips the
// status in the same transaction: no reader ever observes one without
// the other.
func (s *DeviceService) SetStatus(id string, status models.DeviceStatus, logLabel string) error {
	if !status.IsValid() {
		return &ValidationError{Field: "current_status", Reason: "must be ON or OFF"}
	}

	var device models.Device
	if err := s.db.First(&device, "device_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		entry := models.OperationLog{DeviceID: id, Operation: logLabel}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return tx.Model(&models.Device{}).
			Where("device_id = ?", id).
			Update("current_status", status).Error
	})
}

// classExists keeps the class FK valid even when the storage backend
// does not enforce foreign keys
func (s *DeviceService) classExists(tx *gorm.DB, classID uint) error {
	var cls models.Class
	if err := tx.First(&cls, "class_id = ?", classID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationError{Field: "class_id", Reason: "class does not exist"}
		}
		return err
	}
	return nil
}

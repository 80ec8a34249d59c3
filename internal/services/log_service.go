package services

import (
	"time"

	"classroom_server/config"
	"classroom_server/internal/models"

	"gorm.io/gorm"
)

// timestampLayout is the wire format for audit and telemetry times
const timestampLayout = "2006-01-02 15:04:05"

// LogService queries and clears the operation audit trail
type LogService struct {
	db *gorm.DB
}

// NewLogService creates a new log service
func NewLogService(database *gorm.DB) *LogService {
	return &LogService{db: database}
}

// LogFilter narrows a log query. Empty fields are not applied; the
// supplied ones combine conjunctively.
type LogFilter struct {
	DeviceID  string
	Operation string
	Date      string // YYYY-MM-DD, matches the day of operation_time
}

// LogEntry is one audit entry joined with its device name. The time
// goes out as a formatted string in the application timezone.
type LogEntry struct {
	LogID         uint      `json:"log_id" gorm:"column:log_id"`
	DeviceID      string    `json:"device_id" gorm:"column:device_id"`
	DeviceName    string    `json:"device_name" gorm:"column:device_name"`
	Operation     string    `json:"operation" gorm:"column:operation"`
	OperationTime time.Time `json:"-" gorm:"column:operation_time"`

	OperationTimeText string `json:"operation_time" gorm:"-"`
}

// LogPage is one page of the audit trail
type LogPage struct {
	Logs        []LogEntry `json:"logs"`
	TotalCount  int64      `json:"total_count"`
	TotalPages  int64      `json:"total_pages"`
	CurrentPage int        `json:"current_page"`
}

const logSelect = "l.log_id, l.device_id, d.device_name, l.operation, l.operation_time"

// The device join compares ids byte-exactly: ids that differ only in
// letter case are distinct devices and must never be conflated.
func (s *LogService) joined(filter LogFilter) *gorm.DB {
	query := s.db.Table("operation_logs AS l").
		Joins("LEFT JOIN devices AS d ON l.device_id = d.device_id")

	if filter.DeviceID != "" {
		query = query.Where("l.device_id = ?", filter.DeviceID)
	}
	if filter.Operation != "" {
		query = query.Where("l.operation = ?", filter.Operation)
	}
	if filter.Date != "" {
		query = query.Where("DATE(l.operation_time) = ?", filter.Date)
	}
	return query
}

// Query returns one page of matching entries, most recent first,
// together with the total match count and page count
func (s *LogService) Query(filter LogFilter, page, pageSize int) (*LogPage, error) {
	if page < 1 {
		return nil, &ValidationError{Field: "page", Reason: "must be at least 1"}
	}
	if pageSize < 1 {
		return nil, &ValidationError{Field: "page_size", Reason: "must be at least 1"}
	}

	base := s.joined(filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	logs := []LogEntry{}
	if err := base.Session(&gorm.Session{}).
		Select(logSelect).
		Order("l.operation_time DESC, l.log_id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Scan(&logs).Error; err != nil {
		return nil, err
	}

	for i := range logs {
		logs[i].OperationTimeText = config.FormatTimeInTimezone(logs[i].OperationTime, timestampLayout)
	}

	return &LogPage{
		Logs:        logs,
		TotalCount:  total,
		TotalPages:  (total + int64(pageSize) - 1) / int64(pageSize),
		CurrentPage: page,
	}, nil
}

// Detail returns one audit entry with its device name
func (s *LogService) Detail(logID uint) (*LogEntry, error) {
	var entry LogEntry
	result := s.db.Table("operation_logs AS l").
		Joins("LEFT JOIN devices AS d ON l.device_id = d.device_id").
		Select(logSelect).
		Where("l.log_id = ?", logID).
		Scan(&entry)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	entry.OperationTimeText = config.FormatTimeInTimezone(entry.OperationTime, timestampLayout)
	return &entry, nil
}

// Clear deletes every audit entry. Devices and telemetry are not
// touched.
func (s *LogService) Clear() error {
	return s.db.Where("1 = 1").Delete(&models.OperationLog{}).Error
}

package services

import (
	"errors"
	"time"

	"classroom_server/config"
	"classroom_server/internal/models"
	"classroom_server/pkg/colors"

	"gorm.io/gorm"
)

// historyWindow is how many recent records a poll reads back, across
// all metric types of the device
const historyWindow = 10

// TelemetryService records simulated readings on each poll and serves
// the bounded per-device history
type TelemetryService struct {
	db  *gorm.DB
	sim Simulator
}

// NewTelemetryService creates a new telemetry service
func NewTelemetryService(database *gorm.DB, sim Simulator) *TelemetryService {
	if sim == nil {
		sim = NewClockSimulator()
	}
	return &TelemetryService{db: database, sim: sim}
}

// HistoryEntry is one stored reading in the history window. The wire
// timestamp is formatted in the application timezone.
type HistoryEntry struct {
	DataType  string    `json:"data_type"`
	DataValue string    `json:"data_value"`
	Timestamp time.Time `json:"-"`
	Recorded  string    `json:"timestamp"`
}

// TelemetrySnapshot is what a poll returns: the freshly generated
// readings plus the most recent stored records
type TelemetrySnapshot struct {
	Current []Reading      `json:"current_data"`
	History []HistoryEntry `json:"history"`
}

// PollAndRecord generates readings for a device, appends them to the
// history and returns the readings together with the last ten stored
// records. Recording is best-effort: a failed write is logged and
// swallowed, it never fails the poll.
func (s *TelemetryService) PollAndRecord(deviceID string) (*TelemetrySnapshot, error) {
	var device models.Device
	if err := s.db.First(&device, "device_id = ?", deviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	readings := s.sim.Readings(device.Category, device.CurrentStatus)

	for _, reading := range readings {
		record := models.DataRecord{
			DeviceID:  deviceID,
			DataType:  reading.Label,
			DataValue: reading.Value,
		}
		if err := s.db.Create(&record).Error; err != nil {
			colors.PrintWarning("Failed to record %s reading for device %s: %v",
				reading.Label, deviceID, err)
		}
	}

	var records []models.DataRecord
	if err := s.db.Where("device_id = ?", deviceID).
		Order("timestamp DESC, record_id DESC").
		Limit(historyWindow).
		Find(&records).Error; err != nil {
		colors.PrintWarning("Failed to read telemetry history for device %s: %v", deviceID, err)
		records = nil
	}

	history := make([]HistoryEntry, 0, len(records))
	for _, record := range records {
		history = append(history, HistoryEntry{
			DataType:  record.DataType,
			DataValue: record.DataValue,
			Timestamp: record.Timestamp,
			Recorded:  config.FormatTimeInTimezone(record.Timestamp, timestampLayout),
		})
	}

	return &TelemetrySnapshot{Current: readings, History: history}, nil
}

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"classroom_server/internal/models"

	"gorm.io/gorm"
)

func TestCreateDeviceValidation(t *testing.T) {
	database := newTestDB(t)
	service := NewDeviceService(database)

	cases := []CreateDeviceRequest{
		{DeviceName: "lamp", DeviceType: "light"},
		{DeviceID: "d-1", DeviceType: "light"},
		{DeviceID: "d-1", DeviceName: "lamp"},
	}
	for i, req := range cases {
		if err := service.Create(req); !IsValidation(err) {
			t.Errorf("Case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestCreateDeviceDuplicateID(t *testing.T) {
	database := newTestDB(t)
	service := NewDeviceService(database)

	if err := service.Create(CreateDeviceRequest{DeviceID: "d-1", DeviceName: "lamp", DeviceType: "light"}); err != nil {
		t.Fatalf("Failed to create device: %v", err)
	}
	err := service.Create(CreateDeviceRequest{DeviceID: "d-1", DeviceName: "other", DeviceType: "projector"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Expected conflict for duplicate id, got %v", err)
	}

	// The existing device is untouched
	device, err := service.Get("d-1")
	if err != nil {
		t.Fatalf("Failed to get device: %v", err)
	}
	if device.DeviceName != "lamp" || device.DeviceType != "light" {
		t.Errorf("Existing device was modified: %+v", device)
	}
}

func TestCreateDeviceUnknownClass(t *testing.T) {
	database := newTestDB(t)
	service := NewDeviceService(database)

	missing := uint(77)
	err := service.Create(CreateDeviceRequest{
		DeviceID:   "d-1",
		DeviceName: "lamp",
		DeviceType: "light",
		ClassID:    &missing,
	})
	if !IsValidation(err) {
		t.Errorf("Expected validation error for unknown class, got %v", err)
	}
}

func TestCreateDeviceDefaults(t *testing.T) {
	database := newTestDB(t)
	service := NewDeviceService(database)

	if err := service.Create(CreateDeviceRequest{DeviceID: "p-1", DeviceName: "beamer", DeviceType: "Projector"}); err != nil {
		t.Fatalf("Failed to create device: %v", err)
	}

	device, err := service.Get("p-1")
	if err != nil {
		t.Fatalf("Failed to get device: %v", err)
	}
	if device.CurrentStatus != models.DeviceStatusOff {
		t.Errorf("Expected default status OFF, got %s", device.CurrentStatus)
	}
	if device.Category != string(models.CategoryDisplay) {
		t.Errorf("Expected display category, got %s", device.Category)
	}
}

func TestClassRefSentinels(t *testing.T) {
	unassigned := []string{
		`{"class_id": ""}`,
		`{"class_id": "null"}`,
		`{"class_id": "undefined"}`,
		`{"class_id": "0"}`,
		`{"class_id": 0}`,
		`{"class_id": -3}`,
		`{"class_id": null}`,
	}
	for _, payload := range unassigned {
		var req UpdateDeviceRequest
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			t.Errorf("Payload %s: unexpected error %v", payload, err)
			continue
		}
		if !req.ClassID.Present {
			t.Errorf("Payload %s: expected class_id present", payload)
		}
		if req.ClassID.ID != nil {
			t.Errorf("Payload %s: expected unassigned, got %d", payload, *req.ClassID.ID)
		}
	}

	var req UpdateDeviceRequest
	if err := json.Unmarshal([]byte(`{"class_id": "7"}`), &req); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if req.ClassID.ID == nil || *req.ClassID.ID != 7 {
		t.Errorf("Expected class id 7, got %+v", req.ClassID)
	}

	var absent UpdateDeviceRequest
	if err := json.Unmarshal([]byte(`{"device_name": "x"}`), &absent); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if absent.ClassID.Present {
		t.Error("Expected class_id absent when not supplied")
	}

	var malformed UpdateDeviceRequest
	if err := json.Unmarshal([]byte(`{"class_id": "abc"}`), &malformed); !IsValidation(err) {
		t.Errorf("Expected validation error for malformed class id, got %v", err)
	}
}

func TestUpdateDeviceClassSentinelUnassigns(t *testing.T) {
	database := newTestDB(t)
	service := NewDeviceService(database)

	classID := createTestClass(t, database, "Room A")
	createTestDevice(t, database, "d-1", "light", &classID)

	var req UpdateDeviceRequest
	if err := json.Unmarshal([]byte(`{"class_id": "undefined"}`), &req); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := service.Update("d-1", req); err != nil {
		t.Fatalf("Failed to update device: %v", err)
	}
	if deviceClassID(t, database, "d-1") != nil {
		t.Error("Expected device unassigned after sentinel update")
	}
}

func TestUpdateDeviceReclassifiesCategory(t *testing.T) {
	database := newTestDB(t)
	service := NewDeviceService(database)

	createTestDevice(t, database, "d-1", "light", nil)

	newType := "air conditioner"
	if err := service.Update("d-1", UpdateDeviceRequest{DeviceType: &newType}); err != nil {
		t.Fatalf("Failed to update device: %v", err)
	}

	device, err := service.Get("d-1")
	if err != nil {
		t.Fatalf("Failed to get device: %v", err)
	}
	if device.Category != string(models.CategoryClimate) {
		t.Errorf("Expected climate category after type change, got %s", device.Category)
	}
}

func TestDeleteDeviceCascades(t *testing.T) {
	database := newTestDB(t)
	service := NewDeviceService(database)

	createTestDevice(t, database, "d-1", "light", nil)
	createTestDevice(t, database, "d-2", "light", nil)
	for i := 0; i < 3; i++ {
		database.Create(&models.OperationLog{DeviceID: "d-1", Operation: "turn on device"})
		database.Create(&models.DataRecord{DeviceID: "d-1", DataType: "power", DataValue: fmt.Sprintf("%dW", i)})
	}
	database.Create(&models.OperationLog{DeviceID: "d-2", Operation: "turn on device"})

	if err := service.Delete("d-1"); err != nil {
		t.Fatalf("Failed to delete device: %v", err)
	}

	var logs, records int64
	database.Model(&models.OperationLog{}).Where("device_id = ?", "d-1").Count(&logs)
	database.Model(&models.DataRecord{}).Where("device_id = ?", "d-1").Count(&records)
	if logs != 0 || records != 0 {
		t.Errorf("Expected no rows left for d-1, got %d logs and %d records", logs, records)
	}
	if _, err := service.Get("d-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected device gone, got %v", err)
	}

	// The other device's trail is untouched
	database.Model(&models.OperationLog{}).Where("device_id = ?", "d-2").Count(&logs)
	if logs != 1 {
		t.Errorf("Expected d-2 to keep its log row, got %d", logs)
	}
}

func TestSetStatus(t *testing.T) {
	database := newTestDB(t)
	service := NewDeviceService(database)

	createTestDevice(t, database, "d-1", "light", nil)

	if err := service.SetStatus("d-1", models.DeviceStatusOn, "connect device"); err != nil {
		t.Fatalf("Failed to set status: %v", err)
	}

	device, err := service.Get("d-1")
	if err != nil {
		t.Fatalf("Failed to get device: %v", err)
	}
	if device.CurrentStatus != models.DeviceStatusOn {
		t.Errorf("Expected status ON, got %s", device.CurrentStatus)
	}

	var logs []models.OperationLog
	database.Where("device_id = ?", "d-1").Find(&logs)
	if len(logs) != 1 {
		t.Fatalf("Expected exactly one log row, got %d", len(logs))
	}
	if logs[0].Operation != "connect device" {
		t.Errorf("Expected operation label 'connect device', got %s", logs[0].Operation)
	}
}

func TestSetStatusNotFound(t *testing.T) {
	database := newTestDB(t)
	service := NewDeviceService(database)

	if err := service.SetStatus("ghost", models.DeviceStatusOn, "connect device"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestSetStatusAtomicRollback(t *testing.T) {
	database := newTestDB(t)
	service := NewDeviceService(database)

	createTestDevice(t, database, "d-1", "light", nil)

	// Force the status update half of the pair to fail, then verify the
	// already-written log row was rolled back with it
	boom := errors.New("forced failure")
	if err := database.Callback().Update().Before("gorm:update").Register("force_fail", func(tx *gorm.DB) {
		if tx.Statement.Table == "devices" {
			tx.AddError(boom)
		}
	}); err != nil {
		t.Fatalf("Failed to register callback: %v", err)
	}

	err := service.SetStatus("d-1", models.DeviceStatusOn, "connect device")
	if !errors.Is(err, boom) {
		t.Fatalf("Expected forced failure, got %v", err)
	}

	if err := database.Callback().Update().Remove("force_fail"); err != nil {
		t.Fatalf("Failed to remove callback: %v", err)
	}

	var logs int64
	database.Model(&models.OperationLog{}).Where("device_id = ?", "d-1").Count(&logs)
	if logs != 0 {
		t.Errorf("Expected log append rolled back, got %d rows", logs)
	}

	device, err := service.Get("d-1")
	if err != nil {
		t.Fatalf("Failed to get device: %v", err)
	}
	if device.CurrentStatus != models.DeviceStatusOff {
		t.Errorf("Expected status unchanged, got %s", device.CurrentStatus)
	}
}

func TestListByClassAndUnassigned(t *testing.T) {
	database := newTestDB(t)
	service := NewDeviceService(database)

	classID := createTestClass(t, database, "Room A")
	createTestDevice(t, database, "in-1", "light", &classID)
	createTestDevice(t, database, "out-1", "light", nil)

	inClass, err := service.ListByClass(classID)
	if err != nil {
		t.Fatalf("Failed to list by class: %v", err)
	}
	if len(inClass) != 1 || inClass[0].DeviceID != "in-1" {
		t.Errorf("Expected [in-1], got %+v", inClass)
	}
	if inClass[0].ClassName != "Room A" {
		t.Errorf("Expected joined class name Room A, got %q", inClass[0].ClassName)
	}

	unassigned, err := service.ListUnassigned()
	if err != nil {
		t.Fatalf("Failed to list unassigned: %v", err)
	}
	if len(unassigned) != 1 || unassigned[0].DeviceID != "out-1" {
		t.Errorf("Expected [out-1], got %+v", unassigned)
	}
	if unassigned[0].ClassName != "" {
		t.Errorf("Expected empty class name, got %q", unassigned[0].ClassName)
	}

	if _, err := service.ListByClass(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected not found for unknown class, got %v", err)
	}
}

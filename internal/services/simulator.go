package services

import (
	"fmt"
	"time"

	"classroom_server/internal/models"
)

// Reading is one simulated metric for a device
type Reading struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Simulator generates the current readings for a telemetry poll. The
// value heuristics are deliberately arbitrary display strings, they
// are not modeled behavior.
type Simulator interface {
	Readings(category models.DeviceCategory, status models.DeviceStatus) []Reading
}

// ClockSimulator derives readings from the wall clock, one fixed
// metric set per device category
type ClockSimulator struct {
	Now func() time.Time
}

// NewClockSimulator creates a simulator on the real clock
func NewClockSimulator() *ClockSimulator {
	return &ClockSimulator{Now: time.Now}
}

// Readings implements Simulator
func (g *ClockSimulator) Readings(category models.DeviceCategory, status models.DeviceStatus) []Reading {
	now := g.Now()
	sec := now.Second()

	switch category {
	case models.CategoryLighting:
		return []Reading{
			{Label: "status", Value: string(status)},
			{Label: "brightness", Value: fmt.Sprintf("%d%%", sec%100)},
			{Label: "power", Value: fmt.Sprintf("%dW", 10+sec%40)},
		}
	case models.CategoryClimate:
		return []Reading{
			{Label: "status", Value: string(status)},
			{Label: "temperature", Value: fmt.Sprintf("%d°C", 16+sec%14)},
			{Label: "mode", Value: "cooling"},
			{Label: "fan speed", Value: "medium"},
		}
	case models.CategoryDisplay:
		return []Reading{
			{Label: "status", Value: string(status)},
			{Label: "signal source", Value: "HDMI"},
			{Label: "brightness", Value: fmt.Sprintf("%d%%", sec%100)},
			{Label: "contrast", Value: fmt.Sprintf("%d%%", sec%100)},
		}
	default:
		return []Reading{
			{Label: "status", Value: string(status)},
			{Label: "uptime", Value: fmt.Sprintf("%dh", 1+now.Hour()%24)},
		}
	}
}

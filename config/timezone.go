package config

import (
	"time"
)

// TimezoneConfig holds timezone configuration
type TimezoneConfig struct {
	Location *time.Location
}

// AppTimezone is the global timezone configuration
var AppTimezone *TimezoneConfig

// InitializeTimezone sets up the application timezone
func InitializeTimezone() error {
	tzName := getEnv("APP_TIMEZONE", "Asia/Shanghai")

	location, err := time.LoadLocation(tzName)
	if err != nil {
		// Fall back to UTC if the specified timezone is invalid
		location = time.UTC
	}

	AppTimezone = &TimezoneConfig{Location: location}
	return nil
}

// GetCurrentTime returns current time in the application timezone
func GetCurrentTime() time.Time {
	if AppTimezone != nil && AppTimezone.Location != nil {
		return time.Now().In(AppTimezone.Location)
	}
	return time.Now().UTC()
}

// FormatTimeInTimezone formats a time in the application timezone
func FormatTimeInTimezone(t time.Time, layout string) string {
	if AppTimezone != nil && AppTimezone.Location != nil {
		return t.In(AppTimezone.Location).Format(layout)
	}
	return t.UTC().Format(layout)
}

package eligibility

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidTimeFormat = errors.New("invalid time of day format")

// Settings is the notification_settings map stored on a user document.
type Settings struct {
	NotificationEnabled *bool  `firestore:"isNotificationEnabled" json:"isNotificationEnabled"`
	DoNotDisturbEnabled bool   `firestore:"isDoNotDisturbEnabled" json:"isDoNotDisturbEnabled"`
	DoNotDisturbStart   string `firestore:"doNotDisturbStart" json:"doNotDisturbStart"`
	DoNotDisturbEnd     string `firestore:"doNotDisturbEnd" json:"doNotDisturbEnd"`
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" in 24h format. A single-digit hour is accepted.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, value)
	}
	
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// On anchors the time of day to the calendar day of ref, in ref's location.
func (t TimeOfDay) On(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour, t.Minute, 0, 0, ref.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Preference is the validated form of Settings.
type Preference struct {
	Enabled             bool
	DoNotDisturbEnabled bool
	DoNotDisturbStart   TimeOfDay
	DoNotDisturbEnd     TimeOfDay
}

// Preference validates the stored settings. Do-not-disturb times are only
// parsed when the window is enabled.
func (s *Settings) Preference() (*Preference, error) {
	pref := &Preference{
		Enabled:             true,
		DoNotDisturbEnabled: s.DoNotDisturbEnabled,
	}
	if s.NotificationEnabled != nil {
		pref.Enabled = *s.NotificationEnabled
	}
	
	if !pref.DoNotDisturbEnabled {
		return pref, nil
	}
	
	start, err := ParseTimeOfDay(s.DoNotDisturbStart)
	if err != nil {
		return nil, fmt.Errorf("doNotDisturbStart: %w", err)
	}
	
	end, err := ParseTimeOfDay(s.DoNotDisturbEnd)
	if err != nil {
		return nil, fmt.Errorf("doNotDisturbEnd: %w", err)
	}
	
	pref.DoNotDisturbStart = start
	pref.DoNotDisturbEnd = end
	return pref, nil
}

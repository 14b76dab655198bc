// Package eligibility decides whether a push notification may be sent to a
// user right now, based on the user's stored notification preferences.
package eligibility

import (
	"time"
)

type Decision int

const (
	Notify Decision = iota
	SuppressedDisabled
	SuppressedDoNotDisturb
)

func (d Decision) String() string {
	switch d {
	case Notify:
		return "notify"
	case SuppressedDisabled:
		return "notifications_disabled"
	case SuppressedDoNotDisturb:
		return "do_not_disturb"
	default:
		return "unknown"
	}
}

// Decide evaluates pref at now. A nil preference means the user never saved
// any settings, which allows notifications.
func Decide(pref *Preference, now time.Time) Decision {
	if pref == nil {
		return Notify
	}
	
	if !pref.Enabled {
		return SuppressedDisabled
	}
	
	if !pref.DoNotDisturbEnabled {
		return Notify
	}
	
	if InDoNotDisturb(pref.DoNotDisturbStart, pref.DoNotDisturbEnd, now) {
		return SuppressedDoNotDisturb
	}
	
	return Notify
}

// ShouldNotify reports whether a notification may be produced at now.
func ShouldNotify(pref *Preference, now time.Time) bool {
	return Decide(pref, now) == Notify
}

// InDoNotDisturb reports whether now falls inside the window [start, end],
// both ends inclusive. A window with start after end wraps midnight.
func InDoNotDisturb(start, end TimeOfDay, now time.Time) bool {
	startTime := start.On(now)
	endTime := end.On(now)
	
	if !startTime.After(endTime) {
		// Same-day window
		return !now.Before(startTime) && !now.After(endTime)
	}
	
	// Window crosses midnight
	return !now.Before(startTime) || !now.After(endTime)
}

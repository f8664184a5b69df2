package model

import "fmt"

// Operating rules for the institution. All bookings must fall inside the
// opening window and respect the duration bounds. Times are expressed as
// minutes since midnight so that comparisons and arithmetic stay integer
// based and free of timezone concerns.
const (
	OpeningMinute = 8 * 60  // 08:00, first bookable minute
	ClosingMinute = 20 * 60 // 20:00, exclusive end of the window
	MinDuration   = 30      // minimum booking length in minutes
	MaxDuration   = 240     // maximum booking length in minutes
	SlotMinutes   = 30      // granularity of the availability grid
)

// TimeRange is a half-open interval [StartMin, EndMin) on a single day.
// Both bounds are minutes since midnight. A TimeRange carries no date;
// the owning Booking supplies it.
type TimeRange struct {
	StartMin int // inclusive start, minutes since midnight
	EndMin   int // exclusive end, minutes since midnight
}

// Duration returns the length of the range in minutes.
func (t TimeRange) Duration() int { return t.EndMin - t.StartMin }

// Validate returns the list of rule violations for the range. An empty
// slice means the range is valid. Checks run in a fixed order: the
// ordering check short-circuits because window and duration checks are
// meaningless when start does not precede end.
func (t TimeRange) Validate() []string {
	if t.StartMin >= t.EndMin {
		return []string{"start time must be before end time"}
	}
	var violations []string
	if t.StartMin < OpeningMinute || t.EndMin > ClosingMinute {
		violations = append(violations, "time range must fall within opening hours (08:00-20:00)")
	}
	if t.Duration() < MinDuration {
		violations = append(violations, "booking must last at least 30 minutes")
	}
	if t.Duration() > MaxDuration {
		violations = append(violations, "booking cannot exceed 4 hours")
	}
	return violations
}

// Overlaps reports whether two half-open ranges intersect. Ranges that
// merely touch (one ends exactly where the other starts) do not overlap.
// The test is symmetric: a.Overlaps(b) == b.Overlaps(a).
func (t TimeRange) Overlaps(other TimeRange) bool {
	return t.StartMin < other.EndMin && other.StartMin < t.EndMin
}

// String renders the range as "HH:MM-HH:MM" for logs and error messages.
func (t TimeRange) String() string {
	return FormatMinute(t.StartMin) + "-" + FormatMinute(t.EndMin)
}

// FormatMinute converts minutes since midnight to "HH:MM".
func FormatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseMinute converts an "HH:MM" string to minutes since midnight. It
// rejects out-of-range hour or minute components.
func ParseMinute(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return h*60 + m, nil
}

// TimeSlot is one bookable window produced by the availability
// computation. Label always describes the fixed slot length.
type TimeSlot struct {
	StartMin int    `json:"-"`
	EndMin   int    `json:"-"`
	Start    string `json:"start"` // "HH:MM"
	End      string `json:"end"`   // "HH:MM"
	Label    string `json:"label"` // e.g. "30 min"
}

// SlotLabel is the label attached to every generated TimeSlot.
const SlotLabel = "30 min"

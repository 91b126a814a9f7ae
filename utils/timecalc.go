package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidClock     = fmt.Errorf("time must be in HH:MM format")
	ErrInvalidTimeRange = fmt.Errorf("end time must be after start time")
	ErrInvalidDate      = fmt.Errorf("date must be in YYYY-MM-DD format")
)

const dateLayout = "2006-01-02"

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, ErrInvalidClock
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, ErrInvalidClock
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 || len(parts[1]) != 2 {
		return 0, ErrInvalidClock
	}
	return hours*60 + minutes, nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", (minutes/60)%24, minutes%60)
}

// EndTimeFor adds hours to start. Hours past midnight wrap modulo 24 with
// no day rollover.
func EndTimeFor(start string, hours float64) (string, error) {
	startMinutes, err := ParseClock(start)
	if err != nil {
		return "", err
	}
	endMinutes := startMinutes + int(math.Round(hours*60))
	return FormatClock(endMinutes), nil
}

// FormatDuration renders "2h" or "2h 30m".
func FormatDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	if m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dh", h)
}

var (
	hoursPattern   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:hours?|hrs?|h)\b`)
	minutesPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:minutes?|mins?|m)\b`)
)

// ParseDurationHours reads "2 hours", "1 hour", "2h" or "2h 30m".
// It returns 0 when nothing can be extracted.
func ParseDurationHours(s string) float64 {
	var hours float64
	if m := hoursPattern.FindStringSubmatch(s); m != nil {
		hours, _ = strconv.ParseFloat(m[1], 64)
	}
	if m := minutesPattern.FindStringSubmatch(s); m != nil {
		mins, _ := strconv.Atoi(m[1])
		hours += float64(mins) / 60
	}
	return hours
}

// WindowMinutes returns end-start in minutes, rejecting empty or inverted ranges.
func WindowMinutes(start, end string) (int, error) {
	startMinutes, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	endMinutes, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	if endMinutes <= startMinutes {
		return 0, ErrInvalidTimeRange
	}
	return endMinutes - startMinutes, nil
}

// RecalculateAmount keeps the hourly rate implied by the original booking.
// When the original duration is unknown, defaultRate per hour is used.
func RecalculateAmount(originalAmount, originalMinutes, newMinutes, defaultRate int) int {
	newHours := float64(newMinutes) / 60
	if originalMinutes <= 0 {
		return int(math.Round(float64(defaultRate) * newHours))
	}
	hourlyRate := float64(originalAmount) / (float64(originalMinutes) / 60)
	return int(math.Round(hourlyRate * newHours))
}

// Window is the editable time slice of a booking.
type Window struct {
	Date      string
	StartTime string
	EndTime   string
}

// WindowPatch carries the subset of fields a caller wants to change.
type WindowPatch struct {
	Date      *string
	StartTime *string
	EndTime   *string
}

// ResolvedWindow is the outcome of applying a patch.
type ResolvedWindow struct {
	Window
	DurationMinutes int
	TimesChanged    bool
}

// ResolveWindow applies patch over existing. Duration is recomputed only
// when start or end changed.
func ResolveWindow(existing Window, patch WindowPatch) (ResolvedWindow, error) {
	out := ResolvedWindow{Window: existing}
	if patch.Date != nil && strings.TrimSpace(*patch.Date) != "" {
		date := strings.TrimSpace(*patch.Date)
		if _, err := time.Parse(dateLayout, date); err != nil {
			return out, ErrInvalidDate
		}
		out.Date = date
	}
	if patch.StartTime != nil && strings.TrimSpace(*patch.StartTime) != "" {
		out.StartTime = strings.TrimSpace(*patch.StartTime)
		out.TimesChanged = out.StartTime != existing.StartTime
	}
	if patch.EndTime != nil && strings.TrimSpace(*patch.EndTime) != "" {
		out.EndTime = strings.TrimSpace(*patch.EndTime)
		out.TimesChanged = out.TimesChanged || out.EndTime != existing.EndTime
	}
	if !out.TimesChanged {
		return out, nil
	}
	minutes, err := WindowMinutes(out.StartTime, out.EndTime)
	if err != nil {
		return out, err
	}
	out.DurationMinutes = minutes
	return out, nil
}

// ValidateDate checks the YYYY-MM-DD layout.
func ValidateDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// WindowEnd returns the wall-clock end of a booking in loc.
func WindowEnd(date, end string, loc *time.Location) (time.Time, error) {
	return windowInstant(date, end, loc)
}

// WindowStart returns the wall-clock start of a booking in loc.
func WindowStart(date, start string, loc *time.Location) (time.Time, error) {
	return windowInstant(date, start, loc)
}

func windowInstant(date, clock string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	minutes, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(minutes) * time.Minute), nil
}

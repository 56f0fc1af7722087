package helpers

import (
	"fmt"
	"time"
)

// MinutesBetween returns the whole-minute difference end-start, floored.
func MinutesBetween(start, end time.Time) int {
	return int(end.Sub(start).Minutes())
}

// FormatMinutes renders a minute count as HH:MM.
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

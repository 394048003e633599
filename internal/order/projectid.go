package order

import (
	"fmt"
	"regexp"
	"time"
)

// ProjectID is the 16-digit human-facing order reference: a 5-digit store
// id, a 2-digit year, a 4-digit month-day and a 5-digit daily sequence.
type ProjectID string

var (
	projectIDPattern = regexp.MustCompile(`^\d{16}$`)
	storeIDPattern   = regexp.MustCompile(`^\d{5}$`)
)

// ParseProjectID validates the 16-digit format.
func ParseProjectID(value string) (ProjectID, error) {
	if !projectIDPattern.MatchString(value) {
		return "", fmt.Errorf("project id must be 16 digits, got %q", value)
	}
	return ProjectID(value), nil
}

// NewProjectID builds a reference from its parts.
func NewProjectID(storeID string, date time.Time, sequence int) (ProjectID, error) {
	if !storeIDPattern.MatchString(storeID) {
		return "", fmt.Errorf("store id must be 5 digits, got %q", storeID)
	}
	if sequence < 0 || sequence > 99999 {
		return "", fmt.Errorf("project sequence out of range: %d", sequence)
	}
	return ProjectID(fmt.Sprintf("%s%02d%02d%02d%05d",
		storeID, date.Year()%100, int(date.Month()), date.Day(), sequence)), nil
}

func (p ProjectID) StoreID() string  { return string(p[0:5]) }
func (p ProjectID) Year() string     { return string(p[5:7]) }
func (p ProjectID) MonthDay() string { return string(p[7:11]) }
func (p ProjectID) Sequence() string { return string(p[11:16]) }

func (p ProjectID) String() string { return string(p) }

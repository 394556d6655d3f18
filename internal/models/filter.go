package models

import (
	"fmt"
	"time"
)

// Sentinel filter values that disable a dimension
const (
	FilterAll          = "All"
	FilterAllMedicines = "All Medicines"
)

// DateRange selects a time window relative to the moment of filtering
type DateRange string

const (
	DateRangeAllTime     DateRange = "All Time"
	DateRangeLastHour    DateRange = "Last Hour"
	DateRangeLast24Hours DateRange = "Last 24 Hours"
	DateRangeLast7Days   DateRange = "Last 7 Days"
	DateRangeLast30Days  DateRange = "Last 30 Days"
)

var dateRangeWindows = map[DateRange]time.Duration{
	DateRangeLastHour:    time.Hour,
	DateRangeLast24Hours: 24 * time.Hour,
	DateRangeLast7Days:   7 * 24 * time.Hour,
	DateRangeLast30Days:  30 * 24 * time.Hour,
}

// Window returns the look-back window. ok is false for All Time and for
// values outside the known set.
func (d DateRange) Window() (time.Duration, bool) {
	w, ok := dateRangeWindows[d]
	return w, ok
}

func (d DateRange) Valid() bool {
	if d == DateRangeAllTime {
		return true
	}
	_, ok := dateRangeWindows[d]
	return ok
}

// SortKey selects the ordering policy for hospital requests
type SortKey string

const (
	SortByPriority  SortKey = "priority"
	SortByDistance  SortKey = "distance"
	SortByTimestamp SortKey = "timestamp"
)

func (k SortKey) Valid() bool {
	return k == SortByPriority || k == SortByDistance || k == SortByTimestamp
}

// FilterCriteria holds exactly one value per filter dimension
type FilterCriteria struct {
	Urgency   string    `json:"urgency" form:"urgency"`
	Type      string    `json:"type" form:"type"`
	Drug      string    `json:"drug" form:"drug"`
	DateRange DateRange `json:"dateRange" form:"dateRange"`
	SortBy    SortKey   `json:"sortBy" form:"sortBy"`
}

// DefaultFilterCriteria is the state after clearing all filters
func DefaultFilterCriteria() FilterCriteria {
	return FilterCriteria{
		Urgency:   FilterAll,
		Type:      FilterAll,
		Drug:      FilterAllMedicines,
		DateRange: DateRangeAllTime,
		SortBy:    SortByPriority,
	}
}

// WithDefaults fills empty dimensions with their default values
func (f FilterCriteria) WithDefaults() FilterCriteria {
	d := DefaultFilterCriteria()
	if f.Urgency == "" {
		f.Urgency = d.Urgency
	}
	if f.Type == "" {
		f.Type = d.Type
	}
	if f.Drug == "" {
		f.Drug = d.Drug
	}
	if f.DateRange == "" {
		f.DateRange = d.DateRange
	}
	if f.SortBy == "" {
		f.SortBy = d.SortBy
	}
	return f
}

// ActiveCount returns how many dimensions differ from their defaults
func (f FilterCriteria) ActiveCount() int {
	d := DefaultFilterCriteria()
	count := 0
	if f.Urgency != d.Urgency {
		count++
	}
	if f.Type != d.Type {
		count++
	}
	if f.Drug != d.Drug {
		count++
	}
	if f.DateRange != d.DateRange {
		count++
	}
	if f.SortBy != d.SortBy {
		count++
	}
	return count
}

// Validate rejects values outside the enumerated sets. Drug names are free
// text: an unknown drug simply matches nothing.
func (f FilterCriteria) Validate() error {
	if f.Urgency != FilterAll && !Urgency(f.Urgency).Valid() {
		return fmt.Errorf("invalid urgency filter %q", f.Urgency)
	}
	if f.Type != FilterAll && !FacilityType(f.Type).Valid() {
		return fmt.Errorf("invalid type filter %q", f.Type)
	}
	if !f.DateRange.Valid() {
		return fmt.Errorf("invalid date range %q", f.DateRange)
	}
	if !f.SortBy.Valid() {
		return fmt.Errorf("invalid sort key %q", f.SortBy)
	}
	return nil
}

package core

import "strings"

// Canonical import headers. Matching is exact and case-sensitive after trim.
const (
	HeaderTitle       = "Title"
	HeaderStreet      = "Street Address"
	HeaderCity        = "City"
	HeaderState       = "State"
	HeaderZIP         = "ZIP"
	HeaderCounty      = "County"
	HeaderPhone       = "Phone"
	HeaderWebsite     = "Website"
	HeaderServices    = "Services"
	HeaderLanguages   = "Languages"
	HeaderHoursNote   = "Hours Note"
	HeaderEligibility = "Eligibility Requirements"
	HeaderNotes       = "Additional Notes"
)

// RegularHours is the override note value that keeps structured hours.
const RegularHours = "Regular hours"

// Weekdays lists the days in display and template order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// RequiredHeaders must all be present in an import file.
var RequiredHeaders = []string{HeaderTitle, HeaderStreet, HeaderCity, HeaderState, HeaderZIP, HeaderCounty}

// DefaultCounties is the allowed-county set used when none is configured.
var DefaultCounties = []string{"Macomb County", "Oakland County", "Wayne County"}

// DefaultServices is the allowed service-type set.
var DefaultServices = []string{"Food Pantry", "Soup Kitchen", "Other"}

// HoursNoteOptions are the accepted Hours Note values.
var HoursNoteOptions = []string{RegularHours, "Appointment only", "Hours unknown", "Call to confirm"}

// USStateCodes are the 50 two-letter state abbreviations.
var USStateCodes = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

// DayOpenHeader returns the "<Day> Open" column name.
func DayOpenHeader(day string) string { return day + " Open" }

// DayOpenTimeHeader returns the "<Day> Open Time" column name.
func DayOpenTimeHeader(day string) string { return day + " Open Time" }

// DayCloseTimeHeader returns the "<Day> Close Time" column name.
func DayCloseTimeHeader(day string) string { return day + " Close Time" }

// WeekdayKey is the storage key for a weekday ("Monday" -> "monday").
func WeekdayKey(day string) string { return strings.ToLower(day) }

// TemplateHeaders returns the full column order used by templates.
func TemplateHeaders() []string {
	headers := []string{
		HeaderTitle, HeaderStreet, HeaderCity, HeaderState, HeaderZIP, HeaderCounty,
		HeaderPhone, HeaderWebsite, HeaderServices, HeaderLanguages,
	}
	for _, day := range Weekdays {
		headers = append(headers, DayOpenHeader(day), DayOpenTimeHeader(day), DayCloseTimeHeader(day))
	}
	return append(headers, HeaderHoursNote, HeaderEligibility, HeaderNotes)
}

// stringSet is a membership set over exact strings.
type stringSet map[string]struct{}

func newStringSet(values []string) stringSet {
	s := make(stringSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s stringSet) has(v string) bool {
	_, ok := s[v]
	return ok
}

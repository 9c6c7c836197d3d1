package core

import (
	"strings"
	"time"
)

// MapRecord converts a validated row into a LocationRecord under title.
// Every coercion is total, so a row that somehow skipped validation still maps
// without error; an unusable phone is dropped rather than stored.
func MapRecord(row RawRow, title string, now time.Time) *LocationRecord {
	rec := &LocationRecord{
		Title: title,
		Address: Address{
			Street: row.Get(HeaderStreet),
			City:   row.Get(HeaderCity),
			State:  strings.ToUpper(strings.TrimSpace(row.Get(HeaderState))),
			ZIP:    row.Get(HeaderZIP),
			County: row.Get(HeaderCounty),
		},
		Website:     row.Get(HeaderWebsite),
		Services:    SplitList(row.Get(HeaderServices)),
		Languages:   SplitList(row.Get(HeaderLanguages)),
		HoursNote:   row.Get(HeaderHoursNote),
		Eligibility: row.Get(HeaderEligibility),
		Notes:       row.Get(HeaderNotes),
		CreatedAt:   now,
	}

	if phone := DigitsOnly(row.Get(HeaderPhone)); len(phone) == 10 {
		rec.Phone = phone
	}

	if writesStructuredHours(rec.HoursNote) {
		rec.Hours = mapHours(row)
	}
	return rec
}

// writesStructuredHours reports whether per-day hours are stored for note.
func writesStructuredHours(note string) bool {
	return note == "" || note == RegularHours
}

func mapHours(row RawRow) map[string]DayHours {
	hours := make(map[string]DayHours, len(Weekdays))
	for _, day := range Weekdays {
		dh := DayHours{Open: ParseBool(row.Get(DayOpenHeader(day)))}
		if dh.Open {
			dh.OpenTime = FormatClock(row.Get(DayOpenTimeHeader(day)))
			dh.CloseTime = FormatClock(row.Get(DayCloseTimeHeader(day)))
		}
		hours[WeekdayKey(day)] = dh
	}
	return hours
}

package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// TemplateFileName is the download name for the CSV template.
const TemplateFileName = "food-resource-import-template.csv"

// templateExample is one illustrative template row. Unset cells are blank.
type templateExample struct {
	cells map[string]string
	days  map[string][2]string // open days only: {open, close}
}

var templateExamples = []templateExample{
	{
		cells: map[string]string{
			HeaderTitle:       "Eastside Community Pantry",
			HeaderStreet:      "1234 Gratiot Ave",
			HeaderCity:        "Detroit",
			HeaderState:       "MI",
			HeaderZIP:         "48207",
			HeaderCounty:      "Wayne County",
			HeaderPhone:       "3135550100",
			HeaderWebsite:     "https://example.org/eastside",
			HeaderServices:    "Food Pantry, Soup Kitchen",
			HeaderLanguages:   "English, Spanish",
			HeaderHoursNote:   RegularHours,
			HeaderEligibility: "Open to all residents",
			HeaderNotes:       "Bring a photo ID if you have one",
		},
		days: map[string][2]string{
			"Monday":    {"9:00 AM", "5:00 PM"},
			"Tuesday":   {"9:00 AM", "5:00 PM"},
			"Wednesday": {"9:00 AM", "5:00 PM"},
			"Thursday":  {"9:00 AM", "5:00 PM"},
			"Friday":    {"9:00 AM", "5:00 PM"},
			"Saturday":  {"10:00 AM", "2:00 PM"},
			"Sunday":    {"12:00 PM", "4:00 PM"},
		},
	},
	{
		cells: map[string]string{
			HeaderTitle:     "Northside Soup Kitchen",
			HeaderStreet:    "55 Main St",
			HeaderCity:      "Pontiac",
			HeaderState:     "MI",
			HeaderZIP:       "48342",
			HeaderCounty:    "Oakland County",
			HeaderServices:  "Soup Kitchen",
			HeaderLanguages: "English",
			HeaderNotes:     "Hot lunch only",
		},
		days: map[string][2]string{
			"Monday":    {"11:00 AM", "1:00 PM"},
			"Wednesday": {"11:00 AM", "1:00 PM"},
			"Friday":    {"11:00 AM", "1:00 PM"},
		},
	},
}

// TemplateRows returns the header row followed by the example rows.
func TemplateRows() [][]string {
	headers := TemplateHeaders()
	rows := [][]string{headers}
	for _, ex := range templateExamples {
		values := make(map[string]string, len(headers))
		for k, v := range ex.cells {
			values[k] = v
		}
		for _, day := range Weekdays {
			window, open := ex.days[day]
			values[DayOpenHeader(day)] = "FALSE"
			if open {
				values[DayOpenHeader(day)] = "TRUE"
				values[DayOpenTimeHeader(day)] = window[0]
				values[DayCloseTimeHeader(day)] = window[1]
			}
		}
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = values[h]
		}
		rows = append(rows, row)
	}
	return rows
}

// GenerateTemplate renders TemplateRows as CSV.
func GenerateTemplate() ([]byte, error) {
	return writeCSV(TemplateRows())
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

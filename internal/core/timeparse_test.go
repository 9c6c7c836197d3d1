package core

import "testing"

func TestParseClock(t *testing.T) {
	tests := []struct {
		in     string
		hour   int
		minute int
		ok     bool
	}{
		{"9:00 AM", 9, 0, true},
		{"9am", 9, 0, true},
		{"9 a.m.", 9, 0, true},
		{"09:00", 9, 0, true},
		{"5:30 pm", 17, 30, true},
		{"17:30", 17, 30, true},
		{"12:00 PM", 12, 0, true},
		{"12:00 AM", 0, 0, true},
		{"noon", 12, 0, true},
		{"Midnight", 0, 0, true},
		{"10:15:30", 10, 15, true},
		{"", 0, 0, false},
		{"25:00", 0, 0, false},
		{"9:75 am", 0, 0, false},
		{"morning", 0, 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseClock(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseClock(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && (got.Hour() != tt.hour || got.Minute() != tt.minute) {
			t.Errorf("ParseClock(%q) = %02d:%02d, want %02d:%02d",
				tt.in, got.Hour(), got.Minute(), tt.hour, tt.minute)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"9:00 AM", "9:00 am"},
		{"9am", "9:00 am"},
		{"17:30", "5:30 pm"},
		{"noon", "12:00 pm"},
		{"not a time", "not a time"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.in); got != tt.want {
			t.Errorf("FormatClock(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

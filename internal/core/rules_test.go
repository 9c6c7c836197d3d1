package core

import (
	"reflect"
	"strings"
	"testing"
)

func TestStateCode(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"MI", false},
		{"mi", false},
		{" oh ", false},
		{"XX", true},
		{"Michigan", true},
		{"DC", true},
	}
	for _, tt := range tests {
		err := StateCode(tt.in, USStateCodes)
		if (err != nil) != tt.wantErr {
			t.Errorf("StateCode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}

	err := StateCode("XX", USStateCodes)
	want := "Invalid state code: XX (must be 2-letter US state code, e.g., MI)"
	if err == nil || err.Error() != want {
		t.Errorf("StateCode(XX) = %v, want %q", err, want)
	}
}

func TestZIP5(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"48201", false},
		{"02134", false},
		{"48201-1234", true},
		{"4820", true},
		{"482011", true},
		{"4820a", true},
		{"４８２０１", true},
	}
	for _, tt := range tests {
		err := ZIP5(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ZIP5(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}

	err := ZIP5("48201-1234")
	want := "Invalid ZIP code: 48201-1234 (must be exactly 5 digits)"
	if err == nil || err.Error() != want {
		t.Errorf("ZIP5(48201-1234) = %v, want %q", err, want)
	}
}

func TestPhone10(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantCleaned string
		wantWarning bool
		wantErr     bool
	}{
		{"digits only", "3135550100", "3135550100", false, false},
		{"formatted", "(313) 555-0100", "3135550100", true, false},
		{"dotted", "313.555.0100", "3135550100", true, false},
		{"too short", "555-0100", "5550100", false, true},
		{"country code", "+1 313 555 0100", "13135550100", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, warning, err := Phone10(tt.in)
			if cleaned != tt.wantCleaned {
				t.Errorf("cleaned = %q, want %q", cleaned, tt.wantCleaned)
			}
			if (warning != "") != tt.wantWarning {
				t.Errorf("warning = %q, wantWarning %v", warning, tt.wantWarning)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	_, warning, _ := Phone10("(313) 555-0100")
	if !strings.HasSuffix(warning, "will be cleaned to: 3135550100") {
		t.Errorf("warning = %q, want cleaned value named", warning)
	}
}

func TestHTTPURL(t *testing.T) {
	tests := []struct {
		in      string
		wantErr string
	}{
		{"https://example.org", ""},
		{"http://example.org/pantry?id=1", ""},
		{"ftp://example.org", "Invalid URL protocol: ftp (must be http or https)"},
		{"example.org", "Invalid website URL: example.org"},
		{"https://", "Invalid website URL: https://"},
		{"not a url", "Invalid website URL: not a url"},
	}
	for _, tt := range tests {
		err := HTTPURL(tt.in)
		got := ""
		if err != nil {
			got = err.Error()
		}
		if got != tt.wantErr {
			t.Errorf("HTTPURL(%q) = %q, want %q", tt.in, got, tt.wantErr)
		}
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{"Food Pantry", []string{"Food Pantry"}},
		{"Food Pantry, Soup Kitchen", []string{"Food Pantry", "Soup Kitchen"}},
		{"Soup Kitchen,Food Pantry,Soup Kitchen", []string{"Soup Kitchen", "Food Pantry"}},
	}
	for _, tt := range tests {
		if got := SplitList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEnumMembers(t *testing.T) {
	if err := EnumMembers("service(s)", "Food Pantry, Other", DefaultServices); err != nil {
		t.Errorf("EnumMembers() valid = %v, want nil", err)
	}

	err := EnumMembers("service(s)", "Food Pantry, Groceries, Meals", DefaultServices)
	want := "Invalid service(s): Groceries, Meals (must be one of: Food Pantry, Soup Kitchen, Other)"
	if err == nil || err.Error() != want {
		t.Errorf("EnumMembers() = %v, want %q", err, want)
	}

	if err := EnumMembers("county", "wayne county", DefaultCounties); err == nil {
		t.Error("EnumMembers() should be case-sensitive")
	}
}

func TestParseBool(t *testing.T) {
	for _, in := range []string{"1", "true", "TRUE", "Yes", "y", " Y "} {
		if !ParseBool(in) {
			t.Errorf("ParseBool(%q) = false, want true", in)
		}
	}
	for _, in := range []string{"", "0", "false", "no", "open", "t"} {
		if ParseBool(in) {
			t.Errorf("ParseBool(%q) = true, want false", in)
		}
	}
}

func TestHoursConsistency(t *testing.T) {
	tests := []struct {
		name      string
		open      bool
		openTime  string
		closeTime string
		want      []string
	}{
		{
			name: "closed with no times",
		},
		{
			name:      "closed times never checked",
			openTime:  "whenever",
			closeTime: "25:99",
		},
		{
			name:      "open with valid times",
			open:      true,
			openTime:  "9am",
			closeTime: "17:00",
		},
		{
			name:      "open missing open time",
			open:      true,
			closeTime: "5:00 PM",
			want:      []string{"Monday: Open Time is required when Monday Open is TRUE"},
		},
		{
			name: "open missing both",
			open: true,
			want: []string{
				"Monday: Open Time is required when Monday Open is TRUE",
				"Monday: Close Time is required when Monday Open is TRUE",
			},
		},
		{
			name:      "open invalid close time",
			open:      true,
			openTime:  "9:00 AM",
			closeTime: "late",
			want:      []string{"Monday Close Time: Invalid time format 'late' (examples: 9:00 AM, 9am, 09:00)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, err := range HoursConsistency("Monday", tt.open, tt.openTime, tt.closeTime) {
				got = append(got, err.Error())
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("HoursConsistency() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDigitsOnly(t *testing.T) {
	if got := DigitsOnly("(313) 555-0100 ext. 4"); got != "31355501004" {
		t.Errorf("DigitsOnly() = %q, want %q", got, "31355501004")
	}
	if got := DigitsOnly(""); got != "" {
		t.Errorf("DigitsOnly(\"\") = %q, want empty", got)
	}
}

func TestEnumValue(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"Wayne County", false},
		{"  Oakland County ", false},
		{"Wayne County, Oakland County", true},
		{",", true},
		{"wayne county", true},
	}
	for _, tt := range tests {
		err := EnumValue("county", tt.in, DefaultCounties)
		if (err != nil) != tt.wantErr {
			t.Errorf("EnumValue(%q) = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

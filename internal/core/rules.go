package core

// rules.go holds the pure field rules the RowValidator composes.
//
// Every rule is total over its string input and has no side effects. A nil
// error means the value passed; warnings are returned separately because they
// never block a row.

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var zip5Pattern = regexp.MustCompile(`^[0-9]{5}$`)

// StateCode checks s against the configured state set after trimming and
// uppercasing.
func StateCode(s string, states []string) error {
	code := strings.ToUpper(strings.TrimSpace(s))
	for _, st := range states {
		if st == code {
			return nil
		}
	}
	return fmt.Errorf("Invalid state code: %s (must be 2-letter US state code, e.g., MI)", s)
}

// ZIP5 accepts exactly five ASCII digits. ZIP+4 is rejected.
func ZIP5(s string) error {
	if zip5Pattern.MatchString(s) {
		return nil
	}
	return fmt.Errorf("Invalid ZIP code: %s (must be exactly 5 digits)", s)
}

// DigitsOnly strips every non-digit character from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Phone10 cleans s to its digits and requires exactly ten of them. When
// characters were stripped it returns a warning naming the cleaned value.
func Phone10(s string) (cleaned, warning string, err error) {
	cleaned = DigitsOnly(s)
	if len(cleaned) != 10 {
		return cleaned, "", fmt.Errorf("Invalid phone number: %s (must be 10 digits, e.g., 313-555-0100)", s)
	}
	if cleaned != s {
		warning = fmt.Sprintf("Phone number contains non-numeric characters - will be cleaned to: %s", cleaned)
	}
	return cleaned, warning, nil
}

// HTTPURL requires an absolute URL with an http or https scheme.
func HTTPURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("Invalid website URL: %s", s)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("Invalid URL protocol: %s (must be http or https)", u.Scheme)
	}
	return nil
}

// SplitList splits a comma-separated cell into trimmed, non-empty values,
// dropping repeats while keeping first-seen order.
func SplitList(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}

// EnumMembers checks every comma-separated value of s against allowed. All
// offending values are listed together in one error.
func EnumMembers(label, s string, allowed []string) error {
	set := newStringSet(allowed)
	var bad []string
	for _, v := range SplitList(s) {
		if !set.has(v) {
			bad = append(bad, v)
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return fmt.Errorf("Invalid %s: %s (must be one of: %s)",
		label, strings.Join(bad, ", "), strings.Join(allowed, ", "))
}

// EnumValue checks the whole trimmed s against allowed as a single value.
func EnumValue(label, s string, allowed []string) error {
	v := strings.TrimSpace(s)
	if newStringSet(allowed).has(v) {
		return nil
	}
	return fmt.Errorf("Invalid %s: %s (must be one of: %s)",
		label, v, strings.Join(allowed, ", "))
}

// TimeString accepts anything ParseClock understands.
func TimeString(s string) error {
	if _, ok := ParseClock(s); ok {
		return nil
	}
	return fmt.Errorf("Invalid time format '%s' (examples: 9:00 AM, 9am, 09:00)", s)
}

// ParseBool maps {1, true, yes, y} (any case) to true and everything else,
// including the empty string, to false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

// HoursConsistency checks one weekday. Closed days are never checked; open
// days need both times and each must parse.
func HoursConsistency(day string, open bool, openTime, closeTime string) []error {
	if !open {
		return nil
	}
	var errs []error
	if openTime == "" {
		errs = append(errs, fmt.Errorf("%s: Open Time is required when %s Open is TRUE", day, day))
	} else if err := TimeString(openTime); err != nil {
		errs = append(errs, fmt.Errorf("%s Open Time: %w", day, err))
	}
	if closeTime == "" {
		errs = append(errs, fmt.Errorf("%s: Close Time is required when %s Open is TRUE", day, day))
	} else if err := TimeString(closeTime); err != nil {
		errs = append(errs, fmt.Errorf("%s Close Time: %w", day, err))
	}
	return errs
}

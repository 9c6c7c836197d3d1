package core

// validation.go applies the field rules to one row plus batch-wide context.
//
// Every check runs and every message is collected; a check is only skipped
// when its field is empty. Duplicate titles are resolved at import time, so
// they surface as warnings, never as errors.

import (
	"context"
	"fmt"
	"strings"
)

// ValidatorConfig is the injected reference data for validation.
type ValidatorConfig struct {
	Counties   []string
	States     []string
	Services   []string
	HoursNotes []string
}

// DefaultValidatorConfig returns the built-in reference sets.
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		Counties:   DefaultCounties,
		States:     USStateCodes,
		Services:   DefaultServices,
		HoursNotes: HoursNoteOptions,
	}
}

// withDefaults fills any empty set from DefaultValidatorConfig.
func (c ValidatorConfig) withDefaults() ValidatorConfig {
	d := DefaultValidatorConfig()
	if len(c.Counties) == 0 {
		c.Counties = d.Counties
	}
	if len(c.States) == 0 {
		c.States = d.States
	}
	if len(c.Services) == 0 {
		c.Services = d.Services
	}
	if len(c.HoursNotes) == 0 {
		c.HoursNotes = d.HoursNotes
	}
	return c
}

// TitleLookup reports whether a title already exists in storage.
type TitleLookup interface {
	FindByTitle(ctx context.Context, title string) (id string, found bool, err error)
}

// BatchTitles counts title occurrences across every row of one file.
type BatchTitles map[string]int

// CountTitles builds BatchTitles from parsed rows. Empty titles are ignored.
func CountTitles(rows []RawRow) BatchTitles {
	counts := make(BatchTitles, len(rows))
	for _, row := range rows {
		if t := row.Get(HeaderTitle); t != "" {
			counts[t]++
		}
	}
	return counts
}

// RowValidator validates rows against a ValidatorConfig.
type RowValidator struct {
	cfg    ValidatorConfig
	notes  stringSet
	lookup TitleLookup
}

// NewRowValidator creates a validator. lookup may be nil, in which case the
// storage duplicate check is skipped.
func NewRowValidator(cfg ValidatorConfig, lookup TitleLookup) *RowValidator {
	cfg = cfg.withDefaults()
	return &RowValidator{
		cfg:    cfg,
		notes:  newStringSet(cfg.HoursNotes),
		lookup: lookup,
	}
}

// verdictBuilder accumulates messages for one row.
type verdictBuilder struct {
	errors   []string
	warnings []string
}

func (b *verdictBuilder) fail(err error) {
	if err != nil {
		b.errors = append(b.errors, err.Error())
	}
}

func (b *verdictBuilder) warn(msg string) {
	if msg != "" {
		b.warnings = append(b.warnings, msg)
	}
}

func (b *verdictBuilder) verdict() Verdict {
	return Verdict{
		Valid:    len(b.errors) == 0,
		Errors:   b.errors,
		Warnings: b.warnings,
	}
}

// Validate runs all checks against row and returns its verdict.
func (v *RowValidator) Validate(ctx context.Context, row RawRow, batch BatchTitles) Verdict {
	var b verdictBuilder

	for _, field := range RequiredHeaders {
		if row.Get(field) == "" {
			b.fail(fmt.Errorf("Missing required field: %s", field))
		}
	}

	if title := row.Get(HeaderTitle); title != "" {
		if batch[title] > 1 {
			b.warn("Duplicate title in import file - will be created with suffix")
		}
		if v.lookup != nil {
			_, found, err := v.lookup.FindByTitle(ctx, title)
			switch {
			case err != nil:
				b.warn(fmt.Sprintf("Could not check existing locations for this title: %v", err))
			case found:
				b.warn("Location with this title already exists - will create duplicate with suffix")
			}
		}
	}

	if s := row.Get(HeaderState); s != "" {
		b.fail(StateCode(s, v.cfg.States))
	}
	if s := row.Get(HeaderZIP); s != "" {
		b.fail(ZIP5(s))
	}
	if s := row.Get(HeaderCounty); s != "" {
		b.fail(EnumValue("county", s, v.cfg.Counties))
	}
	if s := row.Get(HeaderPhone); s != "" {
		_, warning, err := Phone10(s)
		b.fail(err)
		b.warn(warning)
	}
	if s := row.Get(HeaderWebsite); s != "" {
		b.fail(HTTPURL(s))
	}

	if s := row.Get(HeaderServices); s == "" || len(SplitList(s)) == 0 {
		b.fail(fmt.Errorf("Services required: list at least one of %s", strings.Join(v.cfg.Services, ", ")))
	} else {
		b.fail(EnumMembers("service(s)", s, v.cfg.Services))
	}

	if note := row.Get(HeaderHoursNote); note != "" {
		if !v.notes.has(note) {
			b.fail(fmt.Errorf("Invalid hours note: %s (must be one of: %s)", note, strings.Join(v.cfg.HoursNotes, ", ")))
		} else if note != RegularHours {
			b.warn(fmt.Sprintf("Hours note is %q - day/time fields will be ignored", note))
		}
	}

	// Per-day hours are checked even when an override note will suppress them.
	for _, day := range Weekdays {
		for _, err := range HoursConsistency(day,
			ParseBool(row.Get(DayOpenHeader(day))),
			row.Get(DayOpenTimeHeader(day)),
			row.Get(DayCloseTimeHeader(day)),
		) {
			b.fail(err)
		}
	}

	return b.verdict()
}

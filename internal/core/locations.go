package core

// locations.go serves the public directory: filtering stored locations,
// lazily geocoding them, and ordering by distance from the visitor.

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/JonMunkholm/fooddir/internal/logging"
)

// EarthRadiusMiles is used by Haversine.
const EarthRadiusMiles = 3959.0

// UnknownDistance is reported for locations without coordinates so they
// sort after every located one.
const UnknownDistance = 999999.0

// ErrGeocodingDisabled is returned when no geocoder is configured.
var ErrGeocodingDisabled = errors.New("geocoding not configured")

// LocationQuery filters a directory listing. Empty fields match everything.
type LocationQuery struct {
	Services []string     // Any of
	County   string       // Exact
	Days     []string     // Open on any of; weekday names, any case
	Origin   *Coordinates // When set, results carry distances and sort nearest first
}

// LocationView is one directory entry.
type LocationView struct {
	LocationRecord
	Distance  *float64 `json:"distance,omitempty"`
	HoursText string   `json:"hours_text"`
}

// ListLocations returns the locations matching q.
func (s *Service) ListLocations(ctx context.Context, q LocationQuery) ([]LocationView, error) {
	recs, err := s.store.List(ctx, q.County)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}

	views := make([]LocationView, 0, len(recs))
	for i := range recs {
		if !matchesQuery(&recs[i], q) {
			continue
		}
		views = append(views, LocationView{LocationRecord: recs[i]})
	}

	s.geocodeMissing(ctx, views)

	for i := range views {
		views[i].HoursText = HoursText(&views[i].LocationRecord)
		if q.Origin != nil {
			d := UnknownDistance
			if c := views[i].Coordinates; c != nil {
				d = Haversine(*q.Origin, *c)
			}
			views[i].Distance = &d
		}
	}

	if q.Origin != nil {
		sort.SliceStable(views, func(i, j int) bool {
			return *views[i].Distance < *views[j].Distance
		})
	}
	return views, nil
}

// geocodeMissing fills and caches coordinates for up to the configured number
// of locations. Failures are logged and leave the location unlocated.
func (s *Service) geocodeMissing(ctx context.Context, views []LocationView) {
	if s.geocoder == nil {
		return
	}
	budget := s.cfg.Geocoding.MaxPerRequest
	for i := range views {
		if budget <= 0 {
			return
		}
		if views[i].Coordinates != nil {
			continue
		}
		budget--

		c, err := s.geocoder.Geocode(ctx, views[i].Address.OneLine())
		if err != nil {
			logging.FromContext(ctx).Warn("geocode failed", "location_id", views[i].ID, "error", err)
			continue
		}
		views[i].Coordinates = &c
		if err := s.store.SetCoordinates(ctx, views[i].ID, c); err != nil {
			logging.FromContext(ctx).Warn("cache coordinates failed", "location_id", views[i].ID, "error", err)
		}
	}
}

// Geocode resolves a free-text address with the configured geocoder.
func (s *Service) Geocode(ctx context.Context, address string) (Coordinates, error) {
	if s.geocoder == nil {
		return Coordinates{}, ErrGeocodingDisabled
	}
	return s.geocoder.Geocode(ctx, address)
}

func matchesQuery(rec *LocationRecord, q LocationQuery) bool {
	if q.County != "" && rec.Address.County != q.County {
		return false
	}
	if len(q.Services) > 0 && !anyOf(rec.Services, q.Services) {
		return false
	}
	if len(q.Days) > 0 {
		open := false
		for _, day := range q.Days {
			if rec.Hours[strings.ToLower(strings.TrimSpace(day))].Open {
				open = true
				break
			}
		}
		if !open {
			return false
		}
	}
	return true
}

func anyOf(have, want []string) bool {
	set := newStringSet(have)
	for _, w := range want {
		if set.has(w) {
			return true
		}
	}
	return false
}

// Haversine returns the great-circle distance in miles, rounded to two
// decimals.
func Haversine(a, b Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	d := 2 * EarthRadiusMiles * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return math.Round(d*100) / 100
}

// HoursText renders a location's hours for display. An override note other
// than "Regular hours" replaces the weekly schedule.
func HoursText(rec *LocationRecord) string {
	if rec.HoursNote != "" && rec.HoursNote != RegularHours {
		return rec.HoursNote
	}

	var lines []string
	for _, day := range Weekdays {
		h := rec.Hours[WeekdayKey(day)]
		if !h.Open || h.OpenTime == "" || h.CloseTime == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s - %s", day, h.OpenTime, h.CloseTime))
	}
	if len(lines) == 0 {
		return "Hours not available"
	}
	return strings.Join(lines, "\n")
}

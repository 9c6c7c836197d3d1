package core

import (
	"context"
	"errors"
	"testing"
)

func seedLocations(store *fakeStore) {
	store.records = []LocationRecord{
		{
			ID:       "loc-a",
			Title:    "Downtown Pantry",
			Address:  Address{Street: "1 Main St", City: "Detroit", State: "MI", ZIP: "48201", County: "Wayne County"},
			Services: []string{"Food Pantry"},
			Hours: map[string]DayHours{
				"monday": {Open: true, OpenTime: "9:00 am", CloseTime: "5:00 pm"},
			},
			Coordinates: &Coordinates{Lat: 42.3314, Lng: -83.0458},
		},
		{
			ID:       "loc-b",
			Title:    "Pontiac Kitchen",
			Address:  Address{Street: "55 Main St", City: "Pontiac", State: "MI", ZIP: "48342", County: "Oakland County"},
			Services: []string{"Soup Kitchen"},
			Hours: map[string]DayHours{
				"wednesday": {Open: true, OpenTime: "11:00 am", CloseTime: "1:00 pm"},
			},
		},
		{
			ID:        "loc-c",
			Title:     "Appointment Pantry",
			Address:   Address{Street: "9 Gratiot Ave", City: "Detroit", State: "MI", ZIP: "48207", County: "Wayne County"},
			Services:  []string{"Food Pantry", "Other"},
			HoursNote: "Appointment only",
		},
	}
}

func TestService_ListLocations_Filters(t *testing.T) {
	store := newFakeStore()
	seedLocations(store)
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		query LocationQuery
		want  []string
	}{
		{"all", LocationQuery{}, []string{"Appointment Pantry", "Downtown Pantry", "Pontiac Kitchen"}},
		{"county", LocationQuery{County: "Oakland County"}, []string{"Pontiac Kitchen"}},
		{"service", LocationQuery{Services: []string{"Food Pantry"}}, []string{"Appointment Pantry", "Downtown Pantry"}},
		{"any service", LocationQuery{Services: []string{"Other", "Soup Kitchen"}}, []string{"Appointment Pantry", "Pontiac Kitchen"}},
		{"day", LocationQuery{Days: []string{"Wednesday"}}, []string{"Pontiac Kitchen"}},
		{"no match", LocationQuery{County: "Macomb County"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := svc.ListLocations(ctx, tt.query)
			if err != nil {
				t.Fatalf("ListLocations() error = %v", err)
			}
			var got []string
			for _, v := range views {
				got = append(got, v.Title)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("titles = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("titles = %q, want %q", got, tt.want)
					break
				}
			}
		})
	}
}

func TestService_ListLocations_DistanceAndGeocoding(t *testing.T) {
	store := newFakeStore()
	seedLocations(store)
	geo := &fakeGeocoder{coords: map[string]Coordinates{
		"55 Main St, Pontiac, MI 48342": {Lat: 42.6389, Lng: -83.2910},
	}}
	svc := newTestService(t, store, geo)

	origin := Coordinates{Lat: 42.3314, Lng: -83.0458}
	views, err := svc.ListLocations(context.Background(), LocationQuery{Origin: &origin})
	if err != nil {
		t.Fatalf("ListLocations() error = %v", err)
	}

	if len(views) != 3 {
		t.Fatalf("len(views) = %d, want 3", len(views))
	}
	if views[0].Title != "Downtown Pantry" || *views[0].Distance != 0 {
		t.Errorf("nearest = %s at %v, want Downtown Pantry at 0", views[0].Title, *views[0].Distance)
	}
	if views[1].Title != "Pontiac Kitchen" {
		t.Errorf("second = %s, want Pontiac Kitchen (geocoded)", views[1].Title)
	}
	if views[2].Title != "Appointment Pantry" || *views[2].Distance != UnknownDistance {
		t.Errorf("last = %s at %v, want Appointment Pantry at UnknownDistance", views[2].Title, *views[2].Distance)
	}

	// Two lookups were attempted and the successful one was cached.
	if geo.calls != 2 {
		t.Errorf("geocoder calls = %d, want 2", geo.calls)
	}
	if store.setCoords != 1 {
		t.Errorf("cached coordinates = %d, want 1", store.setCoords)
	}
}

func TestService_ListLocations_GeocodeBudget(t *testing.T) {
	store := newFakeStore()
	seedLocations(store)
	geo := &fakeGeocoder{}
	svc := newTestService(t, store, geo)
	svc.cfg.Geocoding.MaxPerRequest = 1

	if _, err := svc.ListLocations(context.Background(), LocationQuery{}); err != nil {
		t.Fatalf("ListLocations() error = %v", err)
	}
	if geo.calls != 1 {
		t.Errorf("geocoder calls = %d, want 1", geo.calls)
	}
}

func TestService_Geocode_Disabled(t *testing.T) {
	svc := newTestService(t, newFakeStore(), nil)
	if _, err := svc.Geocode(context.Background(), "1 Main St"); !errors.Is(err, ErrGeocodingDisabled) {
		t.Errorf("Geocode() error = %v, want ErrGeocodingDisabled", err)
	}
}

func TestHaversine(t *testing.T) {
	detroit := Coordinates{Lat: 42.3314, Lng: -83.0458}
	annArbor := Coordinates{Lat: 42.2808, Lng: -83.7430}

	if got := Haversine(detroit, detroit); got != 0 {
		t.Errorf("Haversine(same) = %v, want 0", got)
	}
	got := Haversine(detroit, annArbor)
	if got < 35 || got > 37 {
		t.Errorf("Haversine(Detroit, Ann Arbor) = %v, want about 36 miles", got)
	}
	if back := Haversine(annArbor, detroit); back != got {
		t.Errorf("Haversine not symmetric: %v vs %v", got, back)
	}
}

func TestHoursText(t *testing.T) {
	tests := []struct {
		name string
		rec  LocationRecord
		want string
	}{
		{
			name: "override note",
			rec: LocationRecord{
				HoursNote: "Call to confirm",
				Hours:     map[string]DayHours{"monday": {Open: true, OpenTime: "9:00 am", CloseTime: "5:00 pm"}},
			},
			want: "Call to confirm",
		},
		{
			name: "weekly schedule in day order",
			rec: LocationRecord{
				HoursNote: RegularHours,
				Hours: map[string]DayHours{
					"friday": {Open: true, OpenTime: "11:00 am", CloseTime: "1:00 pm"},
					"monday": {Open: true, OpenTime: "9:00 am", CloseTime: "5:00 pm"},
					"sunday": {Open: false},
				},
			},
			want: "Monday: 9:00 am - 5:00 pm\nFriday: 11:00 am - 1:00 pm",
		},
		{
			name: "nothing open",
			rec:  LocationRecord{},
			want: "Hours not available",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HoursText(&tt.rec); got != tt.want {
				t.Errorf("HoursText() = %q, want %q", got, tt.want)
			}
		})
	}
}

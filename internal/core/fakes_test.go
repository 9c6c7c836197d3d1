package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// fakeStore is an in-memory Store with failure injection.
type fakeStore struct {
	mu      sync.Mutex
	records []LocationRecord
	nextID  int

	findErr   error            // Returned by every FindByTitle
	createErr map[string]error // Keyed by title
	failAfter int              // Create returns ErrStorageUnavailable once this many records exist; 0 disables
	setCoords int
}

func newFakeStore(titles ...string) *fakeStore {
	s := &fakeStore{createErr: map[string]error{}}
	for _, t := range titles {
		s.records = append(s.records, LocationRecord{ID: s.newID(), Title: t})
	}
	return s
}

func (s *fakeStore) newID() string {
	s.nextID++
	return fmt.Sprintf("loc-%d", s.nextID)
}

func (s *fakeStore) FindByTitle(ctx context.Context, title string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return "", false, s.findErr
	}
	for _, r := range s.records {
		if r.Title == title {
			return r.ID, true, nil
		}
	}
	return "", false, nil
}

func (s *fakeStore) Create(ctx context.Context, rec *LocationRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.createErr[rec.Title]; err != nil {
		return "", err
	}
	if s.failAfter > 0 && len(s.records) >= s.failAfter {
		return "", fmt.Errorf("insert location: %w", ErrStorageUnavailable)
	}
	r := *rec
	r.ID = s.newID()
	s.records = append(s.records, r)
	return r.ID, nil
}

func (s *fakeStore) List(ctx context.Context, county string) ([]LocationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []LocationRecord
	for _, r := range s.records {
		if county == "" || r.Address.County == county {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *fakeStore) SetCoordinates(ctx context.Context, id string, c Coordinates) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			cc := c
			s.records[i].Coordinates = &cc
			s.setCoords++
			return nil
		}
	}
	return fmt.Errorf("location %s not found", id)
}

func (s *fakeStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records), nil
}

func (s *fakeStore) titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.records))
	for i, r := range s.records {
		out[i] = r.Title
	}
	return out
}

// fakeGeocoder returns fixed coordinates per address, or an error.
type fakeGeocoder struct {
	coords map[string]Coordinates
	calls  int
}

func (g *fakeGeocoder) Geocode(ctx context.Context, address string) (Coordinates, error) {
	g.calls++
	if c, ok := g.coords[address]; ok {
		return c, nil
	}
	return Coordinates{}, fmt.Errorf("no geocoding results for %q", address)
}

// csvHeader is the minimal header used by most tests.
const csvHeader = "Title,Street Address,City,State,ZIP,County,Phone,Website,Services,Monday Open,Monday Open Time,Monday Close Time,Hours Note"

// validLine returns a data line for csvHeader that passes validation.
func validLine(title string) string {
	return title + ",1 Main St,Detroit,MI,48201,Wayne County,3135550100,https://example.org,Food Pantry,TRUE,9:00 AM,5:00 PM,"
}

func csvFile(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

// rawRow builds a valid row with overrides applied.
func rawRow(number int, overrides map[string]string) RawRow {
	values := map[string]string{
		HeaderTitle:    "Eastside Pantry",
		HeaderStreet:   "1 Main St",
		HeaderCity:     "Detroit",
		HeaderState:    "MI",
		HeaderZIP:      "48201",
		HeaderCounty:   "Wayne County",
		HeaderServices: "Food Pantry",
	}
	for k, v := range overrides {
		values[k] = v
	}
	return RawRow{Number: number, Values: values}
}

package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/fooddir/internal/core"
)

var errBadCoordinates = errors.New("lat and lng must both be valid numbers")

// LocationsResponse is the directory listing reply.
type LocationsResponse struct {
	Count     int                 `json:"count"`
	Locations []core.LocationView `json:"locations"`
}

// handleListLocations lists the directory.
//
// Query parameters:
//   - service: repeated or comma-separated; matches any
//   - county: exact county name
//   - day: repeated or comma-separated weekday; open on any
//   - lat, lng: visitor position; results are ordered by distance
func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := core.LocationQuery{
		Services: splitParam(q["service"]),
		County:   strings.TrimSpace(q.Get("county")),
		Days:     splitParam(q["day"]),
	}

	if q.Get("lat") != "" || q.Get("lng") != "" {
		origin, err := parseOrigin(q.Get("lat"), q.Get("lng"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   err.Error(),
				Message: "Invalid location",
				Action:  "Provide lat and lng in decimal degrees",
				Code:    "REQ004",
			})
			return
		}
		query.Origin = origin
	}

	views, err := s.service.ListLocations(r.Context(), query)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, LocationsResponse{Count: len(views), Locations: views})
}

// handleGeocode resolves ?address= to coordinates.
func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "address is required",
			Message: "No address was given",
			Action:  "Enter an address or ZIP code",
			Code:    "REQ004",
		})
		return
	}

	c, err := s.service.Geocode(r.Context(), address)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleHealth reports store reachability and import capacity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, err := s.service.Health(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  core.MapError(err).Message,
		})
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		*core.HealthStatus
	}{"ok", status})
}

func splitParam(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseOrigin(lat, lng string) (*core.Coordinates, error) {
	la, err1 := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	ln, err2 := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err1 != nil || err2 != nil || la < -90 || la > 90 || ln < -180 || ln > 180 {
		return nil, errBadCoordinates
	}
	return &core.Coordinates{Lat: la, Lng: ln}, nil
}

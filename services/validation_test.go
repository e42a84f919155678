package services_test

import (
	"math"
	"strings"
	"testing"

	"mapmyissues/services"
)

func validSubmission() services.Submission {
	return services.Submission{
		Type:        "pothole",
		Description: "Deep pothole near the bus stop",
		Location:    "Main St",
		Latitude:    20.2961,
		Longitude:   85.8245,
	}
}

func hasErrorFor(errs []string, field string) bool {
	for _, err := range errs {
		if strings.HasPrefix(err, field) {
			return true
		}
	}
	return false
}

func TestValidateSubmission_Valid(t *testing.T) {
	if errs := services.ValidateSubmission(validSubmission()); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateSubmission_StringCoordinates(t *testing.T) {
	s := validSubmission()
	s.Latitude = " 20.5 "
	s.Longitude = "-120"

	if errs := services.ValidateSubmission(s); len(errs) != 0 {
		t.Fatalf("expected numeric strings to be accepted, got %v", errs)
	}
}

func TestValidateSubmission_Description(t *testing.T) {
	tests := []struct {
		name        string
		description string
		wantErr     bool
	}{
		{"empty", "", true},
		{"nine chars", "123456789", true},
		{"padded short", "   short    ", true},
		{"exactly ten", "0123456789", false},
		{"exactly max", strings.Repeat("a", services.MaxDescriptionLength), false},
		{"over max", strings.Repeat("a", services.MaxDescriptionLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSubmission()
			s.Description = tt.description

			errs := services.ValidateSubmission(s)
			if got := hasErrorFor(errs, "Description"); got != tt.wantErr {
				t.Errorf("description error = %v, want %v (%v)", got, tt.wantErr, errs)
			}
			if len(errs) > 1 {
				t.Errorf("expected only the description rule to fail, got %v", errs)
			}
		})
	}
}

func TestValidateSubmission_Coordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng any
		field    string
	}{
		{"lat too high", 90.0001, 0.0, "Latitude"},
		{"lat too low", -91.0, 0.0, "Latitude"},
		{"lng too high", 0.0, 180.5, "Longitude"},
		{"lng too low", 0.0, -181.0, "Longitude"},
		{"lat missing", nil, 10.0, "Latitude"},
		{"lng not a number", 10.0, "east", "Longitude"},
		{"lat NaN", math.NaN(), 10.0, "Latitude"},
		{"lng infinite", 10.0, math.Inf(1), "Longitude"},
		{"lat bool", true, 10.0, "Latitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSubmission()
			s.Latitude, s.Longitude = tt.lat, tt.lng

			errs := services.ValidateSubmission(s)
			if len(errs) != 1 || !hasErrorFor(errs, tt.field) {
				t.Errorf("expected a single %s error, got %v", tt.field, errs)
			}
		})
	}
}

func TestValidateSubmission_Boundaries(t *testing.T) {
	for _, coords := range [][2]float64{{90, 180}, {-90, -180}, {0, 0}} {
		s := validSubmission()
		s.Latitude, s.Longitude = coords[0], coords[1]

		if errs := services.ValidateSubmission(s); len(errs) != 0 {
			t.Errorf("coords %v: expected valid, got %v", coords, errs)
		}
	}
}

func TestValidateSubmission_Accumulates(t *testing.T) {
	errs := services.ValidateSubmission(services.Submission{
		Type:      "  ",
		Latitude:  200.0,
		Longitude: nil,
	})

	for _, field := range []string{"Type", "Description", "Location", "Latitude", "Longitude"} {
		if !hasErrorFor(errs, field) {
			t.Errorf("expected an error for %s, got %v", field, errs)
		}
	}
	if len(errs) != 5 {
		t.Errorf("expected 5 errors, got %d: %v", len(errs), errs)
	}
}

func TestValidateSubmission_OptionalFields(t *testing.T) {
	negative := -5.0

	s := validSubmission()
	s.Priority = "critical"
	s.Expense = &negative
	s.PhotoURL = "not a url"

	errs := services.ValidateSubmission(s)
	for _, field := range []string{"Priority", "Expense", "Photo URL"} {
		if !hasErrorFor(errs, field) {
			t.Errorf("expected an error for %s, got %v", field, errs)
		}
	}
}

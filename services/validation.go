package services

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"

	"mapmyissues/models"
)

const (
	MinDescriptionLength = 10
	MaxDescriptionLength = 500
)

// Submission is a candidate issue as received from a client. Coordinates are
// kept loose because clients send them both as numbers and as strings.
type Submission struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	Latitude    any             `json:"latitude"`
	Longitude   any             `json:"longitude"`
	PhotoURL    string          `json:"photo_url"`
	Priority    models.Priority `json:"priority"`
	Department  string          `json:"department"`
	Expense     *float64        `json:"expense"`
}

// Coordinates reports false when either axis does not parse.
func (s Submission) Coordinates() (models.Coordinates, bool) {
	lat, latOK := ParseCoordinate(s.Latitude)
	lng, lngOK := ParseCoordinate(s.Longitude)
	return models.Coordinates{Lat: lat, Lng: lng}, latOK && lngOK
}

// ValidateSubmission checks every rule independently and returns all
// violations. An empty result means the submission is valid.
func ValidateSubmission(s Submission) []string {
	var errs []string

	if strings.TrimSpace(s.Type) == "" {
		errs = append(errs, "Type is required and must be a non-empty string")
	}

	errs = append(errs, validateDescription(s.Description)...)

	if strings.TrimSpace(s.Location) == "" {
		errs = append(errs, "Location is required and must be a non-empty string")
	}

	errs = append(errs, validateAxis("Latitude", s.Latitude, 90)...)
	errs = append(errs, validateAxis("Longitude", s.Longitude, 180)...)

	if s.Priority != "" && !s.Priority.Valid() {
		errs = append(errs, "Priority must be one of low, medium, immediate, urgent")
	}
	if s.Expense != nil && !validExpense(*s.Expense) {
		errs = append(errs, "Expense must be a non-negative number")
	}
	if s.PhotoURL != "" && !validURL(s.PhotoURL) {
		errs = append(errs, "Photo URL must be an absolute URL")
	}

	return errs
}

func validateDescription(description string) []string {
	length := utf8.RuneCountInString(strings.TrimSpace(description))

	switch {
	case length < MinDescriptionLength:
		return []string{fmt.Sprintf("Description is required and must be at least %d characters", MinDescriptionLength)}
	case length > MaxDescriptionLength:
		return []string{fmt.Sprintf("Description must not exceed %d characters", MaxDescriptionLength)}
	}
	return nil
}

func validateAxis(name string, value any, limit float64) []string {
	parsed, ok := ParseCoordinate(value)
	if !ok {
		return []string{name + " is required and must be a valid number"}
	}
	if parsed < -limit || parsed > limit {
		return []string{fmt.Sprintf("%s must be between %v and %v", name, -limit, limit)}
	}
	return nil
}

// ParseCoordinate accepts numbers and numeric strings. Missing values,
// booleans, NaN and infinities are rejected.
func ParseCoordinate(value any) (float64, bool) {
	switch v := value.(type) {
	case nil, bool:
		return 0, false
	case string:
		value = strings.TrimSpace(v)
		if value == "" {
			return 0, false
		}
	}

	parsed, err := cast.ToFloat64E(value)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, false
	}
	return parsed, true
}

func validExpense(expense float64) bool {
	return expense >= 0 && !math.IsInf(expense, 0) && !math.IsNaN(expense)
}

func validURL(value string) bool {
	u, err := url.ParseRequestURI(value)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// validateUpdate applies the submission rules to the fields present in a
// partial update, plus the forward-only status rule.
func validateUpdate(current models.Issue, update models.IssueUpdate) []string {
	var errs []string

	if update.Type != nil && strings.TrimSpace(*update.Type) == "" {
		errs = append(errs, "Type must be a non-empty string")
	}
	if update.Description != nil {
		errs = append(errs, validateDescription(*update.Description)...)
	}
	if update.Location != nil && strings.TrimSpace(*update.Location) == "" {
		errs = append(errs, "Location must be a non-empty string")
	}
	if update.Priority != nil && !update.Priority.Valid() {
		errs = append(errs, "Priority must be one of low, medium, immediate, urgent")
	}
	if update.Status != nil {
		switch {
		case !update.Status.Valid():
			errs = append(errs, "Status must be one of recent, queue, inprogress, completed")
		case !CanTransition(current.Status, *update.Status):
			errs = append(errs, fmt.Sprintf("Status cannot move from %s to %s", current.Status, *update.Status))
		}
	}
	if update.Expense != nil && !validExpense(*update.Expense) {
		errs = append(errs, "Expense must be a non-negative number")
	}
	if update.PhotoURL != nil && *update.PhotoURL != "" && !validURL(*update.PhotoURL) {
		errs = append(errs, "Photo URL must be an absolute URL")
	}

	return errs
}

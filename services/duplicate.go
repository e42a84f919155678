package services

import (
	"math"

	"github.com/samber/lo"

	"mapmyissues/models"
)

// DefaultDuplicateThreshold is in raw degrees, roughly tens of meters.
const DefaultDuplicateThreshold = 0.0005

// DistanceApprox is the Euclidean distance over raw lat/lng degrees. It is not
// geodesic and is only meant for short-range comparisons.
func DistanceApprox(a, b models.Coordinates) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lng-b.Lng)
}

// IsDuplicateNearby reports whether an issue of the same type already exists
// within threshold of coords. It only drives a warning and never blocks a
// submission.
func IsDuplicateNearby(issues []models.Issue, issueType string, coords models.Coordinates, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultDuplicateThreshold
	}
	return lo.SomeBy(issues, func(issue models.Issue) bool {
		return issue.Type == issueType && DistanceApprox(issue.Coordinates(), coords) <= threshold
	})
}

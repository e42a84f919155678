package services

import (
	"strings"
	"unicode/utf8"
)

const (
	CategoryPothole      = "pothole"
	CategoryGarbage      = "garbage"
	CategoryStreetlight  = "streetlight"
	CategoryWaterLeakage = "water leakage"
	CategoryOther        = "other"
)

const (
	authenticConfidence = 0.8
	suspectConfidence   = 0.2
)

type Classification struct {
	IsAuthentic bool    `json:"isAuthentic"`
	Confidence  float64 `json:"confidence"`
	Category    string  `json:"category"`
}

// Classifier decides whether a report looks genuine and which category it
// belongs to. KeywordClassifier is a placeholder until a learned model exists.
type Classifier interface {
	Classify(description string, hasPhoto bool) Classification
}

// Checked in order, first match wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryPothole, []string{"pothole"}},
	{CategoryGarbage, []string{"garbage", "trash"}},
	{CategoryStreetlight, []string{"light"}},
	{CategoryWaterLeakage, []string{"water", "leak"}},
}

type KeywordClassifier struct{}

func (KeywordClassifier) Classify(description string, hasPhoto bool) Classification {
	if utf8.RuneCountInString(description) < MinDescriptionLength || !hasPhoto {
		return Classification{
			IsAuthentic: false,
			Confidence:  suspectConfidence,
			Category:    CategoryOther,
		}
	}

	return Classification{
		IsAuthentic: true,
		Confidence:  authenticConfidence,
		Category:    categorize(strings.ToLower(description)),
	}
}

func categorize(description string) string {
	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(description, keyword) {
				return entry.category
			}
		}
	}
	return CategoryOther
}

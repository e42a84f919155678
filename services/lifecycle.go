package services

import (
	"strings"

	"mapmyissues/models"
)

// NextStatus returns the status following s. It reports false for completed
// and for unknown statuses.
func NextStatus(s models.Status) (models.Status, bool) {
	idx := s.Index()
	if idx < 0 || idx >= len(models.StatusOrder)-1 {
		return s, false
	}
	return models.StatusOrder[idx+1], true
}

// CanTransition allows staying put or moving exactly one step forward.
func CanTransition(from, to models.Status) bool {
	if from == to {
		return to.Valid()
	}
	next, ok := NextStatus(from)
	return ok && next == to
}

func VotingOpen(s models.Status) bool {
	return s.Valid() && s != models.StatusCompleted
}

var Departments = []string{
	"Housing & Urban Development Department",
	"Directorate of Municipal Administration",
	"Orissa Water Supply & Sewerage Board (OWSSB)",
	"Public Health Engineering Organization (PHEO)",
	"Public Works / Works Department (PWD)",
	"Water Resources Department",
	"Revenue & Disaster Management",
	"Panchayati Raj & Drinking Water",
	"Forest, Environment & Climate Change",
	"Health & Family Welfare",
	"Energy Department / Distribution Utilities",
	"Transport / Commerce & Transport",
	"Home / Police / Traffic Police",
	"Development Authorities (BDA/CDA etc.)",
	"Odisha Urban Housing Mission / State Housing Board",
	"ULB Solid Waste / Sanitation Cells",
}

const defaultDepartment = "Directorate of Municipal Administration"

// Checked in order against the lower-cased issue type, first match wins.
var departmentRoutes = []struct {
	department string
	keywords   []string
}{
	{"Orissa Water Supply & Sewerage Board (OWSSB)", []string{"water", "leak", "sewer", "supply"}},
	{"Home / Police / Traffic Police", []string{"traffic", "parking", "abandoned vehicle"}},
	{"Energy Department / Distribution Utilities", []string{"light", "power", "electric"}},
	{"Public Works / Works Department (PWD)", []string{"pothole", "sidewalk", "road"}},
	{"ULB Solid Waste / Sanitation Cells", []string{"garbage", "waste", "sanitation", "drain", "dump", "cleaning"}},
	{"Forest, Environment & Climate Change", []string{"park", "graffiti", "tree", "pollution", "noise", "flood", "environment"}},
	{"Public Health Engineering Organization (PHEO)", []string{"health", "vector", "outbreak"}},
	{"Odisha Urban Housing Mission / State Housing Board", []string{"housing", "slum", "allotment"}},
	{"Revenue & Disaster Management", []string{"disaster", "emergency", "relief"}},
}

// DepartmentFor routes a new issue to the department responsible for its type.
func DepartmentFor(issueType string) string {
	lower := strings.ToLower(issueType)
	for _, route := range departmentRoutes {
		for _, keyword := range route.keywords {
			if strings.Contains(lower, keyword) {
				return route.department
			}
		}
	}
	return defaultDepartment
}

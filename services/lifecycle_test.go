package services_test

import (
	"testing"

	"mapmyissues/models"
	"mapmyissues/services"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		from   models.Status
		want   models.Status
		wantOK bool
	}{
		{models.StatusRecent, models.StatusQueue, true},
		{models.StatusQueue, models.StatusInProgress, true},
		{models.StatusInProgress, models.StatusCompleted, true},
		{models.StatusCompleted, models.StatusCompleted, false},
		{"archived", "archived", false},
	}

	for _, tt := range tests {
		got, ok := services.NextStatus(tt.from)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NextStatus(%s) = %s, %v; want %s, %v", tt.from, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.Status
		want     bool
	}{
		{models.StatusRecent, models.StatusRecent, true},
		{models.StatusRecent, models.StatusQueue, true},
		{models.StatusRecent, models.StatusInProgress, false},
		{models.StatusQueue, models.StatusRecent, false},
		{models.StatusCompleted, models.StatusInProgress, false},
		{models.StatusCompleted, models.StatusCompleted, true},
		{"archived", "archived", false},
	}

	for _, tt := range tests {
		if got := services.CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCanPerform(t *testing.T) {
	open := services.IssueState{Status: models.StatusQueue}
	done := services.IssueState{Status: models.StatusCompleted}
	voted := services.IssueState{Status: models.StatusRecent, HasVoted: true}

	tests := []struct {
		name  string
		op    services.Operation
		role  models.Role
		state services.IssueState
		want  bool
	}{
		{"citizen creates", services.OpCreate, models.RoleCitizen, services.IssueState{}, true},
		{"department cannot create", services.OpCreate, models.RoleDepartment, services.IssueState{}, false},
		{"citizen votes open issue", services.OpVote, models.RoleCitizen, open, true},
		{"citizen cannot vote completed", services.OpVote, models.RoleCitizen, done, false},
		{"citizen cannot vote twice", services.OpVote, models.RoleCitizen, voted, false},
		{"admin cannot vote", services.OpVote, models.RoleAdmin, open, false},
		{"admin advances", services.OpAdvance, models.RoleAdmin, open, true},
		{"citizen cannot advance", services.OpAdvance, models.RoleCitizen, open, false},
		{"department updates", services.OpUpdate, models.RoleDepartment, open, true},
		{"citizen cannot update", services.OpUpdate, models.RoleCitizen, open, false},
		{"admin deletes", services.OpDelete, models.RoleAdmin, done, true},
		{"department cannot delete", services.OpDelete, models.RoleDepartment, open, false},
		{"admin validates", services.OpValidate, models.RoleAdmin, open, true},
		{"unknown role", services.OpCreate, "guest", services.IssueState{}, false},
		{"unknown operation", "archive", models.RoleAdmin, open, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.CanPerform(tt.op, tt.role, tt.state); got != tt.want {
				t.Errorf("CanPerform() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDepartmentFor(t *testing.T) {
	tests := map[string]string{
		"pothole":        "Public Works / Works Department (PWD)",
		"Water Leak":     "Orissa Water Supply & Sewerage Board (OWSSB)",
		"streetlight":    "Energy Department / Distribution Utilities",
		"traffic signal": "Home / Police / Traffic Police",
		"garbage":        "ULB Solid Waste / Sanitation Cells",
		"graffiti":       "Forest, Environment & Climate Change",
		"property tax":   "Directorate of Municipal Administration",
		"":               "Directorate of Municipal Administration",
	}

	for issueType, want := range tests {
		if got := services.DepartmentFor(issueType); got != want {
			t.Errorf("DepartmentFor(%q) = %q, want %q", issueType, got, want)
		}
	}
}

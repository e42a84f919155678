package services_test

import (
	"testing"

	"mapmyissues/models"
	"mapmyissues/services"
)

func TestComputeInsights(t *testing.T) {
	views := []models.IssueView{
		{Status: models.StatusCompleted, Department: "PWD", Expense: 150, Priority: models.PriorityLow},
		{Status: models.StatusCompleted, Department: "OWSSB", Expense: 200, Priority: models.PriorityUrgent},
		{Status: models.StatusCompleted, Department: "OWSSB", Expense: 50.5, Priority: models.PriorityUrgent},
		{Status: models.StatusInProgress, Department: "PWD", Expense: 999, Priority: models.PriorityMedium},
	}

	got := services.ComputeInsights(views)

	if got.CompletedCount != 3 {
		t.Errorf("CompletedCount = %d, want 3", got.CompletedCount)
	}
	if got.TopDepartment != "OWSSB" {
		t.Errorf("TopDepartment = %q, want OWSSB", got.TopDepartment)
	}
	if got.TotalSpending != 400.5 {
		t.Errorf("TotalSpending = %v, want 400.5", got.TotalSpending)
	}
	want := map[models.Priority]int{
		models.PriorityLow:       1,
		models.PriorityMedium:    0,
		models.PriorityImmediate: 0,
		models.PriorityUrgent:    2,
	}
	for priority, count := range want {
		if got.ByPriority[priority] != count {
			t.Errorf("ByPriority[%s] = %d, want %d", priority, got.ByPriority[priority], count)
		}
	}
}

func TestComputeInsights_TopDepartmentTie(t *testing.T) {
	views := []models.IssueView{
		{Status: models.StatusCompleted, Department: "PWD"},
		{Status: models.StatusCompleted, Department: "OWSSB"},
	}
	if got := services.ComputeInsights(views).TopDepartment; got != "PWD" {
		t.Errorf("TopDepartment = %q, want the first seen department", got)
	}
}

func TestComputeInsights_Empty(t *testing.T) {
	got := services.ComputeInsights(nil)
	if got.CompletedCount != 0 || got.TopDepartment != "None" || got.TotalSpending != 0 {
		t.Errorf("unexpected insights for no issues: %+v", got)
	}
	if len(got.ByPriority) != 4 {
		t.Errorf("expected every priority to be reported, got %v", got.ByPriority)
	}
}

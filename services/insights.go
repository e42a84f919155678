package services

import (
	"github.com/samber/lo"

	"mapmyissues/models"
)

const noDepartment = "None"

type Insights struct {
	CompletedCount int                     `json:"completedCount"`
	TopDepartment  string                  `json:"topDepartment"`
	TotalSpending  float64                 `json:"totalSpending"`
	ByPriority     map[models.Priority]int `json:"byPriority"`
}

// ComputeInsights summarises completed issues. Ties for the top department go
// to the department seen first.
func ComputeInsights(views []models.IssueView) Insights {
	completed := lo.Filter(views, func(v models.IssueView, _ int) bool {
		return v.Status == models.StatusCompleted
	})

	byPriority := lo.SliceToMap(models.Priorities, func(p models.Priority) (models.Priority, int) {
		return p, 0
	})
	for _, v := range completed {
		byPriority[v.Priority]++
	}

	return Insights{
		CompletedCount: len(completed),
		TopDepartment:  topDepartment(completed),
		TotalSpending: lo.SumBy(completed, func(v models.IssueView) float64 {
			return v.Expense
		}),
		ByPriority: byPriority,
	}
}

func topDepartment(completed []models.IssueView) string {
	groups := lo.GroupBy(completed, func(v models.IssueView) string {
		return v.Department
	})
	order := lo.Uniq(lo.Map(completed, func(v models.IssueView, _ int) string {
		return v.Department
	}))

	top, best := noDepartment, 0
	for _, department := range order {
		if count := len(groups[department]); count > best {
			top, best = department, count
		}
	}
	return top
}

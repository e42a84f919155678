package services

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"mapmyissues/models"
)

type SortMode = string

const (
	SortCreatedAsc   SortMode = "createdAt_asc"
	SortCreatedDesc  SortMode = "createdAt_desc"
	SortPriorityAsc  SortMode = "priority_asc"
	SortPriorityDesc SortMode = "priority_desc"
	SortVotesAsc     SortMode = "votes_asc"
	SortVotesDesc    SortMode = "votes_desc"
)

const (
	DefaultPageSize = 10
	DashboardLimit  = 5
)

// FilterIssues keeps issues matching every non-empty criterion.
func FilterIssues(views []models.IssueView, filter models.IssueFilter) []models.IssueView {
	return lo.Filter(views, func(v models.IssueView, _ int) bool {
		if filter.Status != "" && v.Status != filter.Status {
			return false
		}
		if filter.Priority != "" && v.Priority != filter.Priority {
			return false
		}
		if filter.Department != "" && v.Department != filter.Department {
			return false
		}
		return true
	})
}

// SortIssues returns a sorted copy. The sort is stable and an unknown mode
// keeps the input order.
func SortIssues(views []models.IssueView, mode SortMode) []models.IssueView {
	sorted := slices.Clone(views)
	if sorted == nil {
		sorted = []models.IssueView{}
	}

	var compare func(a, b models.IssueView) int

	switch mode {
	case SortCreatedAsc:
		compare = func(a, b models.IssueView) int { return cmp.Compare(a.CreatedAt, b.CreatedAt) }
	case SortCreatedDesc:
		compare = func(a, b models.IssueView) int { return cmp.Compare(b.CreatedAt, a.CreatedAt) }
	case SortPriorityAsc:
		compare = func(a, b models.IssueView) int { return cmp.Compare(a.Priority.Rank(), b.Priority.Rank()) }
	case SortPriorityDesc:
		compare = func(a, b models.IssueView) int { return cmp.Compare(b.Priority.Rank(), a.Priority.Rank()) }
	case SortVotesAsc:
		compare = func(a, b models.IssueView) int { return cmp.Compare(a.Votes, b.Votes) }
	case SortVotesDesc:
		compare = func(a, b models.IssueView) int { return cmp.Compare(b.Votes, a.Votes) }
	default:
		return sorted
	}

	slices.SortStableFunc(sorted, compare)
	return sorted
}

// PaginateIssues returns the 1-indexed page. Pages outside the collection are
// empty, never an error.
func PaginateIssues(views []models.IssueView, page, pageSize int) []models.IssueView {
	if page < 1 || pageSize < 1 {
		return []models.IssueView{}
	}
	start := (page - 1) * pageSize
	if start >= len(views) {
		return []models.IssueView{}
	}
	end := min(start+pageSize, len(views))
	return slices.Clone(views[start:end])
}

func TotalPages(totalItems, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return (totalItems + pageSize - 1) / pageSize
}

type ListQuery struct {
	models.IssueFilter
	Sort     SortMode `form:"sort"`
	Page     int      `form:"page"`
	PageSize int      `form:"page_size"`
}

type ListResult struct {
	Issues     []models.IssueView `json:"issues"`
	Total      int                `json:"total"`
	Page       int                `json:"page,omitempty"`
	PageSize   int                `json:"page_size,omitempty"`
	TotalPages int                `json:"total_pages"`
}

// RunPipeline filters, sorts and, when a page is requested, paginates.
func RunPipeline(views []models.IssueView, query ListQuery) ListResult {
	mode := query.Sort
	if mode == "" {
		mode = SortCreatedDesc
	}
	sorted := SortIssues(FilterIssues(views, query.IssueFilter), mode)

	if query.Page == 0 {
		return ListResult{
			Issues:     sorted,
			Total:      len(sorted),
			TotalPages: TotalPages(len(sorted), len(sorted)),
		}
	}

	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return ListResult{
		Issues:     PaginateIssues(sorted, query.Page, pageSize),
		Total:      len(sorted),
		Page:       query.Page,
		PageSize:   pageSize,
		TotalPages: TotalPages(len(sorted), pageSize),
	}
}

// SortByColumn is the dashboard ordering for one status: priority, then
// votes, then newest first.
func SortByColumn(views []models.IssueView, status models.Status) []models.IssueView {
	column := FilterIssues(views, models.IssueFilter{Status: status})
	slices.SortStableFunc(column, func(a, b models.IssueView) int {
		if c := cmp.Compare(b.Priority.Rank(), a.Priority.Rank()); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Votes, a.Votes); c != 0 {
			return c
		}
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})
	return column
}

type DashboardBucket struct {
	Status models.Status      `json:"status"`
	Total  int                `json:"total"`
	Issues []models.IssueView `json:"issues"`
}

func Dashboard(views []models.IssueView) []DashboardBucket {
	return lo.Map(models.StatusOrder, func(status models.Status, _ int) DashboardBucket {
		column := SortByColumn(views, status)
		return DashboardBucket{
			Status: status,
			Total:  len(column),
			Issues: column[:min(DashboardLimit, len(column))],
		}
	})
}

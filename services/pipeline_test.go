package services_test

import (
	"fmt"
	"testing"

	"mapmyissues/models"
	"mapmyissues/services"
)

func makeViews(n int) []models.IssueView {
	views := make([]models.IssueView, n)
	for i := range views {
		views[i] = models.IssueView{ID: fmt.Sprintf("issue-%02d", i), CreatedAt: int64(i)}
	}
	return views
}

func ids(views []models.IssueView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

func TestFilterIssues(t *testing.T) {
	views := []models.IssueView{
		{ID: "a", Status: models.StatusRecent, Priority: models.PriorityLow, Department: "PWD"},
		{ID: "b", Status: models.StatusQueue, Priority: models.PriorityUrgent, Department: "PWD"},
		{ID: "c", Status: models.StatusRecent, Priority: models.PriorityUrgent, Department: "OWSSB"},
	}

	tests := []struct {
		name   string
		filter models.IssueFilter
		want   []string
	}{
		{"no criteria", models.IssueFilter{}, []string{"a", "b", "c"}},
		{"status", models.IssueFilter{Status: models.StatusRecent}, []string{"a", "c"}},
		{"priority", models.IssueFilter{Priority: models.PriorityUrgent}, []string{"b", "c"}},
		{"department", models.IssueFilter{Department: "PWD"}, []string{"a", "b"}},
		{"all criteria", models.IssueFilter{Status: models.StatusRecent, Priority: models.PriorityUrgent, Department: "OWSSB"}, []string{"c"}},
		{"no match", models.IssueFilter{Status: models.StatusCompleted}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(services.FilterIssues(views, tt.filter))
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("FilterIssues() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortIssues_Modes(t *testing.T) {
	views := []models.IssueView{
		{ID: "a", CreatedAt: 2, Priority: models.PriorityMedium, Votes: 5},
		{ID: "b", CreatedAt: 3, Priority: models.PriorityLow, Votes: 1},
		{ID: "c", CreatedAt: 1, Priority: models.PriorityUrgent, Votes: 3},
	}

	tests := []struct {
		mode string
		want []string
	}{
		{services.SortCreatedAsc, []string{"c", "a", "b"}},
		{services.SortCreatedDesc, []string{"b", "a", "c"}},
		{services.SortPriorityAsc, []string{"b", "a", "c"}},
		{services.SortPriorityDesc, []string{"c", "a", "b"}},
		{services.SortVotesAsc, []string{"b", "c", "a"}},
		{services.SortVotesDesc, []string{"a", "c", "b"}},
		{"", []string{"a", "b", "c"}},
		{"bogus", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			got := ids(services.SortIssues(views, tt.mode))
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("SortIssues(%q) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}

	if fmt.Sprint(ids(views)) != "[a b c]" {
		t.Errorf("SortIssues mutated its input: %v", ids(views))
	}
}

func TestSortIssues_VotesRoundTrip(t *testing.T) {
	views := []models.IssueView{
		{ID: "a", Votes: 4}, {ID: "b", Votes: 9}, {ID: "c", Votes: 0}, {ID: "d", Votes: 2},
	}

	desc := services.SortIssues(views, services.SortVotesDesc)
	asc := services.SortIssues(desc, services.SortVotesAsc)

	for i := range asc {
		if asc[i].Votes != desc[len(desc)-1-i].Votes {
			t.Fatalf("asc is not desc reversed: %v vs %v", asc, desc)
		}
		if i > 0 && asc[i].Votes < asc[i-1].Votes {
			t.Fatalf("votes decrease in ascending result: %v", asc)
		}
	}
}

func TestSortIssues_Stable(t *testing.T) {
	views := []models.IssueView{
		{ID: "a", Votes: 1}, {ID: "b", Votes: 1}, {ID: "c", Votes: 1},
	}
	if got := ids(services.SortIssues(views, services.SortVotesDesc)); fmt.Sprint(got) != "[a b c]" {
		t.Errorf("expected insertion order for ties, got %v", got)
	}
}

func TestPaginateIssues(t *testing.T) {
	views := makeViews(25)

	tests := []struct {
		page, size int
		wantLen    int
		wantFirst  string
	}{
		{1, 10, 10, "issue-00"},
		{2, 10, 10, "issue-10"},
		{3, 10, 5, "issue-20"},
		{4, 10, 0, ""},
		{0, 10, 0, ""},
		{-1, 10, 0, ""},
		{1, 0, 0, ""},
		{1, 100, 25, "issue-00"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d size %d", tt.page, tt.size), func(t *testing.T) {
			got := services.PaginateIssues(views, tt.page, tt.size)
			if got == nil {
				t.Fatal("expected an empty slice, got nil")
			}
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if tt.wantLen > 0 && got[0].ID != tt.wantFirst {
				t.Errorf("first = %s, want %s", got[0].ID, tt.wantFirst)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	if got := services.TotalPages(25, 10); got != 3 {
		t.Errorf("TotalPages(25, 10) = %d, want 3", got)
	}
	if got := services.TotalPages(0, 10); got != 0 {
		t.Errorf("TotalPages(0, 10) = %d, want 0", got)
	}
	if got := services.TotalPages(20, 10); got != 2 {
		t.Errorf("TotalPages(20, 10) = %d, want 2", got)
	}
}

func TestRunPipeline(t *testing.T) {
	views := makeViews(25)
	for i := range views {
		if i%2 == 0 {
			views[i].Status = models.StatusRecent
		} else {
			views[i].Status = models.StatusQueue
		}
	}

	result := services.RunPipeline(views, services.ListQuery{
		IssueFilter: models.IssueFilter{Status: models.StatusRecent},
		Sort:        services.SortCreatedAsc,
		Page:        2,
		PageSize:    5,
	})

	if result.Total != 13 {
		t.Errorf("Total = %d, want 13", result.Total)
	}
	if result.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", result.TotalPages)
	}
	if got := ids(result.Issues); fmt.Sprint(got) != "[issue-10 issue-12 issue-14 issue-16 issue-18]" {
		t.Errorf("Issues = %v", got)
	}
}

func TestRunPipeline_DefaultsToNewestWithoutPaging(t *testing.T) {
	result := services.RunPipeline(makeViews(3), services.ListQuery{})

	if got := ids(result.Issues); fmt.Sprint(got) != "[issue-02 issue-01 issue-00]" {
		t.Errorf("Issues = %v", got)
	}
	if result.TotalPages != 1 || result.Page != 0 {
		t.Errorf("unexpected paging: %+v", result)
	}
}

func TestDashboard(t *testing.T) {
	var views []models.IssueView
	for i := 0; i < 7; i++ {
		views = append(views, models.IssueView{
			ID:        fmt.Sprintf("r%d", i),
			Status:    models.StatusRecent,
			Priority:  models.PriorityLow,
			Votes:     int64(i % 3),
			CreatedAt: int64(i),
		})
	}
	views = append(views,
		models.IssueView{ID: "urgent", Status: models.StatusRecent, Priority: models.PriorityUrgent},
		models.IssueView{ID: "done", Status: models.StatusCompleted, Priority: models.PriorityMedium},
	)

	buckets := services.Dashboard(views)
	if len(buckets) != 4 {
		t.Fatalf("expected 4 buckets, got %d", len(buckets))
	}

	recent := buckets[0]
	if recent.Status != models.StatusRecent || recent.Total != 8 {
		t.Fatalf("recent bucket = %s/%d", recent.Status, recent.Total)
	}
	// urgent first, then by votes desc, then newest first
	if got := ids(recent.Issues); fmt.Sprint(got) != "[urgent r5 r2 r4 r1]" {
		t.Errorf("recent issues = %v", got)
	}

	if buckets[1].Total != 0 || len(buckets[1].Issues) != 0 {
		t.Errorf("queue bucket should be empty: %+v", buckets[1])
	}
	if buckets[3].Total != 1 || buckets[3].Issues[0].ID != "done" {
		t.Errorf("completed bucket = %+v", buckets[3])
	}
}

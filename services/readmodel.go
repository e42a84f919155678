package services

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"

	"mapmyissues/models"
)

// AssembleViews joins issue rows with their vote counts and the set of issues
// the given user voted on.
func AssembleViews(issues []models.Issue, counts map[string]int64, votedIssueIDs []string, username string) []models.IssueView {
	voted := mapset.NewThreadUnsafeSet(votedIssueIDs...)

	return lo.Map(issues, func(issue models.Issue, _ int) models.IssueView {
		id := issue.ID.Hex()
		return BuildView(issue, counts[id], voted.Contains(id), username)
	})
}

func BuildView(issue models.Issue, votes int64, voted bool, username string) models.IssueView {
	votedBy := []string{}
	if voted && username != "" {
		votedBy = append(votedBy, username)
	}

	return models.IssueView{
		ID:          issue.ID.Hex(),
		Type:        issue.Type,
		Description: issue.Description,
		Location:    issue.Location,
		Coordinates: issue.Coordinates(),
		Photo:       issue.PhotoURL,
		Votes:       votes,
		Priority:    issue.Priority,
		Status:      issue.Status,
		Department:  issue.Department,
		Expense:     issue.Expense,
		CreatedAt:   issue.CreatedAt.UnixMilli(),
		VotedBy:     votedBy,
		Voted:       voted,
		IsAuthentic: issue.IsAuthentic,
		Confidence:  issue.Confidence,
		Category:    issue.Category,
	}
}

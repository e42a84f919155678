package services

import (
	"context"
	"time"

	"mapmyissues/models"
)

// Stores return models.ErrNotFound for unknown identifiers and
// models.ErrDuplicateVote when the unique vote constraint rejects an insert.

type IssueStore interface {
	ListIssues(ctx context.Context, filter models.IssueFilter) ([]models.Issue, error)
	GetIssue(ctx context.Context, id string) (models.Issue, error)
	CreateIssue(ctx context.Context, issue models.Issue) (models.Issue, error)
	UpdateIssue(ctx context.Context, id string, update models.IssueUpdate) (models.Issue, error)
	// TransitionStatus moves the issue from one status to another only if it
	// is still in from. It returns models.ErrConflict otherwise.
	TransitionStatus(ctx context.Context, id string, from, to models.Status) (models.Issue, error)
	// DeleteIssue removes the issue and its votes.
	DeleteIssue(ctx context.Context, id string) error
}

type VoteStore interface {
	HasVoted(ctx context.Context, issueID, userName string) (bool, error)
	InsertVote(ctx context.Context, vote models.Vote) (models.Vote, error)
	CountVotes(ctx context.Context, issueID string) (int64, error)
	CountVotesByIssue(ctx context.Context) (map[string]int64, error)
	VotedIssueIDs(ctx context.Context, userName string) ([]string, error)
}

type LoginLogStore interface {
	InsertLogin(ctx context.Context, entry models.LoginLog) (models.LoginLog, error)
	LatestOpenLogin(ctx context.Context, username string) (models.LoginLog, error)
	// CloseLatestLogin closes only the most recent open entry. It reports
	// false when the user has none.
	CloseLatestLogin(ctx context.Context, username string, at time.Time) (bool, error)
	CloseStaleLogins(ctx context.Context, before, at time.Time) (int64, error)
}

// AuthProvider owns credential storage.
type AuthProvider interface {
	SignUp(ctx context.Context, username, email, password string) (models.Account, error)
}

// Subscriber delivers change notifications for the issues and votes
// collections until the returned unsubscribe func is called.
type Subscriber interface {
	Subscribe(ctx context.Context, onChange func(models.ChangeEvent)) (unsubscribe func(), err error)
}

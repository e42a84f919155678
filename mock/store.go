// Package mock provides in-memory implementations of the service stores for
// tests. Store enforces the same constraints the MongoDB indexes do.
package mock

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mapmyissues/models"
)

type Store struct {
	mu       sync.Mutex
	issues   []models.Issue
	votes    []models.Vote
	logins   []models.LoginLog
	accounts []models.Account

	// Broker, when set, receives a change event for every mutation.
	Broker *Broker

	// Err, when set, is returned by every method.
	Err error
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) publish(table, operation string) {
	if s.Broker != nil {
		s.Broker.Publish(models.ChangeEvent{Table: table, Operation: operation})
	}
}

func (s *Store) indexOf(id string) int {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return -1
	}
	return slices.IndexFunc(s.issues, func(issue models.Issue) bool {
		return issue.ID == objID
	})
}

func (s *Store) ListIssues(_ context.Context, filter models.IssueFilter) ([]models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	out := []models.Issue{}
	for _, issue := range s.issues {
		if filter.Status != "" && issue.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && issue.Priority != filter.Priority {
			continue
		}
		if filter.Department != "" && issue.Department != filter.Department {
			continue
		}
		out = append(out, issue)
	}

	slices.SortStableFunc(out, func(a, b models.Issue) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (s *Store) GetIssue(_ context.Context, id string) (models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return models.Issue{}, s.Err
	}

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Issue{}, models.ErrNotFound
	}
	return s.issues[idx], nil
}

func (s *Store) CreateIssue(_ context.Context, issue models.Issue) (models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return models.Issue{}, s.Err
	}

	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = time.Now().UTC()
	}
	s.issues = append(s.issues, issue)
	s.publish(models.IssuesCollection, "insert")

	return issue, nil
}

// AddIssue seeds an issue without publishing.
func (s *Store) AddIssue(issue models.Issue) models.Issue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	s.issues = append(s.issues, issue)
	return issue
}

func (s *Store) UpdateIssue(_ context.Context, id string, update models.IssueUpdate) (models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return models.Issue{}, s.Err
	}

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Issue{}, models.ErrNotFound
	}

	issue := &s.issues[idx]
	if update.Type != nil {
		issue.Type = *update.Type
	}
	if update.Description != nil {
		issue.Description = *update.Description
	}
	if update.Location != nil {
		issue.Location = *update.Location
	}
	if update.PhotoURL != nil {
		issue.PhotoURL = *update.PhotoURL
	}
	if update.Priority != nil {
		issue.Priority = *update.Priority
	}
	if update.Status != nil {
		issue.Status = *update.Status
	}
	if update.Department != nil {
		issue.Department = *update.Department
	}
	if update.Expense != nil {
		issue.Expense = *update.Expense
	}
	if update.IsAuthentic != nil {
		issue.IsAuthentic = update.IsAuthentic
	}
	if update.Confidence != nil {
		issue.Confidence = update.Confidence
	}
	if update.Category != nil {
		issue.Category = update.Category
	}
	s.publish(models.IssuesCollection, "update")

	return *issue, nil
}

func (s *Store) TransitionStatus(_ context.Context, id string, from, to models.Status) (models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return models.Issue{}, s.Err
	}

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Issue{}, models.ErrNotFound
	}
	if s.issues[idx].Status != from {
		return models.Issue{}, models.ErrConflict
	}
	s.issues[idx].Status = to
	s.publish(models.IssuesCollection, "update")

	return s.issues[idx], nil
}

func (s *Store) DeleteIssue(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	idx := s.indexOf(id)
	if idx < 0 {
		return models.ErrNotFound
	}
	issueID := s.issues[idx].ID

	s.issues = slices.Delete(s.issues, idx, idx+1)
	s.votes = slices.DeleteFunc(s.votes, func(vote models.Vote) bool {
		return vote.IssueID == issueID
	})
	s.publish(models.IssuesCollection, "delete")

	return nil
}

func (s *Store) hasVoted(issueID, userName string) bool {
	return slices.ContainsFunc(s.votes, func(vote models.Vote) bool {
		return vote.IssueID.Hex() == issueID && vote.UserName == userName
	})
}

func (s *Store) HasVoted(_ context.Context, issueID, userName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return false, s.Err
	}
	return s.hasVoted(issueID, userName), nil
}

func (s *Store) InsertVote(_ context.Context, vote models.Vote) (models.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return models.Vote{}, s.Err
	}
	if s.hasVoted(vote.IssueID.Hex(), vote.UserName) {
		return models.Vote{}, models.ErrDuplicateVote
	}

	vote.ID = primitive.NewObjectID()
	s.votes = append(s.votes, vote)
	s.publish(models.VotesCollection, "insert")

	return vote, nil
}

func (s *Store) CountVotes(_ context.Context, issueID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return 0, s.Err
	}

	var count int64
	for _, vote := range s.votes {
		if vote.IssueID.Hex() == issueID {
			count++
		}
	}
	return count, nil
}

func (s *Store) CountVotesByIssue(_ context.Context) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	counts := make(map[string]int64)
	for _, vote := range s.votes {
		counts[vote.IssueID.Hex()]++
	}
	return counts, nil
}

func (s *Store) VotedIssueIDs(_ context.Context, userName string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	var ids []string
	for _, vote := range s.votes {
		if vote.UserName == userName {
			ids = append(ids, vote.IssueID.Hex())
		}
	}
	return ids, nil
}

func (s *Store) InsertLogin(_ context.Context, entry models.LoginLog) (models.LoginLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return models.LoginLog{}, s.Err
	}

	entry.ID = primitive.NewObjectID()
	s.logins = append(s.logins, entry)
	return entry, nil
}

// latestOpen picks the newest open entry; later insertion wins ties.
func (s *Store) latestOpen(username string) int {
	best := -1
	for i, entry := range s.logins {
		if entry.Username != username || !entry.Active() {
			continue
		}
		if best < 0 || !entry.Timestamp.Before(s.logins[best].Timestamp) {
			best = i
		}
	}
	return best
}

func (s *Store) LatestOpenLogin(_ context.Context, username string) (models.LoginLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return models.LoginLog{}, s.Err
	}

	idx := s.latestOpen(username)
	if idx < 0 {
		return models.LoginLog{}, models.ErrNotFound
	}
	return s.logins[idx], nil
}

func (s *Store) CloseLatestLogin(_ context.Context, username string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return false, s.Err
	}

	idx := s.latestOpen(username)
	if idx < 0 {
		return false, nil
	}
	s.logins[idx].LoggedOutAt = &at
	return true, nil
}

func (s *Store) CloseStaleLogins(_ context.Context, before, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return 0, s.Err
	}

	var closed int64
	for i := range s.logins {
		if s.logins[i].Active() && s.logins[i].Timestamp.Before(before) {
			s.logins[i].LoggedOutAt = &at
			closed++
		}
	}
	return closed, nil
}

// Logins returns a copy of the login log in insertion order.
func (s *Store) Logins() []models.LoginLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.logins)
}

// SignUp stores the password as given; hashing is the real provider's job.
func (s *Store) SignUp(_ context.Context, username, email, password string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return models.Account{}, s.Err
	}

	taken := slices.ContainsFunc(s.accounts, func(account models.Account) bool {
		return account.Username == username || strings.EqualFold(account.Email, email)
	})
	if taken {
		return models.Account{}, models.ErrConflict
	}

	account := models.Account{
		ID:           primitive.NewObjectID(),
		Username:     username,
		Email:        email,
		PasswordHash: password,
		Role:         models.RoleCitizen,
		CreatedAt:    time.Now().UTC(),
	}
	s.accounts = append(s.accounts, account)

	return account, nil
}

func (s *Store) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.Err
}

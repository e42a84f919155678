package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	log "github.com/sirupsen/logrus"

	"mapmyissues/models"
)

type IssueConfig struct {
	DuplicateThreshold float64
}

type IssueDependencies struct {
	Issues     IssueStore
	Votes      VoteStore
	Classifier Classifier
}

// IssueService runs the issue lifecycle. Every mutating method takes the
// acting session explicitly and checks CanPerform before touching the store.
type IssueService struct {
	config IssueConfig
	deps   IssueDependencies
	policy *bluemonday.Policy
	now    func() time.Time
}

func NewIssueService(config IssueConfig, deps IssueDependencies) *IssueService {
	if config.DuplicateThreshold <= 0 {
		config.DuplicateThreshold = DefaultDuplicateThreshold
	}
	if deps.Classifier == nil {
		deps.Classifier = KeywordClassifier{}
	}

	return &IssueService{
		config: config,
		deps:   deps,
		policy: bluemonday.StrictPolicy(),
		now:    time.Now,
	}
}

// Views is the full read model for username, newest first.
func (s *IssueService) Views(ctx context.Context, username string) ([]models.IssueView, error) {
	issues, err := s.deps.Issues.ListIssues(ctx, models.IssueFilter{})
	if err != nil {
		return nil, fmt.Errorf("s.deps.Issues.ListIssues: %w", err)
	}

	counts, err := s.deps.Votes.CountVotesByIssue(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.deps.Votes.CountVotesByIssue: %w", err)
	}

	var voted []string
	if username != "" {
		if voted, err = s.deps.Votes.VotedIssueIDs(ctx, username); err != nil {
			return nil, fmt.Errorf("s.deps.Votes.VotedIssueIDs: %w", err)
		}
	}

	return AssembleViews(issues, counts, voted, username), nil
}

func (s *IssueService) List(ctx context.Context, username string, query ListQuery) (ListResult, error) {
	views, err := s.Views(ctx, username)
	if err != nil {
		return ListResult{}, err
	}
	return RunPipeline(views, query), nil
}

func (s *IssueService) Dashboard(ctx context.Context, username string) ([]DashboardBucket, error) {
	views, err := s.Views(ctx, username)
	if err != nil {
		return nil, err
	}
	return Dashboard(views), nil
}

func (s *IssueService) Insights(ctx context.Context) (Insights, error) {
	views, err := s.Views(ctx, "")
	if err != nil {
		return Insights{}, err
	}
	return ComputeInsights(views), nil
}

func (s *IssueService) Get(ctx context.Context, id, username string) (models.IssueView, error) {
	issue, err := s.deps.Issues.GetIssue(ctx, id)
	if err != nil {
		return models.IssueView{}, fmt.Errorf("s.deps.Issues.GetIssue: %w", err)
	}
	return s.view(ctx, issue, username)
}

// Nearby reports whether a report of issueType already exists close to the
// given coordinates.
func (s *IssueService) Nearby(ctx context.Context, issueType string, lat, lng any) (bool, error) {
	var errs []string
	if strings.TrimSpace(issueType) == "" {
		errs = append(errs, "Type is required and must be a non-empty string")
	}
	errs = append(errs, validateAxis("Latitude", lat, 90)...)
	errs = append(errs, validateAxis("Longitude", lng, 180)...)
	if len(errs) > 0 {
		return false, models.NewValidationError(errs...)
	}

	latitude, _ := ParseCoordinate(lat)
	longitude, _ := ParseCoordinate(lng)

	issues, err := s.deps.Issues.ListIssues(ctx, models.IssueFilter{})
	if err != nil {
		return false, fmt.Errorf("s.deps.Issues.ListIssues: %w", err)
	}

	coords := models.Coordinates{Lat: latitude, Lng: longitude}
	return IsDuplicateNearby(issues, strings.TrimSpace(issueType), coords, s.config.DuplicateThreshold), nil
}

type CreateResult struct {
	Issue           models.IssueView `json:"issue"`
	DuplicateNearby bool             `json:"duplicate_nearby"`
}

// Create persists a valid submission as a recent issue. A nearby duplicate is
// reported back but does not prevent creation.
func (s *IssueService) Create(ctx context.Context, session models.SessionUser, submission Submission) (CreateResult, error) {
	if !CanPerform(OpCreate, session.Role, IssueState{}) {
		return CreateResult{}, models.ErrForbidden
	}

	submission = s.sanitizeSubmission(submission)
	if errs := ValidateSubmission(submission); len(errs) > 0 {
		return CreateResult{}, models.NewValidationError(errs...)
	}
	coords, _ := submission.Coordinates()

	existing, err := s.deps.Issues.ListIssues(ctx, models.IssueFilter{})
	if err != nil {
		return CreateResult{}, fmt.Errorf("s.deps.Issues.ListIssues: %w", err)
	}
	duplicate := IsDuplicateNearby(existing, submission.Type, coords, s.config.DuplicateThreshold)

	issue := models.Issue{
		Type:        submission.Type,
		Description: submission.Description,
		Location:    submission.Location,
		Latitude:    coords.Lat,
		Longitude:   coords.Lng,
		PhotoURL:    submission.PhotoURL,
		Priority:    models.PriorityLow,
		Status:      models.StatusRecent,
		Department:  submission.Department,
		CreatedAt:   s.now().UTC(),
	}
	if submission.Priority != "" {
		issue.Priority = submission.Priority
	}
	if issue.Department == "" {
		issue.Department = DepartmentFor(issue.Type)
	}
	if submission.Expense != nil {
		issue.Expense = *submission.Expense
	}

	created, err := s.deps.Issues.CreateIssue(ctx, issue)
	if err != nil {
		return CreateResult{}, fmt.Errorf("s.deps.Issues.CreateIssue: %w", err)
	}

	log.WithFields(log.Fields{
		"issue_id":  created.ID.Hex(),
		"type":      created.Type,
		"reporter":  session.Username,
		"duplicate": duplicate,
	}).Info("issue created")

	return CreateResult{
		Issue:           BuildView(created, 0, false, session.Username),
		DuplicateNearby: duplicate,
	}, nil
}

// Update applies a partial update. A status change must be a single step
// forward and is applied conditionally on the current status.
func (s *IssueService) Update(ctx context.Context, session models.SessionUser, id string, update models.IssueUpdate) (models.IssueView, error) {
	issue, err := s.deps.Issues.GetIssue(ctx, id)
	if err != nil {
		return models.IssueView{}, fmt.Errorf("s.deps.Issues.GetIssue: %w", err)
	}
	if !CanPerform(OpUpdate, session.Role, IssueState{Status: issue.Status}) {
		return models.IssueView{}, models.ErrForbidden
	}

	update = s.sanitizeUpdate(update)
	update.IsAuthentic, update.Confidence, update.Category = nil, nil, nil

	if errs := validateUpdate(issue, update); len(errs) > 0 {
		return models.IssueView{}, models.NewValidationError(errs...)
	}

	if update.Status != nil && *update.Status != issue.Status {
		if issue, err = s.deps.Issues.TransitionStatus(ctx, id, issue.Status, *update.Status); err != nil {
			return models.IssueView{}, fmt.Errorf("s.deps.Issues.TransitionStatus: %w", err)
		}
	}
	update.Status = nil

	if !update.Empty() {
		if issue, err = s.deps.Issues.UpdateIssue(ctx, id, update); err != nil {
			return models.IssueView{}, fmt.Errorf("s.deps.Issues.UpdateIssue: %w", err)
		}
	}

	return s.view(ctx, issue, session.Username)
}

// Advance moves the issue one status forward. A completed issue is returned
// unchanged with changed=false.
func (s *IssueService) Advance(ctx context.Context, session models.SessionUser, id string) (view models.IssueView, changed bool, err error) {
	issue, err := s.deps.Issues.GetIssue(ctx, id)
	if err != nil {
		return models.IssueView{}, false, fmt.Errorf("s.deps.Issues.GetIssue: %w", err)
	}
	if !CanPerform(OpAdvance, session.Role, IssueState{Status: issue.Status}) {
		return models.IssueView{}, false, models.ErrForbidden
	}

	next, ok := NextStatus(issue.Status)
	if ok {
		if issue, err = s.deps.Issues.TransitionStatus(ctx, id, issue.Status, next); err != nil {
			return models.IssueView{}, false, fmt.Errorf("s.deps.Issues.TransitionStatus: %w", err)
		}

		log.WithFields(log.Fields{
			"issue_id": id,
			"status":   next,
			"admin":    session.Username,
		}).Info("issue status advanced")
	}

	view, err = s.view(ctx, issue, session.Username)
	return view, ok, err
}

type VoteResult struct {
	Vote  models.Vote `json:"vote"`
	Votes int64       `json:"votes"`
}

// Vote records the session user's endorsement; voter must name the session
// user. The unique constraint in the store is what actually guarantees one
// vote per user, the HasVoted lookup only feeds the permission check.
func (s *IssueService) Vote(ctx context.Context, session models.SessionUser, id, voter string) (VoteResult, error) {
	voter = strings.TrimSpace(voter)
	if voter == "" {
		return VoteResult{}, models.NewValidationError("user_name is required")
	}
	if voter != session.Username {
		return VoteResult{}, models.ErrForbidden
	}

	issue, err := s.deps.Issues.GetIssue(ctx, id)
	if err != nil {
		return VoteResult{}, fmt.Errorf("s.deps.Issues.GetIssue: %w", err)
	}

	issueID := issue.ID.Hex()

	voted, err := s.deps.Votes.HasVoted(ctx, issueID, voter)
	if err != nil {
		return VoteResult{}, fmt.Errorf("s.deps.Votes.HasVoted: %w", err)
	}

	state := IssueState{Status: issue.Status, HasVoted: voted}
	if !CanPerform(OpVote, session.Role, state) {
		// Only the earlier vote stands in the way.
		if voted && CanPerform(OpVote, session.Role, IssueState{Status: issue.Status}) {
			return VoteResult{}, models.ErrDuplicateVote
		}
		return VoteResult{}, models.ErrForbidden
	}

	vote, err := s.deps.Votes.InsertVote(ctx, models.Vote{
		IssueID:   issue.ID,
		UserName:  voter,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicateVote) {
			return VoteResult{}, models.ErrDuplicateVote
		}
		return VoteResult{}, fmt.Errorf("s.deps.Votes.InsertVote: %w", err)
	}

	count, err := s.deps.Votes.CountVotes(ctx, issueID)
	if err != nil {
		return VoteResult{}, fmt.Errorf("s.deps.Votes.CountVotes: %w", err)
	}

	return VoteResult{Vote: vote, Votes: count}, nil
}

func (s *IssueService) Delete(ctx context.Context, session models.SessionUser, id string) error {
	issue, err := s.deps.Issues.GetIssue(ctx, id)
	if err != nil {
		return fmt.Errorf("s.deps.Issues.GetIssue: %w", err)
	}
	if !CanPerform(OpDelete, session.Role, IssueState{Status: issue.Status}) {
		return models.ErrForbidden
	}

	if err = s.deps.Issues.DeleteIssue(ctx, id); err != nil {
		return fmt.Errorf("s.deps.Issues.DeleteIssue: %w", err)
	}

	log.WithFields(log.Fields{
		"issue_id": id,
		"admin":    session.Username,
	}).Info("issue deleted")

	return nil
}

type ValidateResult struct {
	Issue      models.IssueView `json:"issue"`
	Validation Classification   `json:"validation"`
}

// Validate runs the classifier over the stored issue and persists the result.
func (s *IssueService) Validate(ctx context.Context, session models.SessionUser, id string) (ValidateResult, error) {
	issue, err := s.deps.Issues.GetIssue(ctx, id)
	if err != nil {
		return ValidateResult{}, fmt.Errorf("s.deps.Issues.GetIssue: %w", err)
	}
	if !CanPerform(OpValidate, session.Role, IssueState{Status: issue.Status}) {
		return ValidateResult{}, models.ErrForbidden
	}

	classification := s.deps.Classifier.Classify(issue.Description, issue.PhotoURL != "")

	updated, err := s.deps.Issues.UpdateIssue(ctx, id, models.IssueUpdate{
		IsAuthentic: &classification.IsAuthentic,
		Confidence:  &classification.Confidence,
		Category:    &classification.Category,
	})
	if err != nil {
		return ValidateResult{}, fmt.Errorf("s.deps.Issues.UpdateIssue: %w", err)
	}

	view, err := s.view(ctx, updated, session.Username)
	if err != nil {
		return ValidateResult{}, err
	}

	return ValidateResult{Issue: view, Validation: classification}, nil
}

func (s *IssueService) view(ctx context.Context, issue models.Issue, username string) (models.IssueView, error) {
	issueID := issue.ID.Hex()

	count, err := s.deps.Votes.CountVotes(ctx, issueID)
	if err != nil {
		return models.IssueView{}, fmt.Errorf("s.deps.Votes.CountVotes: %w", err)
	}

	var voted bool
	if username != "" {
		if voted, err = s.deps.Votes.HasVoted(ctx, issueID, username); err != nil {
			return models.IssueView{}, fmt.Errorf("s.deps.Votes.HasVoted: %w", err)
		}
	}

	return BuildView(issue, count, voted, username), nil
}

// clean strips markup from user supplied text and trims it.
func (s *IssueService) clean(value string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(value)))
}

func (s *IssueService) sanitizeSubmission(submission Submission) Submission {
	submission.Type = s.clean(submission.Type)
	submission.Description = s.clean(submission.Description)
	submission.Location = s.clean(submission.Location)
	submission.Department = s.clean(submission.Department)
	submission.PhotoURL = strings.TrimSpace(submission.PhotoURL)
	return submission
}

func (s *IssueService) sanitizeUpdate(update models.IssueUpdate) models.IssueUpdate {
	for _, field := range []**string{&update.Type, &update.Description, &update.Location, &update.Department} {
		if *field != nil {
			cleaned := s.clean(**field)
			*field = &cleaned
		}
	}
	if update.PhotoURL != nil {
		trimmed := strings.TrimSpace(*update.PhotoURL)
		update.PhotoURL = &trimmed
	}
	return update
}

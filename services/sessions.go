package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"mapmyissues/models"
)

const DefaultSessionTTL = 24 * time.Hour

var adminUsername = regexp.MustCompile(`^admin\d+$`)

type SessionConfig struct {
	TTL time.Duration
}

type SessionDependencies struct {
	Logs LoginLogStore
	Auth AuthProvider
}

// SessionService tracks logins and logouts in the login log and delegates
// credential signup to the auth provider.
type SessionService struct {
	config SessionConfig
	deps   SessionDependencies
	now    func() time.Time
}

func NewSessionService(config SessionConfig, deps SessionDependencies) *SessionService {
	if config.TTL <= 0 {
		config.TTL = DefaultSessionTTL
	}
	return &SessionService{
		config: config,
		deps:   deps,
		now:    time.Now,
	}
}

func (s *SessionService) TTL() time.Duration {
	return s.config.TTL
}

type LoginRequest struct {
	Username   string      `json:"username"`
	Role       models.Role `json:"role"`
	District   string      `json:"district"`
	Town       string      `json:"town"`
	Department string      `json:"department"`
}

// Login appends a login log entry and returns the session user to carry in
// the session token.
func (s *SessionService) Login(ctx context.Context, req LoginRequest) (models.LoginLog, models.SessionUser, error) {
	username := strings.TrimSpace(req.Username)

	if username == "" || req.Role == "" {
		return models.LoginLog{}, models.SessionUser{}, models.NewValidationError("Username and role are required")
	}
	if !req.Role.Valid() {
		return models.LoginLog{}, models.SessionUser{}, models.NewValidationError("Role must be one of citizen, admin, department")
	}
	if req.Role == models.RoleAdmin && !adminUsername.MatchString(strings.ToLower(username)) {
		return models.LoginLog{}, models.SessionUser{}, models.NewValidationError("Invalid username or role combination")
	}

	district := strings.TrimSpace(req.District)
	town := strings.TrimSpace(req.Town)
	department := strings.TrimSpace(req.Department)
	switch {
	case req.Role == models.RoleCitizen && (district == "" || town == ""):
		return models.LoginLog{}, models.SessionUser{}, models.NewValidationError("Please select district and town")
	case req.Role == models.RoleDepartment && department == "":
		return models.LoginLog{}, models.SessionUser{}, models.NewValidationError("Please select a department")
	}

	entry, err := s.deps.Logs.InsertLogin(ctx, models.LoginLog{
		Username:  username,
		Role:      req.Role,
		Timestamp: s.now().UTC(),
	})
	if err != nil {
		return models.LoginLog{}, models.SessionUser{}, fmt.Errorf("s.deps.Logs.InsertLogin: %w", err)
	}

	user := models.SessionUser{
		Username: username,
		Role:     req.Role,
	}
	switch req.Role {
	case models.RoleCitizen:
		user.District = district
		user.Town = town
	case models.RoleDepartment:
		user.Department = department
	}

	log.WithFields(log.Fields{
		"username": username,
		"role":     req.Role,
	}).Info("user logged in")

	return entry, user, nil
}

// Logout closes the user's most recent open login entry. A user without one
// is not an error; closed reports whether anything changed.
func (s *SessionService) Logout(ctx context.Context, username string) (closed bool, err error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, models.NewValidationError("Username is required")
	}

	closed, err = s.deps.Logs.CloseLatestLogin(ctx, username, s.now().UTC())
	if err != nil {
		return false, fmt.Errorf("s.deps.Logs.CloseLatestLogin: %w", err)
	}

	log.WithFields(log.Fields{
		"username": username,
		"closed":   closed,
	}).Info("user logged out")

	return closed, nil
}

// ActiveSession returns the most recent open login entry for username.
func (s *SessionService) ActiveSession(ctx context.Context, username string) (models.LoginLog, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.LoginLog{}, models.NewValidationError("Username is required")
	}

	entry, err := s.deps.Logs.LatestOpenLogin(ctx, username)
	if err != nil {
		return models.LoginLog{}, fmt.Errorf("s.deps.Logs.LatestOpenLogin: %w", err)
	}
	return entry, nil
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *SessionService) Register(ctx context.Context, req RegisterRequest) (models.Account, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if username == "" || email == "" || req.Password == "" {
		return models.Account{}, models.NewValidationError("Username, email, and password are required")
	}

	account, err := s.deps.Auth.SignUp(ctx, username, email, req.Password)
	if err != nil {
		return models.Account{}, fmt.Errorf("s.deps.Auth.SignUp: %w", err)
	}
	return account, nil
}

// SweepStale closes open login entries older than the session TTL. Their
// tokens have expired, so nobody will log them out.
func (s *SessionService) SweepStale(ctx context.Context) (int64, error) {
	now := s.now().UTC()

	closed, err := s.deps.Logs.CloseStaleLogins(ctx, now.Add(-s.config.TTL), now)
	if err != nil {
		return 0, fmt.Errorf("s.deps.Logs.CloseStaleLogins: %w", err)
	}
	return closed, nil
}

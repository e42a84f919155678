package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mapmyissues/mock"
	"mapmyissues/models"
	"mapmyissues/services"
)

func newSessionService(t *testing.T) (*services.SessionService, *mock.Store) {
	t.Helper()

	store := mock.NewStore()
	svc := services.NewSessionService(services.SessionConfig{}, services.SessionDependencies{
		Logs: store,
		Auth: store,
	})
	return svc, store
}

func TestSessionService_Login(t *testing.T) {
	svc, store := newSessionService(t)

	entry, user, err := svc.Login(context.Background(), services.LoginRequest{
		Username: "alice",
		Role:     models.RoleCitizen,
		District: "Khordha",
		Town:     "Bhubaneswar",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !entry.Active() || entry.Username != "alice" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if user.Town != "Bhubaneswar" || user.Department != "" {
		t.Errorf("unexpected session user: %+v", user)
	}
	if got := len(store.Logins()); got != 1 {
		t.Errorf("expected one login entry, got %d", got)
	}
}

func TestSessionService_LoginRejects(t *testing.T) {
	svc, store := newSessionService(t)

	tests := []struct {
		name string
		req  services.LoginRequest
		want string
	}{
		{"missing username", services.LoginRequest{Role: models.RoleCitizen}, "Username and role are required"},
		{"missing role", services.LoginRequest{Username: "alice"}, "Username and role are required"},
		{"unknown role", services.LoginRequest{Username: "alice", Role: "mayor"}, "Role must be one of citizen, admin, department"},
		{"admin without number", services.LoginRequest{Username: "admin", Role: models.RoleAdmin}, "Invalid username or role combination"},
		{"admin wrong prefix", services.LoginRequest{Username: "alice1", Role: models.RoleAdmin}, "Invalid username or role combination"},
		{"citizen without town", services.LoginRequest{Username: "alice", Role: models.RoleCitizen, District: "Khordha"}, "Please select district and town"},
		{"citizen blank district", services.LoginRequest{Username: "alice", Role: models.RoleCitizen, District: " ", Town: "Puri"}, "Please select district and town"},
		{"department without department", services.LoginRequest{Username: "pwd-desk", Role: models.RoleDepartment, District: "Khordha"}, "Please select a department"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tt.req)

			var verr *models.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(verr.Errors) != 1 || verr.Errors[0] != tt.want {
				t.Errorf("Errors = %v, want [%s]", verr.Errors, tt.want)
			}
		})
	}

	if got := len(store.Logins()); got != 0 {
		t.Errorf("rejected logins must not be recorded, got %d", got)
	}

	if _, _, err := svc.Login(context.Background(), services.LoginRequest{Username: "admin42", Role: models.RoleAdmin}); err != nil {
		t.Errorf("admin42 should be accepted: %v", err)
	}

	_, user, err := svc.Login(context.Background(), services.LoginRequest{
		Username:   "pwd-desk",
		Role:       models.RoleDepartment,
		Department: " PWD ",
		Town:       "Puri",
	})
	if err != nil {
		t.Fatalf("department login: %v", err)
	}
	if user.Department != "PWD" || user.Town != "" {
		t.Errorf("unexpected session user: %+v", user)
	}
}

func TestSessionService_LogoutClosesLatestOnly(t *testing.T) {
	svc, store := newSessionService(t)
	ctx := context.Background()

	first := time.Now().Add(-2 * time.Hour).UTC()
	second := time.Now().Add(-time.Hour).UTC()
	if _, err := store.InsertLogin(ctx, models.LoginLog{Username: "alice", Role: models.RoleCitizen, Timestamp: first}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.InsertLogin(ctx, models.LoginLog{Username: "alice", Role: models.RoleCitizen, Timestamp: second}); err != nil {
		t.Fatal(err)
	}

	closed, err := svc.Logout(ctx, "alice")
	if err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if !closed {
		t.Fatal("expected an entry to be closed")
	}

	logins := store.Logins()
	if !logins[0].Active() {
		t.Error("older entry should stay open")
	}
	if logins[1].Active() {
		t.Error("latest entry should be closed")
	}

	active, err := svc.ActiveSession(ctx, "alice")
	if err != nil {
		t.Fatalf("ActiveSession: %v", err)
	}
	if !active.Timestamp.Equal(first) {
		t.Errorf("ActiveSession = %v, want the older entry", active.Timestamp)
	}
}

func TestSessionService_LogoutWithoutSession(t *testing.T) {
	svc, store := newSessionService(t)
	ctx := context.Background()

	if _, err := store.InsertLogin(ctx, models.LoginLog{Username: "alice", Timestamp: time.Now()}); err != nil {
		t.Fatal(err)
	}

	closed, err := svc.Logout(ctx, "bob")
	if err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if closed {
		t.Error("nothing should be closed for a user without entries")
	}
	if !store.Logins()[0].Active() {
		t.Error("other users' entries must not change")
	}

	var verr *models.ValidationError
	if _, err = svc.Logout(ctx, ""); !errors.As(err, &verr) {
		t.Errorf("empty username: expected ValidationError, got %v", err)
	}
	if _, err = svc.ActiveSession(ctx, "bob"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("ActiveSession: expected ErrNotFound, got %v", err)
	}
}

func TestSessionService_SweepStale(t *testing.T) {
	svc, store := newSessionService(t)
	ctx := context.Background()

	stale := time.Now().Add(-2 * services.DefaultSessionTTL)
	if _, err := store.InsertLogin(ctx, models.LoginLog{Username: "alice", Timestamp: stale}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.InsertLogin(ctx, models.LoginLog{Username: "bob", Timestamp: time.Now()}); err != nil {
		t.Fatal(err)
	}

	closed, err := svc.SweepStale(ctx)
	if err != nil {
		t.Fatalf("SweepStale: %v", err)
	}
	if closed != 1 {
		t.Errorf("closed = %d, want 1", closed)
	}

	logins := store.Logins()
	if logins[0].Active() || !logins[1].Active() {
		t.Errorf("unexpected login state: %+v", logins)
	}
}

func TestSessionService_Register(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, services.RegisterRequest{Username: "alice", Email: " Alice@Example.com ", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if account.Email != "alice@example.com" || account.Role != models.RoleCitizen {
		t.Errorf("unexpected account: %+v", account)
	}

	_, err = svc.Register(ctx, services.RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "x"})
	if !errors.Is(err, models.ErrConflict) {
		t.Errorf("duplicate email: expected ErrConflict, got %v", err)
	}

	var verr *models.ValidationError
	if _, err = svc.Register(ctx, services.RegisterRequest{Username: "carol"}); !errors.As(err, &verr) {
		t.Errorf("missing fields: expected ValidationError, got %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/iliyamo/innovation-hub/internal/model"
)

func TestAuthenticateDefaultUsers(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	u, err := env.accounts.Authenticate(ctx, "admin", "admin123")
	if err != nil || !u.IsAdmin() {
		t.Fatalf("admin login: %+v, %v", u, err)
	}
	if _, err := env.accounts.Authenticate(ctx, "admin", "employee123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, err := env.accounts.Authenticate(ctx, "nobody", "admin123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v", err)
	}
}

func TestRegisterCreatesEmployee(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	u, err := env.accounts.Register(ctx, NewUser{
		Username:   "lan",
		Password:   "secret1",
		Email:      "Lan@Company.com",
		Department: "Finance",
		Role:       model.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != model.RoleEmployee || u.Points != 0 || u.Level != 1 || u.Email != "lan@company.com" {
		t.Fatalf("user = %+v", u)
	}
	if _, err := env.accounts.Authenticate(ctx, "lan", "secret1"); err != nil {
		t.Fatalf("login after register: %v", err)
	}
	// the defaults must survive the first users save
	if _, err := env.accounts.Authenticate(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("admin lost after register: %v", err)
	}

	_, err = env.accounts.Register(ctx, NewUser{Username: "lan", Password: "another", Email: "x@company.com", Department: "Ops"})
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("duplicate err = %v", err)
	}
	for name, n := range map[string]NewUser{
		"short password": {Username: "a1", Password: "123", Email: "a1@company.com", Department: "Ops"},
		"bad email":      {Username: "a2", Password: "123456", Email: "not-an-email", Department: "Ops"},
		"colon":          {Username: "a:3", Password: "123456", Email: "a3@company.com", Department: "Ops"},
		"no department":  {Username: "a4", Password: "123456", Email: "a4@company.com"},
		"long username":  {Username: strings.Repeat("u", model.MaxUsernameLen+1), Password: "123456", Email: "a5@company.com", Department: "Ops"},
		"long dept":      {Username: "a6", Password: "123456", Email: "a6@company.com", Department: strings.Repeat("d", model.MaxDepartmentLen+1)},
	} {
		if _, err := env.accounts.Register(ctx, n); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: err = %v, want ErrValidation", name, err)
		}
	}
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	n := NewUser{Username: "boss", Password: "secret1", Email: "boss@company.com", Department: "Management", Role: model.RoleAdmin}

	if _, err := env.accounts.CreateUser(ctx, env.employee, n); !errors.Is(err, ErrForbidden) {
		t.Fatalf("employee create err = %v", err)
	}
	u, err := env.accounts.CreateUser(ctx, env.admin, n)
	if err != nil || u.Role != model.RoleAdmin {
		t.Fatalf("admin create: %+v, %v", u, err)
	}
}

func TestProfileDerivesIdeaCounts(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := env.submit(t, env.employee, "One")
	b := env.submit(t, env.employee, "Two")
	env.submit(t, env.employee, "Three")
	if _, err := env.ctrl.Approve(ctx, env.admin, a, Scores{5, 5, 5, 5}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.ctrl.Approve(ctx, env.admin, b, Scores{5, 5, 5, 5}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.ctrl.StartImplementation(ctx, env.admin, b); err != nil {
		t.Fatal(err)
	}

	p, err := env.accounts.Profile(ctx, "employee")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.User.IdeasSubmitted != 3 || p.User.IdeasApproved != 2 {
		t.Fatalf("counts = %d/%d, want 3/2", p.User.IdeasSubmitted, p.User.IdeasApproved)
	}
	// 3 submissions and 2 approvals
	if p.User.Points != 230 || p.Level.Number != 2 || p.NextLevel == nil || p.PointsToNext != 270 {
		t.Fatalf("profile = %+v", p)
	}
	if _, err := env.accounts.Profile(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown profile err = %v", err)
	}
}

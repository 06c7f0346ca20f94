package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/iliyamo/innovation-hub/internal/model"
	"github.com/iliyamo/innovation-hub/internal/repository"
	"github.com/iliyamo/innovation-hub/internal/utils"
)

// Accounts authenticates and manages users.
type Accounts struct {
	store      *repository.Store
	bcryptCost int
	now        func() time.Time
}

// NewAccounts returns an account service hashing with the given bcrypt cost.
func NewAccounts(store *repository.Store, bcryptCost int) *Accounts {
	return &Accounts{store: store, bcryptCost: bcryptCost, now: time.Now}
}

// Authenticate compares the bcrypt hash of password with the stored hash
// and returns the user.  Unknown users and wrong passwords are
// indistinguishable to the caller.
func (a *Accounts) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.User{}, ErrInvalidCredentials
	}
	snap, err := a.store.LoadUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	idx := findUser(snap.Rows, username)
	if idx < 0 || !utils.VerifyPassword(snap.Rows[idx].PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return snap.Rows[idx], nil
}

// NewUser is the input to Register and CreateUser.
type NewUser struct {
	Username   string     `json:"username"`
	Password   string     `json:"password"`
	Email      string     `json:"email"`
	Department string     `json:"department"`
	Role       model.Role `json:"role"`
}

func (n NewUser) validate() error {
	switch {
	case strings.TrimSpace(n.Username) == "":
		return fmt.Errorf("%w: username is required", ErrValidation)
	case model.TooLong(n.Username, model.MaxUsernameLen):
		return fmt.Errorf("%w: username must be at most %d characters", ErrValidation, model.MaxUsernameLen)
	case model.TooLong(n.Email, model.MaxEmailLen):
		return fmt.Errorf("%w: email must be at most %d characters", ErrValidation, model.MaxEmailLen)
	case model.TooLong(strings.TrimSpace(n.Department), model.MaxDepartmentLen):
		return fmt.Errorf("%w: department must be at most %d characters", ErrValidation, model.MaxDepartmentLen)
	case strings.ContainsAny(n.Username, " \t\n:"):
		return fmt.Errorf("%w: username must not contain spaces or colons", ErrValidation)
	case len(n.Password) < 6:
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	case strings.TrimSpace(n.Department) == "":
		return fmt.Errorf("%w: department is required", ErrValidation)
	case !n.Role.Valid():
		return fmt.Errorf("%w: unknown role %q", ErrValidation, n.Role)
	}
	if _, err := mail.ParseAddress(n.Email); err != nil {
		return fmt.Errorf("%w: invalid email %q", ErrValidation, n.Email)
	}
	return nil
}

// Register creates an Employee account.  Any role in the request is ignored.
func (a *Accounts) Register(ctx context.Context, n NewUser) (model.User, error) {
	n.Role = model.RoleEmployee
	return a.create(ctx, n)
}

// CreateUser lets an admin create an account with any role.
func (a *Accounts) CreateUser(ctx context.Context, actor model.User, n NewUser) (model.User, error) {
	if err := authorizeAdmin(actor); err != nil {
		return model.User{}, err
	}
	if n.Role == "" {
		n.Role = model.RoleEmployee
	}
	return a.create(ctx, n)
}

func (a *Accounts) create(ctx context.Context, n NewUser) (model.User, error) {
	n.Username = strings.TrimSpace(n.Username)
	n.Email = strings.ToLower(strings.TrimSpace(n.Email))
	if err := n.validate(); err != nil {
		return model.User{}, err
	}
	// bcrypt is slow; hash before taking the users writer lock
	hash, err := utils.HashPassword(n.Password, a.bcryptCost)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		Username:     n.Username,
		PasswordHash: hash,
		Email:        n.Email,
		Department:   strings.TrimSpace(n.Department),
		Role:         n.Role,
		JoinDate:     a.now().UTC(),
		Level:        model.LevelFor(0).Number,
	}
	err = a.store.UpdateUsers(ctx, func(users []model.User) ([]model.User, error) {
		if findUser(users, u.Username) >= 0 {
			return nil, fmt.Errorf("%w: %q", ErrUserExists, u.Username)
		}
		return append(users, u), nil
	})
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Profile is a user with derived idea counters and level progress.
type Profile struct {
	User         model.User   `json:"user"`
	Level        model.Level  `json:"level"`
	NextLevel    *model.Level `json:"next_level,omitempty"`
	PointsToNext int          `json:"points_to_next"`
}

// approvedStatuses are the statuses an idea can only hold after approval.
var approvedStatuses = map[model.Status]bool{
	model.StatusApproved:    true,
	model.StatusInProgress:  true,
	model.StatusImplemented: true,
}

// Profile assembles the user's profile.  ideas_submitted and
// ideas_approved are recomputed from the ideas table.
func (a *Accounts) Profile(ctx context.Context, username string) (Profile, error) {
	users, err := a.store.LoadUsers(ctx)
	if err != nil {
		return Profile{}, err
	}
	idx := findUser(users.Rows, username)
	if idx < 0 {
		return Profile{}, fmt.Errorf("%w: user %q", ErrNotFound, username)
	}
	ideas, err := a.store.LoadIdeas(ctx)
	if err != nil {
		return Profile{}, err
	}
	u := users.Rows[idx]
	for _, i := range ideas.Rows {
		if i.Submitter != username {
			continue
		}
		u.IdeasSubmitted++
		if approvedStatuses[i.Status] {
			u.IdeasApproved++
		}
	}
	p := Profile{User: u, Level: model.LevelFor(u.Points)}
	if next, ok := model.NextLevel(p.Level); ok {
		p.NextLevel = &next
		p.PointsToNext = next.MinPoints - u.Points
	}
	return p, nil
}

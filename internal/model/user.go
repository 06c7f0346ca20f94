package model

import (
	"fmt"
	"strings"
	"time"
)

// Role is the binary authorization role of a user.
type Role string

const (
	RoleEmployee Role = "Employee"
	RoleAdmin    Role = "Admin"
)

// Valid reports whether r is Employee or Admin.
func (r Role) Valid() bool { return r == RoleEmployee || r == RoleAdmin }

// User mirrors the `users` table.  The username is the primary key and the
// password is only ever held as a bcrypt hash.
//
// IdeasSubmitted and IdeasApproved are not columns; they are derived from
// the ideas table whenever a profile is assembled.
type User struct {
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	Email          string    `json:"email"`
	Department     string    `json:"department"`
	Role           Role      `json:"role"`
	JoinDate       time.Time `json:"join_date"`
	Points         int       `json:"points"`
	Level          int       `json:"level"`
	IdeasSubmitted int       `json:"ideas_submitted"`
	IdeasApproved  int       `json:"ideas_approved"`
}

// IsAdmin reports whether the user holds the Admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Validate checks the fixed schema of a user row.
func (u User) Validate() error {
	switch {
	case strings.TrimSpace(u.Username) == "":
		return fmt.Errorf("%w: username is required", ErrInvalidRow)
	case TooLong(u.Username, MaxUsernameLen):
		return fmt.Errorf("%w: username longer than %d characters", ErrInvalidRow, MaxUsernameLen)
	case TooLong(u.Email, MaxEmailLen) || TooLong(u.Department, MaxDepartmentLen):
		return fmt.Errorf("%w: user %s: email or department too long", ErrInvalidRow, u.Username)
	case u.PasswordHash == "":
		return fmt.Errorf("%w: user %s: password hash is required", ErrInvalidRow, u.Username)
	case strings.TrimSpace(u.Email) == "":
		return fmt.Errorf("%w: user %s: email is required", ErrInvalidRow, u.Username)
	case !u.Role.Valid():
		return fmt.Errorf("%w: user %s: unknown role %q", ErrInvalidRow, u.Username, u.Role)
	case u.JoinDate.IsZero():
		return fmt.Errorf("%w: user %s: join_date is required", ErrInvalidRow, u.Username)
	case u.Points < 0:
		return fmt.Errorf("%w: user %s: points must be non-negative", ErrInvalidRow, u.Username)
	case u.Level != LevelFor(u.Points).Number:
		return fmt.Errorf("%w: user %s: level %d does not match %d points", ErrInvalidRow, u.Username, u.Level, u.Points)
	}
	return nil
}

package repository

import (
	"time"

	"github.com/iliyamo/innovation-hub/internal/model"
	"github.com/iliyamo/innovation-hub/internal/utils"
)

// Usernames of the accounts present before the users table is first saved.
const (
	DefaultAdminUsername    = "admin"
	DefaultEmployeeUsername = "employee"
)

// DefaultUsers builds the out-of-the-box Admin and Employee accounts.
func DefaultUsers(adminPassword, employeePassword string, cost int, now time.Time) ([]model.User, error) {
	adminHash, err := utils.HashPassword(adminPassword, cost)
	if err != nil {
		return nil, err
	}
	employeeHash, err := utils.HashPassword(employeePassword, cost)
	if err != nil {
		return nil, err
	}
	joined := now.UTC()
	return []model.User{
		{
			Username:     DefaultAdminUsername,
			PasswordHash: adminHash,
			Email:        "admin@company.com",
			Department:   "Management",
			Role:         model.RoleAdmin,
			JoinDate:     joined,
			Level:        1,
		},
		{
			Username:     DefaultEmployeeUsername,
			PasswordHash: employeeHash,
			Email:        "employee@company.com",
			Department:   "Engineering",
			Role:         model.RoleEmployee,
			JoinDate:     joined,
			Level:        1,
		},
	}, nil
}

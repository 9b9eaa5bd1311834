package dto

import (
	"time"

	"github.com/shelter-kit/shelter-service/internal/domain"
)

// UserSummary lists an account without roles.
type UserSummary struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserDetail adds the role set.
type UserDetail struct {
	UserSummary
	Roles []string `json:"roles"`
}

// NewUserSummary maps a domain user.
func NewUserSummary(user *domain.User) UserSummary {
	return UserSummary{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// NewUserDetail maps a domain user with roles.
func NewUserDetail(user *domain.User) UserDetail {
	return UserDetail{
		UserSummary: NewUserSummary(user),
		Roles:       domain.RoleNames(user.Roles),
	}
}

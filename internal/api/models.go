package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	FullName             string  `json:"full_name"             validate:"required,max=255"`
	Email                string  `json:"email"                 validate:"required,email,max=255"`
	Password             string  `json:"password"              validate:"required,min=8,max=72,eqfield=PasswordConfirmation"`
	PasswordConfirmation string  `json:"password_confirmation"`
	PhoneNumber          *string `json:"phone_number"          validate:"omitempty,max=20"`
	Address              *string `json:"address"               validate:"omitempty,max=255"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	// RefreshToken is the JWT refresh token to be used to obtain a new token pair
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Authorization describes an issued token pair.
type Authorization struct {
	// Token is the JWT access token used for API authorization
	Token string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token"`

	// Type is always "bearer"
	Type string `json:"type"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at"`
}

// UserResponse is the public representation of a user.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
	Address     *string   `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	Success       bool          `json:"success"`
	Message       string        `json:"message,omitempty"`
	User          UserResponse  `json:"user"`
	Authorization Authorization `json:"authorization"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	Success       bool          `json:"success"`
	Authorization Authorization `json:"authorization"`
}

// MeResponse is returned by the current-user endpoint.
type MeResponse struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
}

// UsersResponse lists user identities.
type UsersResponse struct {
	Success bool                 `json:"success"`
	Users   []domain.UserSummary `json:"users"`
}

// TaskResponse is the public representation of a task.
type TaskResponse struct {
	ID           uuid.UUID           `json:"id"`
	Title        string              `json:"title"`
	Description  *string             `json:"description"`
	Status       domain.TaskStatus   `json:"status"`
	Priority     domain.TaskPriority `json:"priority"`
	DueDate      *domain.Date        `json:"due_date"`
	UserID       uuid.UUID           `json:"user_id"`
	AssignedTo   *uuid.UUID          `json:"assigned_to"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	User         *domain.UserSummary `json:"user"`
	AssignedUser *domain.UserSummary `json:"assigned_to_user"`
}

// TaskEnvelope wraps a single task.
type TaskEnvelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Task    TaskResponse `json:"task"`
}

// TaskListResponse wraps a list of tasks.
type TaskListResponse struct {
	Success bool           `json:"success"`
	Tasks   []TaskResponse `json:"tasks"`
}

// StatisticsResponse wraps task statistics.
type StatisticsResponse struct {
	Success    bool                  `json:"success"`
	Statistics domain.TaskStatistics `json:"statistics"`
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       t.Status,
		Priority:     t.Priority,
		DueDate:      t.DueDate,
		UserID:       t.UserID,
		AssignedTo:   t.AssignedTo,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		User:         t.Owner,
		AssignedUser: t.Assignee,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.Phone,
		Address:     u.Address,
		CreatedAt:   u.CreatedAt,
	}
}

func authorizationFromPair(pair *auth.TokenPair) Authorization {
	return Authorization{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Type:         "bearer",
		ExpiresAt:    pair.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

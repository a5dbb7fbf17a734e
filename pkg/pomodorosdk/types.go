package pomodorosdk

import "time"

// ============================================================================
// Accounts
// ============================================================================

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254" example:"a@x.com"`
	Password string `json:"password" validate:"required,password,max=128" example:"abc123"`
}

// RegisterResponse is returned with 201 Created.
type RegisterResponse struct {
	ID    string `json:"id" example:"01J9Z3M8Q4S7V2X6Y0B5C1D3E7"`
	Email string `json:"email" example:"a@x.com"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required" example:"a@x.com"`
	Password string `json:"password" validate:"required" example:"abc123"`
}

// LoginResponse carries the bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// ForgotPasswordRequest is the body of POST /forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required" example:"a@x.com"`
}

// ResetPasswordRequest is the body of POST /reset-password.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,password,max=128" example:"n3wpass"`
}

// MessageResponse is the body of endpoints that only acknowledge.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every JSON error.
type ErrorResponse struct {
	Error string `json:"error" example:"Invalid email or password"`
}

// ============================================================================
// Tasks
// ============================================================================

// TaskStatus is one of StatusToDo, StatusWorkingOn or StatusDone.
type TaskStatus string

const (
	StatusToDo      TaskStatus = "to do"
	StatusWorkingOn TaskStatus = "working on"
	StatusDone      TaskStatus = "done"
)

// Task is a task as the API returns it.
type Task struct {
	ID          string     `json:"id"`
	Description string     `json:"description" example:"write report"`
	Status      TaskStatus `json:"status" example:"to do"`
	CreatedAt   time.Time  `json:"created_at,omitzero"`
	UpdatedAt   time.Time  `json:"updated_at,omitzero"`
}

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Description string     `json:"description" validate:"required,max=1000" example:"write report"`
	Status      TaskStatus `json:"status" validate:"required" example:"to do"`
}

// UpdateTaskStatusRequest is the body of PATCH /tasks/{id}.
type UpdateTaskStatusRequest struct {
	Status TaskStatus `json:"status" validate:"required" example:"done"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	// Status is "ok" or "degraded".
	Status string `json:"status"`

	// Uptime is the service uptime, e.g. "1h23m45s".
	Uptime string `json:"uptime,omitempty"`

	Version string `json:"version,omitempty"`

	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency.
type HealthChecks struct {
	Database string `json:"database"`
}

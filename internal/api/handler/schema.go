package handler

import "time"

// --- Requests ---

type fieldRequest struct {
	Type        string   `json:"type" validate:"required"`
	Label       string   `json:"label"`
	Placeholder string   `json:"placeholder,omitempty"`
	Required    bool     `json:"required,omitempty"`
	MinLength   *int     `json:"minLength,omitempty"`
	MaxLength   *int     `json:"maxLength,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Step        *float64 `json:"step,omitempty"`
	Rows        *int     `json:"rows,omitempty"`
	Order       *int     `json:"order,omitempty"`
}

type formRequest struct {
	Title  string         `json:"title" validate:"required"`
	Fields []fieldRequest `json:"fields" validate:"required,min=1,dive"`
}

type submittedFieldRequest struct {
	Label string `json:"label"`
	Value any    `json:"value" swaggertype:"string"`
}

type submissionRequest struct {
	FormID          string                  `json:"formId" validate:"required"`
	SubmittedFields []submittedFieldRequest `json:"submittedFields" validate:"required,min=1"`
	UserID          string                  `json:"userId,omitempty"`
}

type signUpRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Responses ---

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type formMutationResponse struct {
	Message string `json:"message"`
	FormID  string `json:"formId"`
}

type fieldResponse struct {
	Type        string   `json:"type"`
	Label       string   `json:"label"`
	Placeholder string   `json:"placeholder,omitempty"`
	Required    bool     `json:"required"`
	MinLength   *int     `json:"minLength,omitempty"`
	MaxLength   *int     `json:"maxLength,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Step        *float64 `json:"step,omitempty"`
	Rows        *int     `json:"rows,omitempty"`
	Order       int      `json:"order"`
}

type formResponse struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Fields           []fieldResponse `json:"fields"`
	UserID           string          `json:"userId"`
	SubmissionCount  int64           `json:"submissionCount"`
	LastSubmissionAt *time.Time      `json:"lastSubmissionAt,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type formSummaryResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	UserID          string `json:"userId"`
	SubmissionCount int64  `json:"submissionCount"`
}

type submissionCreatedResponse struct {
	Message      string `json:"message"`
	SubmissionID string `json:"submissionId"`
}

type submittedFieldResponse struct {
	Label string `json:"label"`
	Value any    `json:"value" swaggertype:"string"`
}

type submissionResponse struct {
	ID              string                   `json:"id"`
	FormID          string                   `json:"formId"`
	SubmittedFields []submittedFieldResponse `json:"submittedFields"`
	UserID          string                   `json:"userId,omitempty"`
	SubmittedAt     time.Time                `json:"submittedAt"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type verifyResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"userId"`
}

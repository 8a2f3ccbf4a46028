package user

// CreateUserRequest represents the expected JSON body for user creation.
type CreateUserRequest struct {
	Email string `json:"email" example:"user@example.com"`
	Role  string `json:"role,omitempty" example:"user"` // Defaults to "user" when empty.
}

// UpdateUserRequest represents the expected JSON body for a user update.
// Only the fields present are changed.
type UpdateUserRequest struct {
	Email *string `json:"email,omitempty"`
	Role  *string `json:"role,omitempty"`
}

// UpdateUserParams carries the mutable fields down to the repository.
type UpdateUserParams struct {
	Email *string
	Role  *string
}

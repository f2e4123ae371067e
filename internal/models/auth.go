package models

// SignUpRequest is the body of POST /auth/sign-up
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	UserType string `json:"user_type"`
}

// SignInRequest is the body of POST /auth/sign-in
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ConfirmEmailRequest is the body of POST /auth/confirm
type ConfirmEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// CompleteProfileRequest is the body of PUT /me/profile
type CompleteProfileRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	UserType string `json:"user_type"`
}

// SetApprovalRequest is the body of PUT /admin/users/:id/approval
type SetApprovalRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

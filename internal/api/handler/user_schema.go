package handler

// --- Request / Response types ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
	IsAdmin  bool   `json:"is_admin"`
}

// updateUserRequest is a partial update: absent fields are left untouched.
type updateUserRequest struct {
	Role     *string `json:"role"     validate:"omitempty,oneof=user admin"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Username *string `json:"username" validate:"omitempty,min=3"`
	Image    *string `json:"image"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// userResponse is the transport view of a user. The password hash is never
// serialised.
type userResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	Image    string   `json:"image"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type deleteResponse struct {
	Deleted bool `json:"deleted"`
}

package admin

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// UpdateUserRequest changes the role; the password only when non-empty.
type UpdateUserRequest struct {
	Role     string `json:"role"`
	Password string `json:"password"`
}

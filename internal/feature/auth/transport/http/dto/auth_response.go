package dto

import "planner_backend/internal/feature/auth/domain/entity"

// UserRes is the public view of a user. The password hash is never included.
type UserRes struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Fullname  string `json:"fullname"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// NewUserRes converts a user entity into its public view.
func NewUserRes(u *entity.User) *UserRes {
	if u == nil {
		return nil
	}
	return &UserRes{
		ID:        u.ID,
		Username:  u.Username,
		Fullname:  u.Fullname,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// AuthRes is the body of /send-otp, /register and /login.
type AuthRes struct {
	OK      bool     `json:"ok"`
	Message string   `json:"message"`
	Token   string   `json:"token,omitempty"`
	User    *UserRes `json:"user,omitempty"`
}

// MeRes is the body of /me.
type MeRes struct {
	OK      bool     `json:"ok"`
	Message string   `json:"message,omitempty"`
	User    *UserRes `json:"user,omitempty"`
}

// UpdateUserRes is the body of /api/users/update/:id.
type UpdateUserRes struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	User    *UserRes `json:"user,omitempty"`
}

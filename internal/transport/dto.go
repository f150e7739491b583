package transport

import "github.com/luisfernandomp/ApiDataDriven/internal/models"

type CategoryRequest struct {
	ID      uint   `json:"id"`
	Title   string `json:"title"`
	Version uint   `json:"version"`
}

type ProductRequest struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Version     uint    `json:"version"`
	CategoryID  uint    `json:"category_id"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse is the wire shape of a user. Password is always empty; the
// stored hash never leaves the server.
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Password: "",
		Role:     u.Role,
	}
}

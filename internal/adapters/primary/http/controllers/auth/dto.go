package auth

import "github.com/admin/cosmic-connect/internal/domain"

type SignUpRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse текущий профиль и дашборд его роли
type SessionResponse struct {
	Profile  *domain.Profile `json:"profile"`
	HomeView domain.View     `json:"home_view"`
	HomePath string          `json:"home_path"`
}

// RouteResponse решение guard'а для экрана
type RouteResponse struct {
	View     domain.View `json:"view"`
	Allow    bool        `json:"allow"`
	Status   int         `json:"status"`
	Redirect domain.View `json:"redirect_to,omitempty"`
	Location string      `json:"location,omitempty"`
}

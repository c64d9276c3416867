package models

import "time"

// User is the authenticated field agent
type User struct {
	ID      string `json:"id"`
	Nombre  string `json:"nombre"`
	IsAdmin bool   `json:"isAdmin"`
}

// RoleLabel returns the badge text shown next to the user's name
func (u User) RoleLabel() string {
	if u.IsAdmin {
		return "Administrador"
	}
	return "Planillero"
}

// LoginRequest is the body sent to the login endpoint
type LoginRequest struct {
	CedulaPlanillero int64  `json:"cedulaPlanillero"`
	Password         string `json:"password"`
}

type LoginResult struct {
	CedulaPlanillero FlexString `json:"cedulaPlanillero"`
	NombreCompleto   string     `json:"nombreCompleto"`
	IsAdmin          bool       `json:"isAdmin"`
}

// LoginResponse is the login endpoint's {data: {result, token}} body
type LoginResponse struct {
	Data struct {
		Result LoginResult `json:"result"`
		Token  string      `json:"token"`
	} `json:"data"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// AlertType is the severity of a transient notice
type AlertType string

const (
	AlertSuccess AlertType = "success"
	AlertWarning AlertType = "warning"
	AlertError   AlertType = "error"
)

// Alert is a transient notice that hides itself after a fixed delay
type Alert struct {
	Type        AlertType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Expired reports whether the alert should no longer be shown
func (a *Alert) Expired(now time.Time) bool {
	return a == nil || !now.Before(a.ExpiresAt)
}

// RemainingMillis is the delay the page waits before hiding the alert
func (a *Alert) RemainingMillis(now time.Time) int64 {
	if a.Expired(now) {
		return 0
	}
	return a.ExpiresAt.Sub(now).Milliseconds()
}

// Session is the server-side state behind one browser cookie
type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Alert     *Alert    `json:"alert,omitempty"`
}

// IsExpired checks if the session has outlived its token
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

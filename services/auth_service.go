package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/fenilmodi00/planillas-dashboard/models"
	"github.com/fenilmodi00/planillas-dashboard/shared"
	"github.com/sirupsen/logrus"
)

const defaultLoginError = "Error al iniciar sesión"

// LoginError carries the message shown on the login form
type LoginError struct {
	Message string
	Cause   error
}

func (e *LoginError) Error() string { return e.Message }
func (e *LoginError) Unwrap() error { return e.Cause }

// AuthService exchanges credentials for a backend token and opens a session
type AuthService struct {
	api      *APIClient
	sessions *SessionManager
	logger   *logrus.Entry
}

func NewAuthService(api *APIClient, sessions *SessionManager) *AuthService {
	return &AuthService{
		api:      api,
		sessions: sessions,
		logger:   logrus.WithField("component", "AuthService"),
	}
}

// Login authenticates a planillero. Backend error messages are passed through
// to the user; anything else becomes a generic login error.
func (s *AuthService) Login(ctx context.Context, cedula int64, password string) (*models.Session, error) {
	request := models.LoginRequest{CedulaPlanillero: cedula, Password: password}

	var response models.LoginResponse
	if err := s.api.Post(ctx, nil, "/access/login", request, &response); err != nil {
		message := defaultLoginError
		if apiErr, ok := AsAPIError(err); ok && apiErr.Message != "" {
			message = apiErr.Message
		}
		s.logger.WithError(err).WithField("cedula", cedula).Warn("Login rejected")
		return nil, &LoginError{Message: message, Cause: err}
	}

	if strings.TrimSpace(response.Data.Token) == "" {
		err := shared.NewServiceError(shared.ErrorCategoryAuthentication, "MISSING_TOKEN", "login response carried no token", "AuthService", "Login", false, nil)
		s.logger.WithField("cedula", cedula).Error(err.Message)
		return nil, &LoginError{Message: defaultLoginError, Cause: err}
	}

	user := models.MapUser(response.Data.Result)
	if user.ID == "" {
		user.ID = strconv.FormatInt(cedula, 10)
	}

	session, err := s.sessions.Create(ctx, user, response.Data.Token)
	if err != nil {
		return nil, &LoginError{Message: defaultLoginError, Cause: err}
	}
	return session, nil
}

// Logout drops the session locally. The backend keeps no logout endpoint.
func (s *AuthService) Logout(ctx context.Context, session *models.Session) {
	if session == nil {
		return
	}
	s.sessions.Invalidate(ctx, session.ID)
	s.logger.WithField("user_id", session.User.ID).Info("User logged out")
}

// IsLoginError reports whether err should be rendered on the login form
func IsLoginError(err error) (*LoginError, bool) {
	var loginErr *LoginError
	if errors.As(err, &loginErr) {
		return loginErr, true
	}
	return nil, false
}

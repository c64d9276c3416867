package handlers

import (
	"errors"

	"github.com/fenilmodi00/planillas-dashboard/models"
	"github.com/fenilmodi00/planillas-dashboard/services"
	"github.com/fenilmodi00/planillas-dashboard/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const sessionLocalKey = "session"

// SessionMiddleware binds the session cookie to the server-side session
type SessionMiddleware struct {
	Sessions     *services.SessionManager
	CookieName   string
	CookieSecure bool
}

func NewSessionMiddleware(sessions *services.SessionManager, cfg shared.SessionConfig) *SessionMiddleware {
	return &SessionMiddleware{
		Sessions:     sessions,
		CookieName:   cfg.CookieName,
		CookieSecure: cfg.CookieSecure,
	}
}

// Current returns the live session behind the request cookie, or nil
func (m *SessionMiddleware) Current(c *fiber.Ctx) (*models.Session, error) {
	session, err := m.Sessions.Lookup(c.UserContext(), c.Cookies(m.CookieName))
	if errors.Is(err, services.ErrSessionNotFound) {
		return nil, nil
	}
	return session, err
}

// RequireSession lets the request through only with a live session
func (m *SessionMiddleware) RequireSession(c *fiber.Ctx) error {
	session, err := m.Current(c)
	if err != nil {
		return err
	}
	if session == nil {
		m.ClearCookie(c)
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	c.Locals(sessionLocalKey, session)
	return c.Next()
}

// RequireAdmin must run after RequireSession
func (m *SessionMiddleware) RequireAdmin(c *fiber.Ctx) error {
	session := CurrentSession(c)
	if session == nil || !session.User.IsAdmin {
		return c.Redirect("/home", fiber.StatusSeeOther)
	}
	return c.Next()
}

func (m *SessionMiddleware) SetCookie(c *fiber.Ctx, session *models.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     m.CookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		Secure:   m.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (m *SessionMiddleware) ClearCookie(c *fiber.Ctx) {
	c.ClearCookie(m.CookieName)
}

// CurrentSession returns the session stored by RequireSession
func CurrentSession(c *fiber.Ctx) *models.Session {
	session, _ := c.Locals(sessionLocalKey).(*models.Session)
	return session
}

// ErrorHandler turns a rejected backend token into a forced logout and
// anything else into the generic error page.
func ErrorHandler(views *Views, sessions *SessionMiddleware) fiber.ErrorHandler {
	logger := logrus.WithField("component", "ErrorHandler")

	return func(c *fiber.Ctx, err error) error {
		if errors.Is(err, services.ErrUnauthorized) {
			sessions.ClearCookie(c)
			return c.Redirect("/", fiber.StatusSeeOther)
		}

		status := fiber.StatusInternalServerError
		heading := "Error inesperado"
		message := "Ocurrió un error inesperado."

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
			if status == fiber.StatusNotFound {
				heading = "No encontrado"
				message = "La página solicitada no existe."
			}
		}

		if status >= fiber.StatusInternalServerError {
			logger.WithError(err).WithFields(logrus.Fields{
				"method": c.Method(),
				"path":   c.Path(),
			}).Error("Request failed")
		}

		page := Page{Title: heading, Data: fiber.Map{"Heading": heading, "Message": message}}
		if renderErr := views.Render(c, status, "error", page); renderErr != nil {
			logger.WithError(renderErr).Error("Failed to render error page")
			return c.Status(status).SendString(message)
		}
		return nil
	}
}

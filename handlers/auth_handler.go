package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/fenilmodi00/planillas-dashboard/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// LoginForm is the validated login input
type LoginForm struct {
	Cedula   int64  `validate:"gt=0"`
	Password string `validate:"required"`
}

var loginMessages = map[string]string{
	"Cedula":   "Ingrese una cédula válida",
	"Password": "Contraseña es requerida",
}

type LoginView struct {
	Cedula      string
	Error       string
	FieldErrors map[string]string
}

type AuthHandler struct {
	Auth     *services.AuthService
	Sessions *SessionMiddleware
	Views    *Views
	validate *validator.Validate
}

func NewAuthHandler(auth *services.AuthService, sessions *SessionMiddleware, views *Views, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		Auth:     auth,
		Sessions: sessions,
		Views:    views,
		validate: validate,
	}
}

// ShowLogin renders the login page, or sends a signed-in user to the table
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	session, err := h.Sessions.Current(c)
	if err != nil {
		return err
	}
	if session != nil {
		return c.Redirect("/home", fiber.StatusSeeOther)
	}
	return h.renderLogin(c, fiber.StatusOK, LoginView{})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	rawCedula := strings.TrimSpace(c.FormValue("cedula"))
	form := LoginForm{Password: c.FormValue("password")}
	if cedula, err := strconv.ParseInt(rawCedula, 10, 64); err == nil {
		form.Cedula = cedula
	}

	view := LoginView{Cedula: rawCedula}
	if fieldErrors := h.validateForm(form); len(fieldErrors) > 0 {
		view.FieldErrors = fieldErrors
		return h.renderLogin(c, fiber.StatusUnprocessableEntity, view)
	}

	session, err := h.Auth.Login(c.UserContext(), form.Cedula, form.Password)
	if err != nil {
		if loginErr, ok := services.IsLoginError(err); ok {
			view.Error = loginErr.Message
			return h.renderLogin(c, fiber.StatusUnauthorized, view)
		}
		return err
	}

	h.Sessions.SetCookie(c, session)
	return c.Redirect("/home", fiber.StatusSeeOther)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	session, err := h.Sessions.Current(c)
	if err != nil {
		logrus.WithError(err).Warn("Session lookup failed during logout")
	}

	h.Auth.Logout(c.UserContext(), session)
	h.Sessions.ClearCookie(c)
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *AuthHandler) validateForm(form LoginForm) map[string]string {
	err := h.validate.Struct(form)
	if err == nil {
		return nil
	}

	fieldErrors := map[string]string{}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldErr := range validationErrors {
			fieldErrors[strings.ToLower(fieldErr.Field())] = loginMessages[fieldErr.Field()]
		}
	}
	return fieldErrors
}

func (h *AuthHandler) renderLogin(c *fiber.Ctx, status int, view LoginView) error {
	return h.Views.Render(c, status, "login", Page{Title: "Iniciar sesión", Data: view})
}

package auth

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

const (
	// AccessTokenCookie is the cookie carrying the access token.
	AccessTokenCookie = "accessToken"
	// RefreshTokenCookie is the cookie carrying the refresh token.
	RefreshTokenCookie = "refreshToken"
)

// RegisterRequest is the register payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 0)),
	)
}

// ActivateRequest is the activation payload.
type ActivateRequest struct {
	ActivationToken string `json:"activationToken"`
	ActivationCode  string `json:"activationCode"`
}

func (r ActivateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ActivationToken, validation.Required),
		validation.Field(&r.ActivationCode, validation.Required, validation.Length(4, 4), is.Digit),
	)
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// AuthController exposes the engine as a JSON API: a uniform
// {success, message} envelope, 201 on register/activate, 200 on
// login/logout, 400 on any validation/credential/activation failure, 500
// only for storage and other infrastructure faults.
type AuthController struct {
	Accounts     *Accounts
	Issuer       *SessionIssuer
	Logger       Logger
	CookieSecure bool
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// WithSecureCookies marks session cookies Secure, for production deploys
// behind TLS.
func WithSecureCookies(secure bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.CookieSecure = secure
		return c
	}
}

// NewAuthController builds a controller around the orchestrator and issuer.
func NewAuthController(accounts *Accounts, issuer *SessionIssuer, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Accounts: accounts,
		Issuer:   issuer,
		Logger:   defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}
	return c
}

// RegisterAuthRoutes mounts the auth API under /api/v1 plus the health and
// catch-all routes.
func RegisterAuthRoutes(app *fiber.App, controller *AuthController) {
	app.Post("/api/v1/register", controller.Register)
	app.Post("/api/v1/activate", controller.Activate)
	app.Post("/api/v1/login", controller.Login)
	app.Get("/api/v1/logout", controller.Logout)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"message": "Hello World",
		})
	})

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": fmt.Sprintf("Can't find %s on this server!", c.OriginalURL()),
		})
	})
}

func (h *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return h.invalidData(c)
	}
	if err := req.Validate(); err != nil {
		return h.invalidData(c)
	}

	token, err := h.Accounts.Register(c.Context(), PendingRegistration{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":         true,
		"message":         "Account activation email has been sent",
		"activationToken": token,
	})
}

func (h *AuthController) Activate(c *fiber.Ctx) error {
	var req ActivateRequest
	if err := c.BodyParser(&req); err != nil {
		return h.invalidData(c)
	}
	if err := req.Validate(); err != nil {
		return h.invalidData(c)
	}

	user, err := h.Accounts.Activate(c.Context(), req.ActivationToken, req.ActivationCode)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return h.invalidData(c)
	}
	if err := req.Validate(); err != nil {
		return h.invalidData(c)
	}

	user, tokens, err := h.Accounts.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return h.errorResponse(c, err)
	}

	h.setSessionCookie(c, AccessTokenCookie, tokens.AccessToken, h.Issuer.AccessTokenTTL())
	h.setSessionCookie(c, RefreshTokenCookie, tokens.RefreshToken, h.Issuer.RefreshTokenTTL())

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":     true,
		"user":        user,
		"accessToken": tokens.AccessToken,
	})
}

// Logout clears the session cookies. The cache snapshot is left in place;
// call Accounts.RevokeSession to drop it.
func (h *AuthController) Logout(c *fiber.Ctx) error {
	h.expireCookie(c, AccessTokenCookie)
	h.expireCookie(c, RefreshTokenCookie)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (h *AuthController) setSessionCookie(c *fiber.Ctx, name, value string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.CookieSecure,
	})
}

func (h *AuthController) expireCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.CookieSecure,
	})
}

func (h *AuthController) invalidData(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": ErrInvalidData.Message,
	})
}

// errorResponse maps domain errors onto the uniform envelope. Storage and
// connectivity faults are the only 500s; every enumerated domain failure is
// a 400.
func (h *AuthController) errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	message := err.Error()

	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		message = rich.Message
		if IsStorageError(err) {
			status = fiber.StatusInternalServerError
			message = "Internal server error"
		}
		h.Logger.Error("auth request failed [%s]: %v", rich.TextCode, err)
	} else {
		h.Logger.Error("auth request failed: %v", err)
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

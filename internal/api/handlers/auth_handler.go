package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/culture-explorer/backend/internal/identity"
	"github.com/culture-explorer/backend/internal/metrics"
	"github.com/culture-explorer/backend/internal/middleware/auth"
	"github.com/culture-explorer/backend/pkg/logger"
)

type AuthHandler struct {
	identity *identity.Store
	issuer   *auth.TokenIssuer
}

func NewAuthHandler(identityStore *identity.Store, issuer *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{
		identity: identityStore,
		issuer:   issuer,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Region   string `json:"region"`
		FullName string `json:"full_name"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Username == "" || req.Email == "" || req.Password == "" || req.Region == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Username, email, password and region are required",
		})
	}
	if len(req.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Password must be at least 6 characters long",
		})
	}

	err := h.identity.Register(req.Username, req.Email, req.Password, req.Region, req.FullName)
	if err != nil {
		if errors.Is(err, identity.ErrUsernameTaken) || errors.Is(err, identity.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		logger.Error("Registration failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Registration failed - please try again",
		})
	}

	metrics.UsersRegistered.Inc()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.identity.Authenticate(req.Username, req.Password)
	if err != nil {
		// Same body for unknown user and wrong password.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid username or password",
		})
	}

	token, err := h.issuer.Issue(user.Username)
	if err != nil {
		logger.Error("Failed to issue token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Login failed - please try again",
		})
	}

	return c.JSON(fiber.Map{
		"token":   token,
		"profile": publicProfile(user),
	})
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)

	user, ok := h.identity.Get(username)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}

	return c.JSON(publicProfile(user))
}

func publicProfile(user *identity.User) fiber.Map {
	return fiber.Map{
		"username":            user.Username,
		"email":               user.Email,
		"region":              user.Region,
		"full_name":           user.FullName,
		"registration_date":   user.RegistrationDate,
		"last_login":          user.LastLogin,
		"contributions_count": user.ContributionsCount,
		"role":                user.Role,
	}
}

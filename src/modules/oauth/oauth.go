// Package oauth implements the client-credentials token endpoint. Clients
// exchange their id/secret pair for a short-lived bearer token that carries
// the credential id; the auth middleware resolves it back to a tenant.
package oauth

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"quizservice/src/core/config"
	"quizservice/src/core/helpers"
	"quizservice/src/modules/clients"
)

const defaultExpiryMinutes = 60

type Handler struct {
	clients *clients.Service
}

func NewHandler(clientSvc *clients.Service) *Handler {
	return &Handler{clients: clientSvc}
}

type tokenRequest struct {
	GrantType    string `json:"grant_type" form:"grant_type" validate:"required"`
	ClientID     string `json:"client_id" form:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" form:"client_secret" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func expiryMinutes() int {
	minutes, err := strconv.Atoi(config.Config("ACCESS_TOKEN_EXPIRY_MINUTES"))
	if err != nil || minutes < 1 {
		return defaultExpiryMinutes
	}
	return minutes
}

// IssueToken signs a bearer token for an already authenticated credential id.
func IssueToken(credentialID string) (string, int, error) {
	expiresIn := expiryMinutes() * 60
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"client_id": credentialID,
		"iat":       now.Unix(),
		"exp":       now.Add(time.Duration(expiresIn) * time.Second).Unix(),
	})
	signed, err := token.SignedString([]byte(config.Config("JWT_SECRET")))
	if err != nil {
		return "", 0, err
	}
	return signed, expiresIn, nil
}

// Token handles POST /oauth/token for the client_credentials grant.
func (h *Handler) Token(c *fiber.Ctx) error {
	var req tokenRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := helpers.Validate(req); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest,
			"Missing 'grant_type', 'client_id' or 'client_secret'", err)
	}
	if req.GrantType != "client_credentials" {
		return helpers.HandleError(c, fiber.StatusBadRequest,
			"Unsupported grant type, only 'client_credentials' is accepted", nil)
	}

	_, err := h.clients.Authenticate(req.ClientID, req.ClientSecret)
	if err != nil {
		if err == clients.ErrInvalidCredentials || err == clients.ErrClientDisabled {
			return helpers.HandleError(c, fiber.StatusUnauthorized, err.Error(), nil)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to authenticate client", err)
	}

	signed, expiresIn, err := IssueToken(req.ClientID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to sign access token", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Access token issued", tokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	})
}

package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"quizservice/src/core/config"
	"quizservice/src/core/errs"
	"quizservice/src/core/helpers"
	"quizservice/src/modules/clients"
)

// Protected validates the bearer token and resolves the calling client to a
// tenant. Downstream handlers read the tenant id via helpers.TenantID.
func Protected(clientSvc *clients.Service) fiber.Handler {
	jwtSecret := config.Config("JWT_SECRET")
	if jwtSecret == "" {
		panic("JWT_SECRET is not set in the environment variables") // Panic to prevent startup
	}

	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(jwtSecret)},
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token := c.Locals("user").(*jwt.Token)
			claims := token.Claims.(jwt.MapClaims)
			credentialID, ok := claims["client_id"].(string)
			if !ok {
				return helpers.HandleDomainError(c, errs.NewInvalidOrExpiredToken())
			}

			client, err := clientSvc.ResolveTenant(credentialID)
			if err != nil {
				return helpers.HandleDomainError(c, err)
			}
			c.Locals("tenant_id", client.ID)
			return c.Next()
		},
	})
}

// jwtError handles JWT-related errors
func jwtError(c *fiber.Ctx, err error) error {
	return helpers.HandleDomainError(c, errs.NewInvalidOrExpiredToken())
}

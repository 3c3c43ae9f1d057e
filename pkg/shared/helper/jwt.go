package helper

import (
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"

	"kriyatec.com/medstore-api/pkg/shared/config"
)

// GenerateJWTToken - Generate JWT Token
func GenerateJWTToken(claims jwt.MapClaims, expiryDays time.Duration) string {
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(time.Hour * expiryDays * 24).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, _ := token.SignedString(getSignedKey())
	return s
}

// GetUserTokenValue reads the caller identity from the validated token.
// Missing claims come back empty.
func GetUserTokenValue(c *fiber.Ctx) UserToken {
	claim := GetUserClaims(c)
	str := func(key string) string {
		v, _ := claim[key].(string)
		return v
	}
	return UserToken{
		UserId:   str("id"),
		UserRole: str("role"),
		OrgId:    str("uo_id"),
		OrgGroup: str("uo_group"),
	}
}

func GetUserClaims(c *fiber.Ctx) jwt.MapClaims {
	user, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	claims, _ := user.Claims.(jwt.MapClaims)
	return claims
}

// Protected protect routes
func JWTMiddleware() func(*fiber.Ctx) error {
	return jwtware.New(jwtware.Config{
		SigningKey:   getSignedKey(),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{"status": "error", "message": "Auth Token Missing", "data": nil})
	}
	c.Status(fiber.StatusUnauthorized)
	return c.JSON(fiber.Map{"status": "error", "message": "Request Unauthorized", "data": nil})
}

func GetNewJWTClaim() jwt.MapClaims {
	return jwt.MapClaims{}
}

func getSignedKey() []byte {
	return []byte(config.Get().JWT.Secret)
}

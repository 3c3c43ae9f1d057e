package helper

import (
	"github.com/gofiber/fiber/v2"
)

func CreateRouteGroup(app *fiber.App, path string, desc string) fiber.Router {
	r := app.Group(path)
	//without JWT Token validation (without auth)
	r.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(desc)
	})
	// JWT Middleware
	r.Use(JWTMiddleware())
	return r
}

// OrgId reads the tenant from the OrgId header.
func OrgId(c *fiber.Ctx) (string, error) {
	orgId := c.Get("OrgId")
	if orgId == "" || orgId == "null" {
		return "", BadRequest("Organization Id missing")
	}
	return orgId, nil
}

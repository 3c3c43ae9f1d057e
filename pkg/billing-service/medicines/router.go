package medicines

import (
	"github.com/gofiber/fiber/v2"

	"kriyatec.com/medstore-api/pkg/shared/helper"
)

func SetupRoutes(app *fiber.App, h *Handler) {
	r := helper.CreateRouteGroup(app, "/medicines", "Medicine APIs")
	r.Get("/all", h.list)
	r.Get("/expiry", h.expiry)
	r.Get("/dashboard/stats", h.dashboardStats)
	r.Get("/export", h.export)
	r.Post("/import", h.importSheet)
	r.Get("/:id", h.get)
	r.Post("/", h.create)
	r.Put("/:id", h.update)
	r.Patch("/:id/stock", h.adjustStock)
	r.Delete("/:id", h.remove)
}

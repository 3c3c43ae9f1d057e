package bills

import (
	"github.com/gofiber/fiber/v2"

	"kriyatec.com/medstore-api/pkg/shared/helper"
)

func SetupRoutes(app *fiber.App, h *Handler) {
	// share links are opened from SMS and printed QR codes, without a token
	app.Get("/s/:code", h.redirect)

	r := helper.CreateRouteGroup(app, "/bills", "Billing APIs")
	r.Post("/totals", h.totals)
	r.Get("/all", h.list)
	r.Get("/stats/sales", h.salesStats)
	r.Get("/export", h.exportRegister)
	r.Post("/", h.checkout)
	r.Get("/:billNo", h.get)
	r.Delete("/:billNo", h.remove)
	r.Get("/:billNo/invoice", h.invoiceDocument)
	r.Get("/:billNo/pdf", h.pdf)
	r.Post("/:billNo/export", h.export)
	r.Post("/:billNo/payment-link", h.paymentLink)
}

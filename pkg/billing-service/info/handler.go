package info

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"kriyatec.com/medstore-api/pkg/shared/helper"
	"kriyatec.com/medstore-api/pkg/shared/invoice"
)

type Profiles interface {
	Get(ctx context.Context, orgId string) (invoice.StoreProfile, error)
}

type Handler struct {
	Profiles Profiles
}

func (h *Handler) storeProfile(c *fiber.Ctx) error {
	orgId, err := helper.OrgId(c)
	if err != nil {
		return err
	}
	profile, err := h.Profiles.Get(c.UserContext(), orgId)
	if err != nil {
		return helper.Unexpected(err.Error())
	}
	c.Response().Header.Add("Cache-Control", "public, max-age=600")
	return helper.SuccessResponse(c, profile)
}

package dict

import (
	"party-find-backend/controllers"
	regionprovider "party-find-backend/lib/dicts/region"
	apimodels "party-find-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type regionDictApiController struct {
	controllers.BaseAPIController
}

func InitRegionDictApiRouters(app fiber.Router) {
	controller := regionDictApiController{}
	app.Get("region", controller.list)
}

// @Summary Regions
// @Tags Dictionary. Regions
// @Description Regions with their servers
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]dictapimodels.RegionView}
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/region [get]
func (c *regionDictApiController) list(ctx *fiber.Ctx) error {
	resp, err := regionprovider.Instance.List(ctx.UserContext())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error getting region dictionary")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

package dict

import (
	"party-find-backend/controllers"
	contentprovider "party-find-backend/lib/dicts/content"
	apimodels "party-find-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type contentDictApiController struct {
	controllers.BaseAPIController
}

func InitContentDictApiRouters(app fiber.Router) {
	controller := contentDictApiController{}
	app.Get("content", controller.list)
}

// @Summary Content tree
// @Tags Dictionary. Content
// @Description Content types with their tabs and stages
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]dictapimodels.ContentTypeView}
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/content [get]
func (c *contentDictApiController) list(ctx *fiber.Ctx) error {
	resp, err := contentprovider.Instance.List(ctx.UserContext())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error getting content dictionary")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

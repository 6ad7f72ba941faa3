package dict

import (
	"party-find-backend/controllers"
	"party-find-backend/models"
	apimodels "party-find-backend/models/api"
	dictapimodels "party-find-backend/models/api/dict"

	"github.com/gofiber/fiber/v2"
)

type jobDictApiController struct {
	controllers.BaseAPIController
}

func InitJobDictApiRouters(app fiber.Router) {
	controller := jobDictApiController{}
	app.Get("job", controller.list)
}

// @Summary Jobs
// @Tags Dictionary. Jobs
// @Description Jobs with their SUPPORT/DPS partition
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]dictapimodels.JobView}
// @Failure 401
// @router /api/v1/dict/job [get]
func (c *jobDictApiController) list(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(dictapimodels.JobListConvert(models.AllJobs)))
}

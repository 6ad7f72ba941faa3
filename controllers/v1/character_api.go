package apiv1

import (
	"party-find-backend/controllers"
	characterhandler "party-find-backend/lib/character"
	"party-find-backend/middleware"
	apimodels "party-find-backend/models/api"
	characterapimodels "party-find-backend/models/api/character"

	"github.com/gofiber/fiber/v2"
)

type characterApiController struct {
	controllers.BaseAPIController
}

func InitCharacterApiRouters(app fiber.Router) {
	controller := characterApiController{}
	app.Route("character", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired(), middleware.AccessTokenRequired())

		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
		})
	})
}

// @Summary Roster
// @Tags Characters
// @Description Characters of the current user
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]characterapimodels.CharacterView}
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/character [get]
func (c *characterApiController) list(ctx *fiber.Ctx) error {
	resp, err := characterhandler.Instance.List(ctx.UserContext(), middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error getting characters")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Add character
// @Tags Characters
// @Description Add character
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 characterapimodels.CharacterData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/character [post]
func (c *characterApiController) create(ctx *fiber.Ctx) error {
	var payload characterapimodels.CharacterData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	id, err := characterhandler.Instance.Create(ctx.UserContext(), middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error creating character")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Update character
// @Tags Characters
// @Description Update character
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "character ID"
// @Param	body body	 characterapimodels.CharacterData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/character/{id} [put]
func (c *characterApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}

	var payload characterapimodels.CharacterData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}

	if err = payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	hMsg, err := characterhandler.Instance.Update(ctx.UserContext(), middleware.GetUserID(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error updating character")
	}
	if hMsg != "" {
		return c.SendCode(ctx, hMsg)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Delete character
// @Tags Characters
// @Description Fails with characterHasOpenPost while the character holds a slot in a post that has not started
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "character ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/character/{id} [delete]
func (c *characterApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}

	hMsg, err := characterhandler.Instance.Delete(ctx.UserContext(), middleware.GetUserID(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error deleting character")
	}
	if hMsg != "" {
		return c.SendCode(ctx, hMsg)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

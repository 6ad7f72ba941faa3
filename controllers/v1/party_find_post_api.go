package apiv1

import (
	"context"
	"fmt"
	"party-find-backend/controllers"
	xlsexport "party-find-backend/lib/export/xls"
	partyfindhandler "party-find-backend/lib/party-find"
	partyfindlisting "party-find-backend/lib/party-find/listing"
	"party-find-backend/middleware"
	"party-find-backend/models"
	apimodels "party-find-backend/models/api"
	partyfindapimodels "party-find-backend/models/api/partyfind"

	"github.com/gofiber/fiber/v2"
)

type partyFindPostApiController struct {
	controllers.BaseAPIController
}

func InitPartyFindPostApiRouters(app fiber.Router) {
	controller := partyFindPostApiController{}
	app.Route("party-find-post", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired(), middleware.AccessTokenRequired())

		router.Post("add", controller.create)
		router.Post("filter", controller.filter)
		router.Post("my", controller.authored)
		router.Post("applied", controller.applied)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Get("export", controller.export)
			idRoute.Post("edit", controller.edit)
			idRoute.Post("delete", controller.delete)
			idRoute.Post("renew", controller.renew)
			idRoute.Post("apply", controller.apply)
			idRoute.Post("approve", controller.approve)
			idRoute.Post("deny", controller.deny)
			idRoute.Post("kick", controller.kick)
			idRoute.Post("withdraw", controller.withdraw)
		})
	})
}

// @Summary Create post
// @Tags Party find
// @Description The author's character takes the author slot. Start is local date-time in time_zone
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 partyfindapimodels.PostData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/party-find-post/add [post]
func (c *partyFindPostApiController) create(ctx *fiber.Ctx) error {
	var payload partyfindapimodels.PostData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	id, hMsg, err := partyfindhandler.Instance.Create(ctx.UserContext(), middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error creating post")
	}
	if hMsg != "" {
		return c.SendCode(ctx, hMsg)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Listing
// @Tags Party find
// @Description Open posts starting in the future, ordered by start time
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 partyfindapimodels.PostFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]partyfindapimodels.PostView}
// @Failure 400 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/party-find-post/filter [post]
func (c *partyFindPostApiController) filter(ctx *fiber.Ctx) error {
	return c.list(ctx, partyfindlisting.Instance.Filter)
}

// @Summary Authored posts
// @Tags Party find
// @Description Posts of the current user, expired ones included
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 partyfindapimodels.PostFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]partyfindapimodels.PostView}
// @Failure 400 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/party-find-post/my [post]
func (c *partyFindPostApiController) authored(ctx *fiber.Ctx) error {
	return c.list(ctx, partyfindlisting.Instance.Authored)
}

// @Summary Applied posts
// @Tags Party find
// @Description Posts where the current user has a waiting or approved application
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 partyfindapimodels.PostFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]partyfindapimodels.PostView}
// @Failure 400 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/party-find-post/applied [post]
func (c *partyFindPostApiController) applied(ctx *fiber.Ctx) error {
	return c.list(ctx, partyfindlisting.Instance.Applied)
}

type listFunc func(ctx context.Context, userID string, filter partyfindapimodels.PostFilter) ([]partyfindapimodels.PostView, int64, error)

func (c *partyFindPostApiController) list(ctx *fiber.Ctx, fn listFunc) error {
	var payload partyfindapimodels.PostFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	list, rowCount, err := fn(ctx.UserContext(), middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error getting posts")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Get post
// @Tags Party find
// @Description Post with slots. The waitlist is returned to the author only
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "post ID"
// @Success 200 {object} apimodels.Response{data=partyfindapimodels.PostView}
// @Failure 404 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/party-find-post/{id} [get]
func (c *partyFindPostApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}

	resp, hMsg, err := partyfindlisting.Instance.Get(ctx.UserContext(), middleware.GetUserID(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error getting post")
	}
	if hMsg != "" {
		return c.SendCode(ctx, hMsg)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Export roster
// @Tags Party find
// @Description Slots and waitlist as an xlsx workbook, author only
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "post ID"
// @Success 200 {file} file
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/party-find-post/{id}/export [get]
func (c *partyFindPostApiController) export(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}

	view, hMsg, err := partyfindlisting.Instance.Get(ctx.UserContext(), middleware.GetUserID(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error getting post")
	}
	if hMsg != "" {
		return c.SendCode(ctx, hMsg)
	}
	if !view.IsAuthor {
		return c.SendCode(ctx, models.ErrNotAuthor)
	}
	buf, err := xlsexport.Instance.ExportRoster(*view)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error exporting roster")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=\"roster_%s.xlsx\"", view.ID))
	return ctx.SendStream(buf, buf.Len())
}

// @Summary Edit post
// @Tags Party find
// @Description Author only. Changing stage, role enforcement or character rebuilds the slots and needs no other live applicants
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "post ID"
// @Param	body body	 partyfindapimodels.PostData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/party-find-post/{id}/edit [post]
func (c *partyFindPostApiController) edit(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}

	var payload partyfindapimodels.PostData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}

	if err = payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	hMsg, err := partyfindhandler.Instance.Edit(ctx.UserContext(), middleware.GetUserID(ctx), id, payload)
	return c.mutationResult(ctx, hMsg, err, "error editing post")
}

// @Summary Delete post
// @Tags Party find
// @Description Author only. Removes slots and applications
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "post ID"
// @Success 200 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/party-find-post/{id}/delete [post]
func (c *partyFindPostApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}

	hMsg, err := partyfindhandler.Instance.Delete(ctx.UserContext(), middleware.GetUserID(ctx), id)
	return c.mutationResult(ctx, hMsg, err, "error deleting post")
}

// @Summary Renew post
// @Tags Party find
// @Description Author only. Moves an expired recurring post forward by whole weeks
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "post ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/party-find-post/{id}/renew [post]
func (c *partyFindPostApiController) renew(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}

	hMsg, err := partyfindhandler.Instance.Renew(ctx.UserContext(), middleware.GetUserID(ctx), id)
	return c.mutationResult(ctx, hMsg, err, "error renewing post")
}

// @Summary Apply
// @Tags Party find
// @Description Puts a character of the current user on the waitlist
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "post ID"
// @Param	body body	 partyfindapimodels.ApplyRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/party-find-post/{id}/apply [post]
func (c *partyFindPostApiController) apply(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}

	var payload partyfindapimodels.ApplyRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}

	if err = payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	applyID, hMsg, err := partyfindhandler.Instance.Apply(ctx.UserContext(), middleware.GetUserID(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error applying to post")
	}
	if hMsg != "" {
		return c.SendCode(ctx, hMsg)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(applyID))
}

// @Summary Approve
// @Tags Party find
// @Description Author only. Seats a waiting application in an open slot
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "post ID"
// @Param	body body	 partyfindapimodels.ApproveRequest	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/party-find-post/{id}/approve [post]
func (c *partyFindPostApiController) approve(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}

	var payload partyfindapimodels.ApproveRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}

	if err = payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	hMsg, err := partyfindhandler.Instance.Approve(ctx.UserContext(), middleware.GetUserID(ctx), id, payload)
	return c.mutationResult(ctx, hMsg, err, "error approving application")
}

// @Summary Deny
// @Tags Party find
// @Description Author only. Rejects a waiting application
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "post ID"
// @Param	body body	 partyfindapimodels.DenyRequest	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/party-find-post/{id}/deny [post]
func (c *partyFindPostApiController) deny(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}

	var payload partyfindapimodels.DenyRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}

	if err = payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	hMsg, err := partyfindhandler.Instance.Deny(ctx.UserContext(), middleware.GetUserID(ctx), id, payload)
	return c.mutationResult(ctx, hMsg, err, "error denying application")
}

// @Summary Kick
// @Tags Party find
// @Description Author only. Vacates an occupied slot
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "post ID"
// @Param	body body	 partyfindapimodels.KickRequest	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/party-find-post/{id}/kick [post]
func (c *partyFindPostApiController) kick(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}

	var payload partyfindapimodels.KickRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}

	if err = payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	hMsg, err := partyfindhandler.Instance.Kick(ctx.UserContext(), middleware.GetUserID(ctx), id, payload)
	return c.mutationResult(ctx, hMsg, err, "error kicking from slot")
}

// @Summary Withdraw
// @Tags Party find
// @Description Drops the current user's live application of the character
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "post ID"
// @Param	body body	 partyfindapimodels.WithdrawRequest	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/party-find-post/{id}/withdraw [post]
func (c *partyFindPostApiController) withdraw(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendBadRequest(ctx, err)
	}

	var payload partyfindapimodels.WithdrawRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return c.SendBadRequest(ctx, err)
	}

	if err = payload.Validate(); err != nil {
		return c.SendBadRequest(ctx, err)
	}
	hMsg, err := partyfindhandler.Instance.Withdraw(ctx.UserContext(), middleware.GetUserID(ctx), id, payload)
	return c.mutationResult(ctx, hMsg, err, "error withdrawing application")
}

func (c *partyFindPostApiController) mutationResult(ctx *fiber.Ctx, hMsg models.ErrorCode, err error, errMsg string) error {
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, errMsg)
	}
	if hMsg != "" {
		return c.SendCode(ctx, hMsg)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

package conversion

import (
	"time"

	"github.com/amirasaad/fxconvert/pkg/domain"
	"github.com/amirasaad/fxconvert/pkg/history"
	"github.com/amirasaad/fxconvert/pkg/service/exchange"
	"github.com/amirasaad/fxconvert/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const sessionStartedKey = "started_at"

// Routes registers the conversion and history endpoints.
func Routes(
	app *fiber.App,
	exchangeSvc *exchange.Service,
	sessions *session.Store,
	histories *history.Store,
) {
	group := app.Group("/api/conversions")
	group.Post("/", Convert(exchangeSvc, sessions, histories))
	group.Get("/history", GetHistory(exchangeSvc, sessions, histories))
	group.Delete("/history", ClearHistory(sessions, histories))
}

// Convert returns a Fiber handler that converts an amount and records it in
// the caller's session history.
// @Summary Convert an amount
// @Description Convert amount from base to target at the current rate. Successful conversions are added to the session history.
// @Tags conversions
// @Accept json
// @Produce json
// @Param request body ConvertRequest true "Conversion request"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Failure 429 {object} common.ProblemDetails
// @Failure 502 {object} common.ProblemDetails
// @Router /api/conversions [post]
func Convert(
	exchangeSvc *exchange.Service,
	sessions *session.Store,
	histories *history.Store,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[ConvertRequest](c)
		if input == nil {
			return err
		}

		id, err := sessionID(c, sessions)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to load session", err)
		}

		res, err := exchangeSvc.Convert(c.UserContext(), histories.Get(id), input.ToServiceRequest())
		if err != nil {
			return common.ProblemDetailsJSON(c, domain.UserMessage(err), err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Conversion completed successfully", ToConversionResponse(res))
	}
}

// GetHistory returns a Fiber handler listing the session's recent conversions.
// @Summary Conversion history
// @Description Get the most recent conversions of the current session, newest first
// @Tags conversions
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/conversions/history [get]
func GetHistory(
	exchangeSvc *exchange.Service,
	sessions *session.Store,
	histories *history.Store,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp := HistoryResponse{Limit: histories.Limit()}
		sess, err := sessions.Get(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to load session", err)
		}
		if !sess.Fresh() {
			if log, ok := histories.Peek(sess.ID()); ok {
				resp.Entries = exchangeSvc.History(log)
			}
		}
		if resp.Entries == nil {
			resp.Entries = []domain.ConversionRecord{}
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "History fetched successfully", resp)
	}
}

// ClearHistory returns a Fiber handler that ends the session and its history.
// @Summary Clear conversion history
// @Description End the current session and drop its conversion history
// @Tags conversions
// @Success 204
// @Router /api/conversions/history [delete]
func ClearHistory(sessions *session.Store, histories *history.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessions.Get(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to load session", err)
		}
		histories.Delete(sess.ID())
		if err := sess.Destroy(); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to end session", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// sessionID returns the caller's session ID, starting a session and setting
// the cookie when there is none.
func sessionID(c *fiber.Ctx, sessions *session.Store) (string, error) {
	sess, err := sessions.Get(c)
	if err != nil {
		return "", err
	}
	id := sess.ID()
	if sess.Fresh() {
		sess.Set(sessionStartedKey, time.Now().Unix())
	}
	// Save sets the cookie and releases sess
	if err := sess.Save(); err != nil {
		return "", err
	}
	return id, nil
}

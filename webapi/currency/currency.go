package currency

import (
	"github.com/amirasaad/fxconvert/pkg/currency"
	"github.com/amirasaad/fxconvert/pkg/domain"
	"github.com/amirasaad/fxconvert/pkg/service/exchange"
	"github.com/amirasaad/fxconvert/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the currency list and rate lookup endpoints.
func Routes(app *fiber.App, exchangeSvc *exchange.Service) {
	app.Get("/api/currencies", ListCurrencies())
	app.Get("/api/rates/:base/:target", GetRate(exchangeSvc))
}

// ListCurrencies returns a Fiber handler for listing the supported currencies.
// @Summary List currencies
// @Description Get the supported currencies, the popular comparison list and form defaults
// @Tags currencies
// @Produce json
// @Success 200 {object} common.Response
// @Failure 429 {object} common.ProblemDetails
// @Router /api/currencies [get]
func ListCurrencies() fiber.Handler {
	resp := newCurrenciesResponse()
	return func(c *fiber.Ctx) error {
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Currencies fetched successfully", resp)
	}
}

// GetRate returns a Fiber handler for a single exchange rate lookup.
// @Summary Get exchange rate
// @Description Get the current rate from base to target
// @Tags rates
// @Produce json
// @Param base path string true "Base currency code (e.g., USD)"
// @Param target path string true "Target currency code (e.g., EUR)"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Failure 502 {object} common.ProblemDetails
// @Router /api/rates/{base}/{target} [get]
func GetRate(exchangeSvc *exchange.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		base, err := currency.Parse(c.Params("base"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid base currency", err)
		}
		target, err := currency.Parse(c.Params("target"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid target currency", err)
		}

		rate, err := exchangeSvc.GetExchangeRate(c.UserContext(), base, target)
		if err != nil {
			return common.ProblemDetailsJSON(c, domain.UserMessage(err), err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Exchange rate fetched successfully", ToRateResponse(rate))
	}
}

package conversion

import (
	"strconv"

	"github.com/amirasaad/fxconvert/pkg/currency"
	"github.com/amirasaad/fxconvert/pkg/domain"
	"github.com/amirasaad/fxconvert/pkg/money"
	"github.com/amirasaad/fxconvert/pkg/service/exchange"
)

// LastUpdatedLayout formats the time shown next to a conversion.
const LastUpdatedLayout = "2006-01-02 15:04:05"

// ConvertRequest is the body of POST /api/conversions.
type ConvertRequest struct {
	Base   string  `json:"base" validate:"required,len=3,uppercase,currency"`
	Target string  `json:"target" validate:"required,len=3,uppercase,currency"`
	Amount float64 `json:"amount" validate:"required,gte=0.01"`
}

// ToServiceRequest converts the validated body to a service request.
func (r *ConvertRequest) ToServiceRequest() exchange.Request {
	return exchange.Request{
		Base:   currency.Code(r.Base),
		Target: currency.Code(r.Target),
		Amount: r.Amount,
	}
}

// PopularRateResponse is one comparison rate, shown with three decimals.
type PopularRateResponse struct {
	Currency currency.Code `json:"currency"`
	Rate     string        `json:"rate"`
}

// ConversionResponse carries both display strings and raw values.
type ConversionResponse struct {
	Base           currency.Code           `json:"base"`
	Target         currency.Code           `json:"target"`
	Amount         string                  `json:"amount"`
	Converted      string                  `json:"converted"`
	Rate           string                  `json:"rate"`
	AmountValue    float64                 `json:"amount_value"`
	ConvertedValue float64                 `json:"converted_value"`
	RateValue      float64                 `json:"rate_value"`
	LastUpdated    string                  `json:"last_updated"`
	Popular        []PopularRateResponse   `json:"popular"`
	Record         domain.ConversionRecord `json:"record"`
}

// ToConversionResponse formats a service result.
func ToConversionResponse(res *exchange.Result) *ConversionResponse {
	popular := make([]PopularRateResponse, 0, len(res.Popular))
	for _, p := range res.Popular {
		popular = append(popular, PopularRateResponse{
			Currency: p.Currency,
			Rate:     strconv.FormatFloat(p.Rate, 'f', 3, 64),
		})
	}
	return &ConversionResponse{
		Base:           res.Base,
		Target:         res.Target,
		Amount:         money.FormatGrouped(res.Amount, money.Places),
		Converted:      money.FormatGrouped(res.Converted, money.Places),
		Rate:           res.Rate.Display(),
		AmountValue:    res.Amount,
		ConvertedValue: res.Converted,
		RateValue:      res.Rate.Rate,
		LastUpdated:    res.Timestamp.Format(LastUpdatedLayout),
		Popular:        popular,
		Record:         res.Record,
	}
}

// HistoryResponse lists a session's conversions, newest first.
type HistoryResponse struct {
	Entries []domain.ConversionRecord `json:"entries"`
	Limit   int                       `json:"limit"`
}

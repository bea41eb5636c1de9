package handler

import (
	"encoding/json"
	"eurofx/internal/domain"
	"net/http"

	"github.com/sirupsen/logrus"
)

type ConversionResponse struct {
	CurrencyCode    string      `json:"currency_code" example:"USD"`
	Date            string      `json:"date" example:"2024-01-02"`
	OriginalAmount  json.Number `json:"original_amount" swaggertype:"number" example:"100"`
	Rate            json.Number `json:"rate" swaggertype:"number" example:"1.1"`
	ConvertedAmount json.Number `json:"converted_amount" swaggertype:"number" example:"90.91"`
}

// ConvertToEuro godoc
// @Summary Convert to EUR
// @Description Convert an amount of a currency into EUR using the rate published on a date
// @Tags Rates
// @Produce json
// @Param currency query string true "Currency code"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param amount query number true "Amount"
// @Success 200 {object} ConversionResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 503 {object} errorResponse "refresh in progress"
// @Router /currency-exchange-euro [get]
func (h *Handler) ConvertToEuro(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	code, err := h.validator.ParseCurrency(q.Get("currency"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	date, err := h.validator.ParseDate(q.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := h.validator.ParseAmount(q.Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.rates.Convert(r.Context(), code, date, amount)
	if err != nil {
		writeServiceError(w, err, "ups, couldn't convert amount this time",
			logrus.Fields{"handler": "ConvertToEuro", "currency": code, "date": date.Format(domain.DateLayout)})
		return
	}

	writeJSON(w, http.StatusOK, ConversionResponse{
		CurrencyCode:    conv.CurrencyCode,
		Date:            conv.Date.Format(domain.DateLayout),
		OriginalAmount:  number(conv.OriginalAmount),
		Rate:            number(conv.Rate),
		ConvertedAmount: number(conv.ConvertedAmount),
	})
}

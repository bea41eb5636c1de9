package handler

import (
	"encoding/json"
	"eurofx/internal/domain"
	"net/http"

	"github.com/sirupsen/logrus"
)

type RateResponse struct {
	CurrencyCode string      `json:"currency_code" example:"USD"`
	Rate         json.Number `json:"rate" swaggertype:"number" example:"1.1036"`
}

type RatesOnDateResponse struct {
	Date         string         `json:"date" example:"2024-01-02"`
	BaseCurrency string         `json:"base_currency" example:"EUR"`
	Rates        []RateResponse `json:"rates"`
}

// GetRatesOnDate godoc
// @Summary Get rates on date
// @Description Retrieve all EUR reference rates published on a date
// @Tags Rates
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} RatesOnDateResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Failure 503 {object} errorResponse "refresh in progress"
// @Router /fx-exchange [get]
func (h *Handler) GetRatesOnDate(w http.ResponseWriter, r *http.Request) {
	date, err := h.validator.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rates, err := h.rates.GetRatesOnDate(r.Context(), date)
	if err != nil {
		writeServiceError(w, err, "ups, couldn't get rates on date this time",
			logrus.Fields{"handler": "GetRatesOnDate", "date": date.Format(domain.DateLayout)})
		return
	}

	res := RatesOnDateResponse{
		Date:         date.Format(domain.DateLayout),
		BaseCurrency: domain.BaseCurrency,
		Rates:        make([]RateResponse, 0, len(rates)),
	}
	for _, rt := range rates {
		res.Rates = append(res.Rates, RateResponse{CurrencyCode: rt.CurrencyCode, Rate: number(rt.Value)})
	}
	writeJSON(w, http.StatusOK, res)
}

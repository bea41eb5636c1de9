package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

type CurrencyResponse struct {
	Code string `json:"code" example:"USD"`
	Name string `json:"name" example:"US dollar"`
}

// GetCurrencies godoc
// @Summary List currencies
// @Description Retrieve all currencies quoted against EUR
// @Tags Currencies
// @Produce json
// @Success 200 {array} CurrencyResponse
// @Failure 502 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /currencies [get]
func (h *Handler) GetCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.currencies.ListCurrencies(r.Context())
	if err != nil {
		writeServiceError(w, err, "ups, couldn't get currencies this time", logrus.Fields{"handler": "GetCurrencies"})
		return
	}

	res := make([]CurrencyResponse, 0, len(currencies))
	for _, c := range currencies {
		res = append(res, CurrencyResponse{Code: c.Code, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, res)
}

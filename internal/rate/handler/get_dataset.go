package handler

import (
	"encoding/json"
	"eurofx/internal/domain"
	"net/http"

	"github.com/sirupsen/logrus"
)

type DatasetItemResponse struct {
	CurrencyCode string      `json:"currency_code" example:"USD"`
	BaseCurrency string      `json:"base_currency" example:"EUR"`
	Date         string      `json:"date" example:"2024-01-02"`
	Rate         json.Number `json:"rate" swaggertype:"number" example:"1.1036"`
}

type DatasetResponse struct {
	Items      []DatasetItemResponse `json:"items"`
	Page       int                   `json:"page" example:"0"`
	Size       int                   `json:"size" example:"200"`
	TotalItems int64                 `json:"total_items" example:"1234"`
	TotalPages int                   `json:"total_pages" example:"7"`
}

// GetDataset godoc
// @Summary List stored rates
// @Description Page through every stored rate ordered by date and currency
// @Tags Rates
// @Produce json
// @Param page query int false "Page number, starts at 0" default(0)
// @Param size query int false "Page size, 1..1000" default(200)
// @Success 200 {object} DatasetResponse
// @Failure 400 {object} errorResponse
// @Failure 503 {object} errorResponse "refresh in progress"
// @Router /fx-exchange-dataset [get]
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, size, err := h.validator.ParsePage(q.Get("page"), q.Get("size"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.rates.ListRates(r.Context(), page, size)
	if err != nil {
		writeServiceError(w, err, "ups, couldn't get rates page this time",
			logrus.Fields{"handler": "GetDataset", "page": page, "size": size})
		return
	}

	body := DatasetResponse{
		Items:      make([]DatasetItemResponse, 0, len(res.Items)),
		Page:       res.Page,
		Size:       res.Size,
		TotalItems: res.TotalItems,
		TotalPages: res.TotalPages,
	}
	for _, rt := range res.Items {
		body.Items = append(body.Items, DatasetItemResponse{
			CurrencyCode: rt.CurrencyCode,
			BaseCurrency: rt.BaseCurrency,
			Date:         rt.Date.Format(domain.DateLayout),
			Rate:         number(rt.Value),
		})
	}
	writeJSON(w, http.StatusOK, body)
}

package api

import (
	_ "eurofx/docs"
	"eurofx/internal/rate/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	swagger "github.com/swaggo/http-swagger"
)

func NewRouter(rateHandler *handler.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/currencies", rateHandler.GetCurrencies)
		r.Get("/fx-exchange", rateHandler.GetRatesOnDate)
		r.Get("/currency-exchange-euro", rateHandler.ConvertToEuro)
		r.Get("/fx-exchange-dataset", rateHandler.GetDataset)
		r.Post("/refresh", rateHandler.StartRefresh)
		r.Get("/refresh/status", rateHandler.GetRefreshStatus)
	})
	return router
}

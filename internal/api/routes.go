package api

import (
	"net/http"

	"github.com/jlambert/stancewatch/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	ingestHandler := domain.Ingest.Handler()
	screeningHandler := domain.Screening.Handler()

	routes.Register(
		mux,
		ingestHandler.Routes(),
		ingestHandler.StatusRoutes(),
		screeningHandler.Routes(),
	)
}

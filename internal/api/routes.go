package api

import (
	"net/http"

	"github.com/vigil-audit/vigil/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Audits.Handler().Routes(),
	)
}

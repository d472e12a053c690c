package audits

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vigil-audit/vigil/pkg/handlers"
	"github.com/vigil-audit/vigil/pkg/routes"
)

// Handler provides HTTP endpoints for audit operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "audits"),
	}
}

// Routes returns the route group definition for audit endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/audits",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Run},
		},
	}
}

// Run accepts a JSON audit request, executes the pipeline synchronously, and
// returns the complete audit record.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	var cmd RunCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidURL)
		return
	}

	record, err := h.sys.Run(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, record)
}

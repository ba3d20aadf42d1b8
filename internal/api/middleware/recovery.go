package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mcoot/tetrisgame-go/internal/api/apierr"
	"github.com/mcoot/tetrisgame-go/internal/middleware"
)

// Recovery answers handler panics with the JSON internal error body
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, r *http.Request, recovered any) {
		middleware.SetRequestError(r.Context(), fmt.Errorf("panic: %v", recovered))
		apierr.WriteError(w, apierr.NewInternalError())
	})
}

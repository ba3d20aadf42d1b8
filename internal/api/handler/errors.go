package handler

import (
	"net/http"

	"github.com/mcoot/tetrisgame-go/internal/api/apierr"
	sharedmw "github.com/mcoot/tetrisgame-go/internal/middleware"
)

// writeError answers with the error's JSON body and attaches the cause to
// the request log line
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	sharedmw.SetRequestError(r.Context(), err)
	apierr.WriteError(w, err)
}

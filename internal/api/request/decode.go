package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mcoot/tetrisgame-go/internal/api/apierr"
)

// maxBodyBytes bounds every JSON request body; the largest is a register
// request of a few hundred bytes
const maxBodyBytes = 16 << 10

// Decode reads a JSON body into dst. With allowEmpty an absent body leaves
// dst at its zero value.
func Decode(r *http.Request, dst any, allowEmpty bool) error {
	if r.Body == nil || r.Body == http.NoBody {
		if allowEmpty {
			return nil
		}
		return apierr.NewInvalidRequestError("request body is required")
	}

	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) && allowEmpty:
		return nil
	case errors.Is(err, io.EOF):
		return apierr.NewInvalidRequestError("request body is required")
	default:
		return apierr.NewInvalidRequestError("invalid request body")
	}
}

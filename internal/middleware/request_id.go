package middleware

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/tetrisgame-go/internal/model"
)

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

type requestInfoKey struct{}

// requestInfo is shared by every handler in the chain, so values set by
// inner handlers are visible to the outer logger
type requestInfo struct {
	id string

	mu       sync.Mutex
	playerID model.PlayerID
	err      error
}

// RequestID tags every request with an ID, reusing the caller's header when
// present, and echoes it on the response
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestInfoKey{}, &requestInfo{id: id})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request ID stored by RequestID, or ""
func GetRequestID(ctx context.Context) string {
	if info := getInfo(ctx); info != nil {
		return info.id
	}
	return ""
}

// SetRequestPlayer records who made the request for the request log
func SetRequestPlayer(ctx context.Context, id model.PlayerID) {
	if info := getInfo(ctx); info != nil {
		info.mu.Lock()
		info.playerID = id
		info.mu.Unlock()
	}
}

// SetRequestError records why a request failed for the request log
func SetRequestError(ctx context.Context, err error) {
	if info := getInfo(ctx); info != nil {
		info.mu.Lock()
		info.err = err
		info.mu.Unlock()
	}
}

func requestDetails(ctx context.Context) (model.PlayerID, error) {
	info := getInfo(ctx)
	if info == nil {
		return "", nil
	}
	info.mu.Lock()
	defer info.mu.Unlock()
	return info.playerID, info.err
}

func getInfo(ctx context.Context) *requestInfo {
	info, _ := ctx.Value(requestInfoKey{}).(*requestInfo)
	return info
}

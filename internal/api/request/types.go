package request

import (
	"strconv"
	"time"

	"github.com/mcoot/tetrisgame-go/internal/api/apierr"
)

// MaxTickDelta bounds a manual tick. Anything longer is meaningless to the
// drop accumulator, which discards the excess.
const MaxTickDelta = time.Hour

// CreateGuestRequest is the request body for creating a guest player.
// An empty display name gets a generated one.
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// Validate checks the fields the auth service cannot default
func (r RegisterRequest) Validate() error {
	return requireCredentials(r.Username, r.Password)
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks both credentials are present
func (r LoginRequest) Validate() error {
	return requireCredentials(r.Username, r.Password)
}

// CommandRequest is the request body for sending input to a session
type CommandRequest struct {
	Command string `json:"command"`
}

// TickRequest is the request body for manually advancing a session.
// Non-positive deltas are rejected by the session manager.
type TickRequest struct {
	DeltaMS int64 `json:"delta_ms"`
}

// Validate caps the delta so it converts to a time.Duration without overflow
func (r TickRequest) Validate() error {
	if r.DeltaMS > MaxTickDelta.Milliseconds() {
		return apierr.NewInvalidDeltaError("delta_ms must be at most " + strconv.FormatInt(MaxTickDelta.Milliseconds(), 10))
	}
	return nil
}

// Delta returns the requested delta as a duration
func (r TickRequest) Delta() time.Duration {
	return time.Duration(r.DeltaMS) * time.Millisecond
}

func requireCredentials(username, password string) error {
	if username == "" {
		return apierr.NewInvalidRequestError("username is required")
	}
	if password == "" {
		return apierr.NewInvalidRequestError("password is required")
	}
	return nil
}

package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/wordchain-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidAction   = "INVALID_ACTION"
	CodeInvalidWord     = "INVALID_WORD"
	CodeTurnExpired     = "TURN_EXPIRED"
	CodeNotPlaying      = "NOT_PLAYING"
	CodeNotHost         = "NOT_HOST"
	CodeNotYourTurn     = "NOT_YOUR_TURN"
	CodeRoomFull        = "ROOM_FULL"
	CodeRoomNotFound    = "ROOM_NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeInternalError   = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// FromError returns the API error body for an error
func FromError(err error) APIError {
	return toHTTPError(err).apiError
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var wordErr *model.InvalidWordError
	if errors.As(err, &wordErr) {
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidWord, "Word is not allowed", string(wordErr.Reason)}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeRoomNotFound, Message: "Room not found"}}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{Code: CodeNotHost, Message: "Only the host can perform this action"}}
	case errors.Is(err, model.ErrNotPlayerTurn):
		return &httpError{http.StatusForbidden, APIError{Code: CodeNotYourTurn, Message: "Not your turn"}}
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusForbidden, APIError{Code: CodeRoomFull, Message: "Room is full"}}
	case errors.Is(err, model.ErrTurnExpired):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeTurnExpired, Message: "Turn time has expired"}}
	case errors.Is(err, model.ErrInvalidWord):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidWord, Message: "Word is not allowed"}}
	case errors.Is(err, model.ErrNotPlaying):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeNotPlaying, Message: "No round in progress"}}
	case errors.Is(err, model.ErrInvalidAction):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidAction, Message: err.Error()}}
	case errors.Is(err, model.ErrInvalidName):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: "Player name must not be empty"}}
	case errors.Is(err, model.ErrInvalidRequest):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: err.Error()}}
	case errors.Is(err, model.ErrVersionConflict):
		return &httpError{http.StatusConflict, APIError{Code: CodeConflict, Message: "Room is busy, try again"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}

package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordchain-go/internal/model"
)

func TestToHTTPError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"room not found", model.ErrRoomNotFound, http.StatusNotFound, CodeRoomNotFound},
		{"not host", model.ErrNotHost, http.StatusForbidden, CodeNotHost},
		{"not your turn", model.ErrNotPlayerTurn, http.StatusForbidden, CodeNotYourTurn},
		{"room full", model.ErrRoomFull, http.StatusForbidden, CodeRoomFull},
		{"turn expired", model.ErrTurnExpired, http.StatusBadRequest, CodeTurnExpired},
		{"not playing", model.ErrNotPlaying, http.StatusBadRequest, CodeNotPlaying},
		{"invalid action", fmt.Errorf("%w: fly", model.ErrInvalidAction), http.StatusBadRequest, CodeInvalidAction},
		{"invalid name", model.ErrInvalidName, http.StatusBadRequest, CodeInvalidRequest},
		{"invalid request", model.ErrInvalidRequest, http.StatusBadRequest, CodeInvalidRequest},
		{"conflict", model.ErrVersionConflict, http.StatusConflict, CodeConflict},
		{"wrapped not found", fmt.Errorf("load: %w", model.ErrRoomNotFound), http.StatusNotFound, CodeRoomNotFound},
		{"explicit invalid request", NewInvalidRequestError("bad"), http.StatusBadRequest, CodeInvalidRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he := toHTTPError(tt.err)
			assert.Equal(t, tt.status, he.status)
			assert.Equal(t, tt.code, he.apiError.Code)
		})
	}
}

func TestInvalidWordCarriesReason(t *testing.T) {
	err := model.NewInvalidWordError("가", model.RejectTooShort)

	body := FromError(err)
	assert.Equal(t, CodeInvalidWord, body.Code)
	assert.Equal(t, "TooShort", body.Reason)
	assert.Equal(t, http.StatusBadRequest, toHTTPError(err).status)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, model.NewInvalidWordError("나무", model.RejectChainMismatch))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, CodeInvalidWord, resp.Error.Code)
	assert.Equal(t, "ChainMismatch", resp.Error.Reason)
}

package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/usecase"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	one, two := tictactoe.DefaultPlayers()

	manager, err := usecase.NewSessionManager(logger, repository.NewMemorySessionRepository(0), one, two)
	require.NoError(t, err)

	return NewRouter(logger, manager)
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func createSession(t *testing.T, router http.Handler) *entity.Session {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var session entity.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))

	return &session
}

func TestPing(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/ping", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestSessionHandlers_Create(t *testing.T) {
	router := newTestRouter(t)

	t.Run("Empty body uses default players", func(t *testing.T) {
		session := createSession(t, router)

		assert.NotEmpty(t, session.ID)
		assert.Equal(t, "Subodh", session.Players[0].Name)
		assert.Equal(t, "Subodh's turn", session.Message)
	})

	t.Run("Custom players", func(t *testing.T) {
		body := `{"players":[{"name":"Ann","mark":"#"},{"name":"Bob","mark":"@"}]}`

		rec := doRequest(t, router, http.MethodPost, "/sessions", body)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"Ann's turn"`)
	})

	t.Run("Duplicate markers are rejected", func(t *testing.T) {
		body := `{"players":[{"name":"Ann","mark":"X"},{"name":"Bob","mark":"X"}]}`

		rec := doRequest(t, router, http.MethodPost, "/sessions", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Malformed body is rejected", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/sessions", `{"players":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSessionHandlers_PlayRound(t *testing.T) {
	router := newTestRouter(t)

	t.Run("Accepted and rejected moves", func(t *testing.T) {
		// Given: a new session
		session := createSession(t, router)
		target := "/sessions/" + session.ID + "/turns"

		// When: player one takes the center
		rec := doRequest(t, router, http.MethodPost, target, `{"row":1,"column":1}`)

		// Then: the move is accepted and player two is active
		require.Equal(t, http.StatusOK, rec.Code)

		var resp turnResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Moved)
		assert.Equal(t, "O", resp.Session.Board[1][1])
		assert.Equal(t, "Samit's turn", resp.Session.Message)

		// When: player two tries the same cell
		rec = doRequest(t, router, http.MethodPost, target, `{"row":1,"column":1}`)

		// Then: the move is refused without an error status
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Moved)
		assert.NotEmpty(t, resp.Reason)
		assert.Equal(t, 1, resp.Session.Active)
	})

	t.Run("Out of range", func(t *testing.T) {
		session := createSession(t, router)

		rec := doRequest(t, router, http.MethodPost, "/sessions/"+session.ID+"/turns", `{"row":3,"column":0}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Missing position", func(t *testing.T) {
		session := createSession(t, router)

		rec := doRequest(t, router, http.MethodPost, "/sessions/"+session.ID+"/turns", `{"row":1}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Unknown session", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/sessions/missing/turns", `{"row":0,"column":0}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Finished game", func(t *testing.T) {
		// Given: O wins on the main diagonal
		session := createSession(t, router)
		target := "/sessions/" + session.ID + "/turns"

		for _, body := range []string{
			`{"row":0,"column":0}`, `{"row":0,"column":1}`, `{"row":1,"column":1}`,
			`{"row":1,"column":0}`, `{"row":2,"column":2}`,
		} {
			require.Equal(t, http.StatusOK, doRequest(t, router, http.MethodPost, target, body).Code)
		}

		rec := doRequest(t, router, http.MethodGet, "/sessions/"+session.ID, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"Subodh Wins"`)

		// When: another move arrives
		rec = doRequest(t, router, http.MethodPost, target, `{"row":2,"column":0}`)

		// Then: it conflicts with the finished game
		assert.Equal(t, http.StatusConflict, rec.Code)

		// When: the round is reset
		rec = doRequest(t, router, http.MethodPost, "/sessions/"+session.ID+"/reset", "")

		// Then: play can continue
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"ongoing"`)
		assert.Equal(t, http.StatusOK, doRequest(t, router, http.MethodPost, target, `{"row":2,"column":0}`).Code)
	})
}

func TestSessionHandlers_Destroy(t *testing.T) {
	router := newTestRouter(t)
	session := createSession(t, router)

	rec := doRequest(t, router, http.MethodDelete, "/sessions/"+session.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/sessions/"+session.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/sessions/"+session.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

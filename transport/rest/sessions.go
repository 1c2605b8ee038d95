package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const maxBodyBytes = 1 << 12

var errMissingPosition = errors.New("row and column are required")

type sessionUseCase interface {
	Create(ctx context.Context, players ...entity.Player) (*entity.Session, error)
	Get(ctx context.Context, id string) (*entity.Session, error)
	PlayRound(ctx context.Context, id string, row, column int) (*entity.Session, bool, error)
	ResetRound(ctx context.Context, id string) (*entity.Session, error)
	Destroy(ctx context.Context, id string) error
}

type createRequest struct {
	Players []entity.Player `json:"players"`
}

type turnRequest struct {
	Row    *int `json:"row"`
	Column *int `json:"column"`
}

type turnResponse struct {
	Session *entity.Session `json:"session"`
	Moved   bool            `json:"moved"`
	Reason  string          `json:"reason,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type SessionHandlers struct {
	logger   *slog.Logger
	sessions sessionUseCase
}

func NewSessionHandlers(logger *slog.Logger, sessions sessionUseCase) *SessionHandlers {
	return &SessionHandlers{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
	}
}

// Create - opens a session; an empty body uses the configured default players.
func (that *SessionHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(w, r, &req); err != nil {
		that.writeError(w, "Create", fmt.Errorf("%w: %w", apperror.ErrInvalidPlayers, err))
		return
	}

	session, err := that.sessions.Create(r.Context(), req.Players...)
	if err != nil {
		that.writeError(w, "Create", err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (that *SessionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "Get", err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// PlayRound - a move on a claimed cell is answered with 200 and moved=false.
func (that *SessionHandlers) PlayRound(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if req.Row == nil || req.Column == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errMissingPosition.Error()})
		return
	}

	session, moved, err := that.sessions.PlayRound(r.Context(), chi.URLParam(r, "id"), *req.Row, *req.Column)
	if err != nil {
		that.writeError(w, "PlayRound", err)
		return
	}

	resp := turnResponse{Session: session, Moved: moved}
	if !moved {
		resp.Reason = apperror.ErrCellOccupied.Error()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (that *SessionHandlers) ResetRound(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessions.ResetRound(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "ResetRound", err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (that *SessionHandlers) Destroy(w http.ResponseWriter, r *http.Request) {
	if err := that.sessions.Destroy(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, "Destroy", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *SessionHandlers) writeError(w http.ResponseWriter, method string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
		writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrInvalidPlayers), errors.Is(err, apperror.ErrOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody - an empty body leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode request body: %w", err)
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}

package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
)

const (
	actionSessionNew   = "session:new"
	actionSessionGet   = "session:get"
	actionGameTurn     = "game:turn"
	actionGameReset    = "game:reset"
	actionSessionLeave = "session:leave"
	actionError        = "error"
)

func (that *Server) handleNewSession(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleNewSession", "connectionID", conn.id)

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return sendErrorResponse(conn, msg.Action, err.Error())
	}

	session, err := that.sessions.Create(ctx, payloadReq.Players...)
	if err != nil {
		log.Warn("failed to create session", "error", err)
		return sendErrorResponse(conn, msg.Action, clientError(err))
	}

	conn.sessions[session.ID] = struct{}{}

	log.Info("session opened", "sessionID", session.ID)

	return sendMessage(conn.bufrw.Writer, msg.Action, Payload{Session: session})
}

func (that *Server) handleGetSession(ctx context.Context, conn *connection, msg *Message) error {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return sendErrorResponse(conn, msg.Action, err.Error())
	}

	if payloadReq.SessionID == "" {
		return sendErrorResponse(conn, msg.Action, "session_id is required")
	}

	session, err := that.sessions.Get(ctx, payloadReq.SessionID)
	if err != nil {
		return sendErrorResponse(conn, msg.Action, clientError(err))
	}

	return sendMessage(conn.bufrw.Writer, msg.Action, Payload{Session: session})
}

func (that *Server) handleGameTurn(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleGameTurn", "connectionID", conn.id)

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return sendErrorResponse(conn, msg.Action, err.Error())
	}

	if payloadReq.SessionID == "" || payloadReq.Row == nil || payloadReq.Column == nil {
		return sendErrorResponse(conn, msg.Action, "session_id, row and column are required")
	}

	session, moved, err := that.sessions.PlayRound(ctx, payloadReq.SessionID, *payloadReq.Row, *payloadReq.Column)
	if err != nil {
		log.Debug("turn refused", "sessionID", payloadReq.SessionID, "error", err)
		return sendErrorResponse(conn, msg.Action, clientError(err))
	}

	payloadResp := Payload{Session: session, Moved: &moved}
	if !moved {
		payloadResp.Error = apperror.ErrCellOccupied.Error()
	}

	return sendMessage(conn.bufrw.Writer, msg.Action, payloadResp)
}

func (that *Server) handleGameReset(ctx context.Context, conn *connection, msg *Message) error {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return sendErrorResponse(conn, msg.Action, err.Error())
	}

	if payloadReq.SessionID == "" {
		return sendErrorResponse(conn, msg.Action, "session_id is required")
	}

	session, err := that.sessions.ResetRound(ctx, payloadReq.SessionID)
	if err != nil {
		return sendErrorResponse(conn, msg.Action, clientError(err))
	}

	return sendMessage(conn.bufrw.Writer, msg.Action, Payload{Session: session})
}

func (that *Server) handleSessionLeave(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleSessionLeave", "connectionID", conn.id)

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return sendErrorResponse(conn, msg.Action, err.Error())
	}

	if payloadReq.SessionID == "" {
		return sendErrorResponse(conn, msg.Action, "session_id is required")
	}

	if err = that.sessions.Destroy(ctx, payloadReq.SessionID); err != nil {
		return sendErrorResponse(conn, msg.Action, clientError(err))
	}

	delete(conn.sessions, payloadReq.SessionID)

	log.Info("session left", "sessionID", payloadReq.SessionID)

	return sendMessage(conn.bufrw.Writer, msg.Action, Payload{SessionID: payloadReq.SessionID})
}

func decodePayload(msg *Message) (*Payload, error) {
	var payload Payload

	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return &payload, nil
}

// clientError - domain errors are passed through, anything else is hidden.
func clientError(err error) string {
	for _, known := range []error{
		apperror.ErrInvalidPlayers,
		apperror.ErrOutOfRange,
		apperror.ErrGameFinished,
		apperror.ErrSessionNotFound,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return "internal error"
}

func sendErrorResponse(conn *connection, action, errorMsg string) error {
	if err := sendMessage(conn.bufrw.Writer, action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

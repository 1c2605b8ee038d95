package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const shutdownTimeout = 5 * time.Second

// status 1002 of RFC 6455 section 7.4.1
var closeProtocolError = []byte{0x03, 0xea}

type sessionUseCase interface {
	Create(ctx context.Context, players ...entity.Player) (*entity.Session, error)
	Get(ctx context.Context, id string) (*entity.Session, error)
	PlayRound(ctx context.Context, id string, row, column int) (*entity.Session, bool, error)
	ResetRound(ctx context.Context, id string) (*entity.Session, error)
	Destroy(ctx context.Context, id string) error
}

// connection - one client socket and the sessions it opened.
// It is only touched by the goroutine reading from the socket.
type connection struct {
	id       string
	bufrw    *bufio.ReadWriter
	sessions map[string]struct{}
}

type handler func(ctx context.Context, conn *connection, msg *Message) error

type Server struct {
	logger   *slog.Logger
	sessions sessionUseCase

	handlers map[string]handler
}

func New(logger *slog.Logger, sessions sessionUseCase) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		sessions: sessions,
	}

	server.handlers = map[string]handler{
		actionSessionNew:   server.handleNewSession,
		actionSessionGet:   server.handleGetSession,
		actionGameTurn:     server.handleGameTurn,
		actionGameReset:    server.handleGameReset,
		actionSessionLeave: server.handleSessionLeave,
	}

	return server
}

// Handler - the /ws endpoint; connections are closed when ctx is canceled.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx) //nolint: contextcheck // ctx is already canceled here
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	key := req.Header.Get("Sec-WebSocket-Key")
	if !strings.EqualFold(req.Header.Get("Upgrade"), "websocket") || key == "" {
		http.Error(writer, "not a websocket upgrade", http.StatusBadRequest)
		return
	}

	hijacker, ok := writer.(http.Hijacker)
	if !ok {
		log.Error("web server does not support hijacking", "error", http.StatusText(http.StatusInternalServerError))
		http.Error(writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	netConn, bufrw, err := hijacker.Hijack()
	if err != nil {
		log.Error("failed to hijack connection", "error", err)
		return
	}

	defer netConn.Close()

	// the server's read deadline survives the hijack
	if err = netConn.SetDeadline(time.Time{}); err != nil {
		log.Error("failed to reset deadline", "error", err)
		return
	}

	handshake := "HTTP/1.1 101 Switching Protocols\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Accept: " + GenerateAcceptKey(key) + "\r\n\r\n"

	if _, err = bufrw.WriteString(handshake); err != nil {
		log.Error("failed to write handshake", "error", err)
		return
	}

	if err = bufrw.Flush(); err != nil {
		log.Error("failed to flush handshake", "error", err)
		return
	}

	stop := context.AfterFunc(ctx, func() { _ = netConn.Close() })
	defer stop()

	conn := &connection{
		id:       uuid.NewString(),
		bufrw:    bufrw,
		sessions: make(map[string]struct{}),
	}

	log = log.With("connectionID", conn.id)
	log.Info("WebSocket connection established")

	if err = that.handleMessages(ctx, conn); err != nil && !isClosed(err) {
		log.Error("error handling messages", "error", err)

		if errors.Is(err, ErrProtocol) {
			_ = writeFrame(bufrw.Writer, frame{isFin: true, opCode: opClose, length: 2, payload: closeProtocolError})
		}
	}

	that.handleDisconnect(context.WithoutCancel(ctx), conn)
}

// handleMessages - processes messages from the client until the socket closes.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages", "connectionID", conn.id)

	for {
		reqBody, err := readMessage(conn.bufrw)
		if err != nil {
			return err
		}

		if err = that.dispatch(ctx, conn, reqBody); err != nil {
			log.Error("error processing message", "error", err)
		}
	}
}

func (that *Server) dispatch(ctx context.Context, conn *connection, reqBody []byte) error {
	var message Message
	if err := json.Unmarshal(reqBody, &message); err != nil {
		return sendErrorResponse(conn, actionError, "malformed message")
	}

	handle, ok := that.handlers[message.Action]
	if !ok {
		return sendErrorResponse(conn, message.Action, "unknown action")
	}

	return handle(ctx, conn, &message)
}

// handleDisconnect - sessions live only as long as the connection that opened them.
func (that *Server) handleDisconnect(ctx context.Context, conn *connection) {
	log := that.logger.With("method", "handleDisconnect", "connectionID", conn.id)

	for id := range conn.sessions {
		if err := that.sessions.Destroy(ctx, id); err != nil {
			log.Warn("failed to destroy session", "sessionID", id, "error", err)
		}
	}

	log.Info("connection closed", "sessions", len(conn.sessions))
}

func isClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed)
}

package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"github.com/kailas-cloud/entitysearch/internal/domain"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/condition"
	"github.com/kailas-cloud/entitysearch/internal/logger"
)

// Stream message types.
const (
	MsgEvent   = "event"
	MsgSearch  = "search"
	MsgPing    = "ping"
	MsgState   = "state"
	MsgResults = "results"
	MsgPong    = "pong"
	MsgError   = "error"
)

// ClientMessage is sent by the client on a session stream. For "event" Data
// is a condition event; for "search" it is a SearchData.
type ClientMessage struct {
	ID   string          `json:"id,omitempty"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// SearchData selects the page to fetch. Zero means page 1.
type SearchData struct {
	Page int `json:"page"`
}

// ServerMessage is pushed by the server on a session stream.
type ServerMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// WithOriginPatterns sets the origins allowed to open session streams.
// By default only same-origin clients are accepted.
func (s *Server) WithOriginPatterns(patterns []string) *Server {
	s.originPatterns = patterns
	return s
}

// Stream handles GET /api/v1/sessions/{id}/ws. It pushes the session state
// on connect and after every event, and the result page after every search.
// Searches run concurrently; only the newest page is ever shown.
func (s *Server) Stream(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	view, err := s.sessions.Get(id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.originPatterns,
	})
	if err != nil {
		logger.FromContext(r.Context()).Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(logger.WithSession(r.Context(), id))
	var searches sync.WaitGroup
	defer func() {
		cancel()
		searches.Wait()
	}()
	log := logger.FromContext(ctx)

	send(ctx, log, conn, ServerMessage{Type: MsgState, Data: view})

	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				log.Debug("session stream closed", zap.Int("status", int(status)))
			}
			return
		}

		switch msg.Type {
		case MsgEvent:
			s.streamEvent(ctx, log, conn, id, msg)
		case MsgSearch:
			var data SearchData
			if len(msg.Data) > 0 {
				if err := json.Unmarshal(msg.Data, &data); err != nil {
					sendError(ctx, log, conn, msg.ID, CodeBadRequest, "invalid search data")
					continue
				}
			}
			if data.Page < 1 {
				data.Page = 1
			}
			searches.Add(1)
			go func() {
				defer searches.Done()
				p, err := s.sessions.Search(ctx, id, data.Page)
				if err != nil {
					code, message := streamError(err)
					sendError(ctx, log, conn, msg.ID, code, message)
					return
				}
				send(ctx, log, conn, ServerMessage{Type: MsgResults, RequestID: msg.ID, Data: p})
			}()
		case MsgPing:
			send(ctx, log, conn, ServerMessage{Type: MsgPong, RequestID: msg.ID})
		default:
			sendError(ctx, log, conn, msg.ID, CodeBadRequest, "unknown message type: "+msg.Type)
		}
	}
}

func (s *Server) streamEvent(ctx context.Context, log *zap.Logger, conn *websocket.Conn, id string, msg ClientMessage) {
	e, err := condition.DecodeEvent(msg.Data)
	if err != nil {
		code, message := streamError(err)
		sendError(ctx, log, conn, msg.ID, code, message)
		return
	}
	v, err := s.sessions.Apply(ctx, id, e)
	if err != nil {
		code, message := streamError(err)
		sendError(ctx, log, conn, msg.ID, code, message)
		return
	}
	send(ctx, log, conn, ServerMessage{Type: MsgState, RequestID: msg.ID, Data: v})
}

// streamError maps a domain error to the code and message sent on a stream.
func streamError(err error) (ErrorCode, string) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return CodeSessionNotFound, domain.ErrSessionNotFound.Error()
	case errors.Is(err, domain.ErrUnknownField):
		return CodeUnknownField, err.Error()
	case errors.Is(err, domain.ErrInvalidEvent):
		return CodeInvalidEvent, err.Error()
	case errors.Is(err, domain.ErrUnknownKind):
		return CodeUnknownEntity, err.Error()
	case errors.Is(err, context.Canceled):
		return CodeInternalError, "canceled"
	default:
		return CodeInternalError, "internal error"
	}
}

func send(ctx context.Context, log *zap.Logger, conn *websocket.Conn, msg ServerMessage) {
	if err := wsjson.Write(ctx, conn, msg); err != nil && ctx.Err() == nil {
		log.Warn("websocket write failed", zap.Error(err))
	}
}

func sendError(ctx context.Context, log *zap.Logger, conn *websocket.Conn, requestID string, code ErrorCode, message string) {
	send(ctx, log, conn, ServerMessage{
		Type:      MsgError,
		RequestID: requestID,
		Data:      ErrorResponse{Code: code, Message: message},
	})
}

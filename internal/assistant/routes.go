package assistant

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RegisterRoutes mounts the chat API.
func RegisterRoutes(r chi.Router, a *Assistant) {
	r.Post("/api/quinn/chat", handleChat(a))
	r.Get("/api/quinn/sessions/{id}/messages", handleMessages(a))
}

// RegisterSocket mounts the chat WebSocket. Keep it off routers that apply
// a request timeout.
func RegisterSocket(r chi.Router, a *Assistant) {
	r.Get("/ws/chat", handleWebSocket(a))
}

func handleChat(a *Assistant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		resp, err := a.Process(r.Context(), req)
		if errors.Is(err, ErrEmptyMessage) {
			http.Error(w, `{"error":"message is required"}`, http.StatusBadRequest)
			return
		}
		if err != nil {
			a.logger.Error("processing chat message failed", zap.Error(err))
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, resp)
	}
}

func handleMessages(a *Assistant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.store == nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		id := chi.URLParam(r, "id")
		sess, err := a.store.GetSession(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if sess == nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		msgs, err := a.store.Messages(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if msgs == nil {
			msgs = []Message{}
		}
		writeJSON(w, msgs)
	}
}

// socketRequest is the incoming WebSocket message format.
type socketRequest struct {
	Type string `json:"type"` // "message"
	Request
}

// socketResponse is the outgoing WebSocket message format.
type socketResponse struct {
	Type      string    `json:"type"` // "response" or "error"
	SessionID string    `json:"session_id"`
	Content   string    `json:"content,omitempty"`
	Reply     *Response `json:"reply,omitempty"`
}

func handleWebSocket(a *Assistant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			a.logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		// Later messages on the connection continue the first session.
		var sessionID string
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					a.logger.Warn("websocket read failed", zap.Error(err))
				}
				return
			}

			var req socketRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				a.send(conn, socketResponse{Type: "error", SessionID: sessionID, Content: "invalid message format"})
				continue
			}
			if req.Type != "" && req.Type != "message" {
				a.send(conn, socketResponse{Type: "error", SessionID: sessionID, Content: "unknown message type: " + req.Type})
				continue
			}
			if req.Message == "" {
				a.send(conn, socketResponse{Type: "error", SessionID: sessionID, Content: "message is required"})
				continue
			}
			if req.SessionID == "" {
				req.SessionID = sessionID
			}

			resp, err := a.Process(r.Context(), req.Request)
			if err != nil {
				a.send(conn, socketResponse{Type: "error", SessionID: req.SessionID, Content: "processing failed: " + err.Error()})
				continue
			}
			sessionID = resp.SessionID
			a.send(conn, socketResponse{Type: "response", SessionID: resp.SessionID, Reply: resp})
		}
	}
}

func (a *Assistant) send(conn *websocket.Conn, resp socketResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		a.logger.Warn("websocket write failed", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

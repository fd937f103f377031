package explorer

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/compass/internal/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is the outgoing WebSocket message format.
type wsMessage struct {
	Type  string `json:"type"` // "frame" or "error"
	Frame *Frame `json:"frame,omitempty"`
	Error string `json:"error,omitempty"`
}

// wsHandler streams frames for one view and applies events sent by the
// client. All writes happen on the handler goroutine.
func wsHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := m.Get(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "view not found", http.StatusNotFound)
			return
		}
		log := logger.Get().Named("explorer").With(zap.String("view_id", v.ID()))

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("websocket upgrade", zap.Error(err))
			return
		}
		defer conn.Close()

		frames, unsubscribe := v.Subscribe()
		defer unsubscribe()

		errs := make(chan string, 8)
		readDone := make(chan struct{})
		go func() {
			defer close(readDone)
			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
						log.Warn("websocket read", zap.Error(err))
					}
					return
				}
				var ev Event
				if err := json.Unmarshal(msg, &ev); err != nil {
					sendErr(errs, "invalid message format")
					continue
				}
				if _, err := v.Apply(ev); err != nil {
					sendErr(errs, err.Error())
				}
			}
		}()

		first := v.Frame()
		if err := conn.WriteJSON(wsMessage{Type: "frame", Frame: &first}); err != nil {
			return
		}
		for {
			select {
			case <-readDone:
				return
			case <-r.Context().Done():
				return
			case msg := <-errs:
				if err := conn.WriteJSON(wsMessage{Type: "error", Error: msg}); err != nil {
					log.Debug("websocket write", zap.Error(err))
					return
				}
			case f, ok := <-frames:
				if !ok {
					conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "view closed"))
					return
				}
				if err := conn.WriteJSON(wsMessage{Type: "frame", Frame: &f}); err != nil {
					log.Debug("websocket write", zap.Error(err))
					return
				}
			}
		}
	}
}

func sendErr(errs chan<- string, msg string) {
	select {
	case errs <- msg:
	default:
	}
}

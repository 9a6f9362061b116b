package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/dictation"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/events"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/languages"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/models"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/services"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/utils"
)

type WSHandler struct {
	sessions  services.SessionService
	bridge    services.BridgeService
	dictation *dictation.Manager
	redis     *redis.Client
	upgrader  websocket.Upgrader
}

func NewWSHandler(sessions services.SessionService, bridge services.BridgeService, dict *dictation.Manager, rdb *redis.Client) *WSHandler {
	return &WSHandler{
		sessions:  sessions,
		bridge:    bridge,
		dictation: dict,
		redis:     rdb,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type wsClientMsg struct {
	Type        string `json:"type"` // start|audio_chunk|stop
	Lang        string `json:"lang"`
	AudioBase64 string `json:"audio_base64"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeText(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (w *wsConn) writeJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.writeText(b)
}

// DictationWS runs one live dictation channel: the client streams control
// and audio frames in, session events stream back out.
func (h *WSHandler) DictationWS(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	role := models.Role(contextRole(c))
	if !role.Valid() {
		writeError(c, utils.E(utils.CodeForbidden, "WSHandler.DictationWS", "role must be provider or patient", nil))
		return
	}

	sessionID := c.Param("session_id")
	sess, err := h.sessions.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dict := h.dictation.Acquire(sessionID)
	defer func() {
		// drop an abandoned capture so a reconnect starts clean
		_, _, _ = dict.Stop(context.Background())
		h.dictation.Release(sessionID)
	}()

	// speaker's own language drives recognition unless the client overrides
	defaultLang := sess.ProviderLang
	if role == models.RolePatient {
		defaultLang = sess.PatientLang
	}

	pubsub := h.redis.Subscribe(ctx, events.SessionChannel(sessionID))
	defer pubsub.Close()

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})

		for {
			_, data, rerr := conn.ReadMessage()
			if rerr != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			var msg wsClientMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"invalid json"}`))
				continue
			}

			switch msg.Type {
			case "start":
				lang := msg.Lang
				if lang == "" {
					lang = defaultLang
				}
				if err := dict.Start(ctx, languages.RecognizerLocale(lang)); err != nil {
					_ = wc.writeJSON(map[string]any{
						"type":    events.TypeError,
						"code":    utils.CodeUnavailable,
						"message": "could not start dictation",
					})
					continue
				}
				_ = wc.writeJSON(map[string]any{"type": events.TypeStatus, "status": "capturing"})

			case "audio_chunk":
				raw := msg.AudioBase64
				if i := strings.Index(raw, ","); i >= 0 {
					raw = raw[i+1:] // strip data:...;base64,
				}
				chunk, derr := base64.StdEncoding.DecodeString(raw)
				if derr != nil {
					_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"invalid audio_base64"}`))
					continue
				}
				dict.PushAudio(chunk)

			case "stop":
				utt, ok, serr := dict.Stop(ctx)
				if serr != nil {
					_ = wc.writeJSON(map[string]any{
						"type":    events.TypeError,
						"code":    utils.CodeInternal,
						"message": "dictation stop failed",
					})
					continue
				}
				if !ok {
					_ = wc.writeJSON(map[string]any{"type": events.TypeStatus, "status": "idle"})
					continue
				}

				if _, err := h.bridge.SendMessage(ctx, sessionID, role, utt.Text, utt.AudioURL); err != nil {
					_ = wc.writeJSON(map[string]any{
						"type":    events.TypeError,
						"code":    utils.CodeInternal,
						"message": "failed to log dictated message",
					})
					continue
				}
				_ = wc.writeJSON(map[string]any{"type": events.TypeStatus, "status": "idle"})

			default:
				_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"unknown message type"}`))
			}
		}
	}()

	// writer: Redis Pub/Sub -> WS
	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		default:
			m, err := pubsub.ReceiveMessage(ctx)
			if err != nil {
				return
			}
			if werr := wc.writeText([]byte(m.Payload)); werr != nil {
				return
			}
		}
	}
}

package widget

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/farmbot-assistant/backend/internal/model/assistant"
	"github.com/farmbot-assistant/backend/internal/model/chat"
	chatservice "github.com/farmbot-assistant/backend/internal/service/chat"
	"github.com/farmbot-assistant/backend/pkg/utils"
)

// 组件 WebSocket 上交换的帧类型
const (
	FrameSubmit  = "submit"
	FrameHistory = "history"
	FrameMessage = "message"
	FrameState   = "state"
	FrameBusy    = "busy"
	FrameError   = "error"
)

// Handler WebSocket聊天处理器，每个连接拥有独立的聊天屏
type Handler struct {
	profiles assistant.Store
	resolver chatservice.Resolver
	upgrader websocket.Upgrader
}

// New 创建组件处理器
func New(profiles assistant.Store, resolver chatservice.Resolver) *Handler {
	return &Handler{
		profiles: profiles,
		resolver: resolver,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

type inboundFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// OutgoingFrame 服务端推送给组件的消息
type OutgoingFrame struct {
	Type         string             `json:"type"`
	ConnectionID string             `json:"connectionId,omitempty"`
	Profile      *assistant.Profile `json:"profile,omitempty"`
	Messages     []chat.Message     `json:"messages,omitempty"`
	Message      *chat.Message      `json:"message,omitempty"`
	State        string             `json:"state,omitempty"`
	Error        string             `json:"error,omitempty"`
	Timestamp    int64              `json:"timestamp"`
}

type connection struct {
	id     string
	conn   *websocket.Conn
	writeM sync.Mutex
	logger zerolog.Logger
}

func (c *connection) send(frame OutgoingFrame) {
	frame.ConnectionID = c.id
	frame.Timestamp = time.Now().UnixMilli()

	c.writeM.Lock()
	defer c.writeM.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := c.conn.WriteJSON(frame); err != nil {
		c.logger.Debug().Err(err).Str("frame", frame.Type).Msg("write to widget failed")
	}
}

// handleWebSocket 处理WebSocket连接
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	profile, err := assistant.Resolve(h.profiles, r.URL.Query().Get("profile"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &connection{id: uuid.NewString(), conn: conn}
	c.logger = hlog.FromRequest(r).With().Str("component", "widget").Str("connection", c.id).Logger()

	screen := chatservice.NewScreen(profile, h.resolver, chatservice.WithLogger(c.logger))

	var inflight sync.WaitGroup
	defer func() {
		inflight.Wait()
		conn.Close()
		c.logger.Info().Int("messages", len(screen.Messages())).Msg("widget disconnected")
	}()

	c.logger.Info().Str("profile", profile.ID).Msg("widget connected")
	c.send(OutgoingFrame{Type: FrameHistory, Profile: &profile, Messages: screen.Messages()})
	c.send(OutgoingFrame{Type: FrameState, State: screen.State().String()})

	for {
		var in inboundFrame
		if err := conn.ReadJSON(&in); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug().Err(err).Msg("widget read ended")
			}
			return
		}

		switch in.Type {
		case FrameSubmit:
			h.submit(c, screen, &inflight, in.Text)
		case FrameHistory:
			c.send(OutgoingFrame{Type: FrameHistory, Profile: &profile, Messages: screen.Messages()})
		default:
			c.send(OutgoingFrame{Type: FrameError, Error: "unsupported frame type: " + in.Type})
		}
	}
}

func (h *Handler) submit(c *connection, screen *chatservice.Screen, inflight *sync.WaitGroup, text string) {
	userMsg, err := screen.Accept(text)
	switch {
	case errors.Is(err, chatservice.ErrEmptyInput):
		return
	case errors.Is(err, chatservice.ErrBusy):
		c.send(OutgoingFrame{Type: FrameBusy, State: screen.State().String()})
		return
	case err != nil:
		c.send(OutgoingFrame{Type: FrameError, Error: err.Error()})
		return
	}

	c.send(OutgoingFrame{Type: FrameMessage, Message: &userMsg})
	c.send(OutgoingFrame{Type: FrameState, State: chatservice.StatePending.String()})

	inflight.Add(1)
	go func() {
		defer inflight.Done()
		// 回复必须完整走完，即使连接已断开；idle 帧先于下一次提交发出
		screen.CompleteFunc(context.Background(), text, func(botMsg chat.Message) {
			c.send(OutgoingFrame{Type: FrameMessage, Message: &botMsg})
			c.send(OutgoingFrame{Type: FrameState, State: chatservice.StateIdle.String()})
		})
	}()
}

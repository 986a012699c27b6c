package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/farmbot-assistant/backend/internal/config"
	"github.com/farmbot-assistant/backend/internal/handler/chat"
	"github.com/farmbot-assistant/backend/internal/handler/profile"
	"github.com/farmbot-assistant/backend/internal/handler/widget"
	middlewarePkg "github.com/farmbot-assistant/backend/internal/middleware"
	"github.com/farmbot-assistant/backend/internal/model/assistant"
	"github.com/farmbot-assistant/backend/internal/service/reply"
)

// Deps 路由注入到各处理器的依赖
type Deps struct {
	Logger   zerolog.Logger
	Profiles assistant.Store
	Backend  reply.Backend
	Resolver reply.Resolver
	Reply    config.ReplyConfig
}

// NewRouter 将 HTTP 路由连接到核心服务。
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.Logging(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chat.New(deps.Backend, deps.Reply.Mode, deps.Reply.Endpoint()).RegisterRoutes(r)
	widget.New(deps.Profiles, deps.Resolver).RegisterRoutes(r)

	r.Route("/api", func(api chi.Router) {
		profile.New(deps.Profiles).RegisterRoutes(api)
	})

	return r
}

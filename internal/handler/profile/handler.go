package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farmbot-assistant/backend/internal/model/assistant"
	"github.com/farmbot-assistant/backend/pkg/utils"
)

// Handler 问候配置的HTTP处理器
type Handler struct {
	profiles assistant.Store
}

// New 创建问候配置处理器
func New(profiles assistant.Store) *Handler {
	return &Handler{profiles: profiles}
}

// RegisterRoutes 注册问候配置相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profiles", h.handleList)
	r.Get("/profiles/{profileID}", h.handleGet)
}

func (h *Handler) handleList(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.profiles.List())
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profiles.FindByID(chi.URLParam(r, "profileID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "profile not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

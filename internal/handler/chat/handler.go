package chat

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/farmbot-assistant/backend/internal/config"
	"github.com/farmbot-assistant/backend/internal/service/reply"
	"github.com/farmbot-assistant/backend/pkg/utils"
)

// Handler 本地聊天接口的HTTP处理器，转发到配置的回复后端
type Handler struct {
	backend  reply.Backend
	mode     config.Mode
	upstream string
	validate *validator.Validate
}

type chatRequest struct {
	Message string `json:"message" validate:"required,notblank"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// New 创建聊天处理器
func New(backend reply.Backend, mode config.Mode, upstream string) *Handler {
	v, err := newValidator()
	if err != nil {
		log.Error().Err(err).Msg("request validator unavailable, falling back to a plain blank check")
	}

	return &Handler{
		backend:  backend,
		mode:     mode,
		upstream: upstream,
		validate: v,
	}
}

// newValidator 构建请求校验器，注册 notblank 规则
func newValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("register notblank validation: %w", err)
	}
	return v, nil
}

// RegisterRoutes 注册 /chat 与 /health 路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Post("/chat", h.handleChat)
}

// handleHealth 健康检查端点
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"mode":     string(h.mode),
		"upstream": h.upstream,
	})
}

// handleChat 转发聊天请求，上游失败时返回 502
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.validMessage(payload) {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	answer, err := h.backend.Ask(r.Context(), payload.Message)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("mode", string(h.mode)).Msg("chat backend failed")
		utils.RespondError(w, http.StatusBadGateway, "upstream error: "+err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, chatResponse{Reply: answer})
}

// validMessage 校验消息非空白；校验器缺失时退化为直接判断
func (h *Handler) validMessage(payload chatRequest) bool {
	if h.validate == nil {
		return strings.TrimSpace(payload.Message) != ""
	}
	return h.validate.Struct(payload) == nil
}

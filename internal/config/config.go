package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// ErrUnknownMode 表示 REPLY_MODE 不是已知的回复后端。
var ErrUnknownMode = errors.New("unknown reply mode")

// Mode 决定回复的来源。
type Mode string

const (
	ModeGradio  Mode = "gradio"
	ModeBackend Mode = "backend"
	ModeArk     Mode = "ark"
	ModeKeyword Mode = "keyword"
)

// Valid reports whether m names a known reply backend.
func (m Mode) Valid() bool {
	switch m {
	case ModeGradio, ModeBackend, ModeArk, ModeKeyword:
		return true
	}
	return false
}

// ParseMode 规范化并校验模式字符串，空字符串视为 gradio。
func ParseMode(raw string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(raw)))
	if m == "" {
		return ModeGradio, nil
	}
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, raw)
	}
	return m, nil
}

// 每次上游请求携带的固定生成参数，运行时不可调整。
const (
	MaxNewTokens      = 512
	Temperature       = 0.3
	TopP              = 0.95
	TopK              = 50
	RepetitionPenalty = 1.1
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	Log    LogConfig
	Reply  ReplyConfig
	AI     AIConfig
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Addr string
}

// LogConfig 控制全局 zerolog 日志。
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Pretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

// ReplyConfig 描述回复后端及其地址。
type ReplyConfig struct {
	Mode       Mode          `env:"REPLY_MODE" envDefault:"gradio"`
	GradioURL  string        `env:"GRADIO_URL" envDefault:"https://7c4105ca74f527e09f.gradio.live/api/predict"`
	BackendURL string        `env:"CHAT_BACKEND_URL" envDefault:"http://localhost:8000"`
	Timeout    time.Duration `env:"REPLY_TIMEOUT" envDefault:"60s"`
	Profile    string        `env:"GREETING_PROFILE" envDefault:"en"`
}

// Endpoint 返回当前模式使用的上游地址。
func (c ReplyConfig) Endpoint() string {
	switch c.Mode {
	case ModeGradio:
		return c.GradioURL
	case ModeBackend:
		return c.BackendURL
	default:
		return ""
	}
}

// AIConfig 描述 ark 模式使用的大模型配置。
type AIConfig struct {
	APIKey    string `env:"ARK_API_KEY"`
	AccessKey string `env:"ARK_ACCESS_KEY"`
	SecretKey string `env:"ARK_SECRET_KEY"`
	Model     string `env:"ARK_MODEL"`
	BaseURL   string `env:"ARK_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	Region    string `env:"ARK_REGION" envDefault:"cn-beijing"`
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用固定生成参数创建 Ark 模型实例，timeout 作用于每次 HTTP 调用。
// Ark 不支持 top-k 与重复惩罚，只应用前三个常量。
func (c AIConfig) NewChatModel(ctx context.Context, timeout time.Duration) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, errors.New("ark credentials or model missing: set ARK_MODEL with ARK_API_KEY or ARK_ACCESS_KEY/ARK_SECRET_KEY")
	}

	maxTokens := MaxNewTokens
	temperature := float32(Temperature)
	topP := float32(TopP)

	chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
		TopP:        &topP,
		Timeout:     &timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ark chat model: %w", err)
	}
	return chatModel, nil
}

// Load 从环境变量加载并校验配置。
func Load() (*Config, error) {
	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse 只解析环境变量，不做校验，便于命令行参数在校验前覆盖。
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

// Validate 规范化监听地址与回复模式，并检查模式所需的参数。
func (c *Config) Validate() error {
	addr, err := normalizeAddr(c.Server.Port)
	if err != nil {
		return err
	}
	c.Server.Addr = addr

	mode, err := ParseMode(string(c.Reply.Mode))
	if err != nil {
		return err
	}
	c.Reply.Mode = mode

	if c.Reply.Timeout <= 0 {
		return fmt.Errorf("invalid REPLY_TIMEOUT value %s", c.Reply.Timeout)
	}

	if mode == ModeArk && !c.AI.Enabled() {
		return errors.New("REPLY_MODE=ark requires ARK_MODEL and Ark credentials")
	}
	return nil
}

// normalizeAddr 将 PORT 转换为监听地址。
func normalizeAddr(port string) (string, error) {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	if strings.Contains(port, ":") {
		// 允许直接传入 ":8080" 或 "127.0.0.1:8080"
		return port, nil
	}

	return ":" + port, nil
}

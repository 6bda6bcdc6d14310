package service

import (
	"context"
	"fmt"
	"strings"

	"fin-dashboard/internal/dispatch"
	"fin-dashboard/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

const assistantTemperature = 0.7

// LLMService answers free-form chat questions through GigaChat.
type LLMService struct {
	client *gigago.Client
	config *config.GigaChatConfig
	logger *zap.Logger
}

var _ dispatch.Completer = (*LLMService)(nil)

// NewLLMService builds the GigaChat client. Without an API key the service
// still starts and every completion fails with an upstream error.
func NewLLMService(cfg *config.GigaChatConfig, logger *zap.Logger) (*LLMService, error) {
	service := &LLMService{
		config: cfg,
		logger: logger,
	}

	if cfg.APIKey == "" {
		logger.Warn("GigaChat API key is not configured, assistant answers are disabled")
		return service, nil
	}

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(context.Background(), cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}
	service.client = client

	logger.Info("GigaChat client ready", zap.String("model", cfg.Model))
	return service, nil
}

// Complete sends one system instruction and one user message and returns the
// first choice. No retries.
func (s *LLMService) Complete(ctx context.Context, system, user string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("%w: API key not configured", dispatch.ErrUpstreamService)
	}

	model := s.client.GenerativeModel(s.config.Model)
	model.SystemInstruction = system
	model.Temperature = assistantTemperature

	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: user},
	}

	resp, err := model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %w", dispatch.ErrUpstreamService, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response from model", dispatch.ErrUpstreamService)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	s.logger.Debug("Completion received",
		zap.String("model", s.config.Model),
		zap.Int("prompt_length", len(system)+len(user)),
		zap.Int("text_length", len(text)),
	)
	return text, nil
}

func (s *LLMService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}

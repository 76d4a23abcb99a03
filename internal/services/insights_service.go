package services

import (
	"context"
	"fmt"

	"queue-system/internal/entities"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

// InsightsService - чисто справочный коллаборатор: по сводке очереди
// генерирует советы для управляющего. Состояние очереди никогда не меняет,
// при любых проблемах возвращает текст-заглушку, а не ошибку.
type InsightsServiceInterface interface {
	GenerateInsights(ctx context.Context, snapshot entities.QueueSnapshot) string
}

type insightsService struct {
	apiKey string
	model  string
	logger *zap.Logger
}

func NewInsightsService(apiKey, model string, logger *zap.Logger) InsightsServiceInterface {
	return &insightsService{apiKey: apiKey, model: model, logger: logger}
}

const insightsPrompt = `Você é um gerente de operações especialista em eficiência de filas.
Analise os seguintes dados da fila de hoje e forneça 3 recomendações curtas e acionáveis (bullet points) para melhorar o fluxo.
Seja direto e use um tom profissional e moderno.

Dados:
- Total de tickets hoje: %d
- Aguardando: %d
- Em atendimento: %d
- Prioritários: %d
- Concluídos: %d

Responda em Português do Brasil. Formate como HTML simples (apenas tags <p>, <ul>, <li>, <strong>).`

func (s *insightsService) GenerateInsights(ctx context.Context, snapshot entities.QueueSnapshot) string {
	if s.apiKey == "" {
		return "API Key não configurada. Configure a chave para receber insights."
	}

	var waiting, inProgress, done, priority int
	for _, t := range snapshot {
		switch t.Status {
		case entities.StatusWaiting:
			waiting++
		case entities.StatusInProgress:
			inProgress++
		case entities.StatusDone:
			done++
		}
		if t.Priority {
			priority++
		}
	}

	prompt := fmt.Sprintf(insightsPrompt, len(snapshot), waiting, inProgress, priority, done)

	client := anthropic.NewClient(option.WithAPIKey(s.apiKey))
	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		s.logger.Error("ошибка генерации инсайтов", zap.Error(err))
		return "Erro ao conectar com a IA para análise."
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text
		}
	}
	return "Não foi possível gerar insights no momento."
}

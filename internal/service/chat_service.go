package service

import (
	"context"
	"fmt"
	"strings"

	"bbexpress-api/internal/dto"
	"bbexpress-api/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// ChatCompleter es lo que usamos de go-openai; permite un doble en tests.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type ChatService struct {
	client ChatCompleter
	model  string
	config *ConfigService
}

func NewChatService(client ChatCompleter, model string, config *ConfigService) *ChatService {
	return &ChatService{client: client, model: model, config: config}
}

// Reply envía el prompt de sistema más el historial de turnos al proveedor y
// devuelve el texto del asistente. Un fallo del proveedor es un fallo del
// endpoint; no hay reintentos.
func (s *ChatService) Reply(ctx context.Context, req dto.ChatRequest) (string, error) {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		return "", err
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(cfg)},
	}
	for _, turn := range req.History {
		role := openai.ChatMessageRoleUser
		if turn.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Message,
	})

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("el proveedor no devolvió respuesta")
	}
	return resp.Choices[0].Message.Content, nil
}

// El prompt de sistema se arma con la configuración editable del sitio para
// que el widget responda con tarifas y datos de contacto vigentes.
func buildSystemPrompt(cfg *model.SiteConfig) string {
	var b strings.Builder
	b.WriteString("Eres el asistente de atención al cliente de BBExpress, empresa de paquetería y envío de dinero entre España, Guinea Ecuatorial y Camerún. ")
	b.WriteString("Responde en el idioma del cliente, breve y amable. ")

	if len(cfg.Rates) > 0 {
		b.WriteString("Tarifas vigentes: ")
		for dir, rate := range cfg.Rates {
			fmt.Fprintf(&b, "%s: %.2f. ", dir, rate)
		}
	}
	if cfg.Dates.NextDeparture != "" {
		fmt.Fprintf(&b, "Próxima salida de contenedor: %s. ", cfg.Dates.NextDeparture)
	}
	if cfg.Contact.Phone != "" {
		fmt.Fprintf(&b, "Teléfono de contacto: %s. ", cfg.Contact.Phone)
	}
	if cfg.Contact.WhatsApp != "" {
		fmt.Fprintf(&b, "WhatsApp: %s. ", cfg.Contact.WhatsApp)
	}

	b.WriteString("Si no sabes algo, remite al cliente al teléfono de contacto.")
	return b.String()
}

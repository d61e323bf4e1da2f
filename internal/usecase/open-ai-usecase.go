package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"

	"github.com/sashabaranov/go-openai"

	"petcare-chat/config"
	"petcare-chat/internal/model"
	"petcare-chat/internal/prompt"
	openai_tools "petcare-chat/pkg/openai-tools"
)

const OpenAIRoleUser = "user"

var (
	ErrEmptyModelResponse = errors.New("model returned no choices")
)

type OpenAIUsecase struct {
	cfg     config.OpenAI
	chatCfg config.Chat
	client  *openai.Client
}

func NewOpenAIUsecase(cfg config.OpenAI, chatCfg config.Chat) (*OpenAIUsecase, error) {
	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		baseURL, err := url.JoinPath(cfg.OpenAIBaseURL, "/v1")
		if err != nil {
			return nil, fmt.Errorf("failed to build base url: %w", err)
		}
		clientConfig.BaseURL = baseURL
	}
	return &OpenAIUsecase{
		cfg:     cfg,
		chatCfg: chatCfg,
		client:  openai.NewClientWithConfig(clientConfig),
	}, nil
}

// SendMessage renders the three-slot prompt and issues one chat
// completion. With MaxPromptTokens set, oldest turns are dropped until
// the rendered prompt fits; by default the whole transcript goes out.
func (o *OpenAIUsecase) SendMessage(
	ctx context.Context,
	petInfo string,
	memory []model.Turn,
	humanInput string,
) (string, error) {
	rendered := prompt.Render(petInfo, memory, humanInput)

	if o.chatCfg.MaxPromptTokens > 0 {
		for len(memory) > 0 {
			tokenCount, err := openai_tools.CountToken(rendered, o.cfg.Model)
			if err != nil {
				log.Printf("count token error: %v", err)
				break
			}
			if tokenCount <= o.chatCfg.MaxPromptTokens {
				break
			}
			memory = memory[1:]
			rendered = prompt.Render(petInfo, memory, humanInput)
			log.Print("history trimmed due to token limit")
		}
	}

	req := openai.ChatCompletionRequest{
		Model:       o.cfg.Model,
		Temperature: o.cfg.ModelTemperature,
		TopP:        1,
		N:           1,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    OpenAIRoleUser,
				Content: rendered,
			},
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyModelResponse
	}
	return resp.Choices[0].Message.Content, nil
}

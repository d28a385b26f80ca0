package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/pkg/config"
	"laboutique_erp_202610/pkg/retry"
)

// ==================== 接口定义 ====================

// ChatMessage 对话历史中的一条消息
type ChatMessage struct {
	Role    string
	Content string
}

// AssistantReply 模型回复
type AssistantReply struct {
	Content      string
	InputTokens  int
	OutputTokens int
}

// Assistant 客服大模型接口
type Assistant interface {
	Provider() string
	Model() string
	Reply(ctx context.Context, systemPrompt string, history []ChatMessage) (*AssistantReply, error)
}

// NewAssistant 根据配置选择实现，未配置 Key 时退回静态回复
func NewAssistant(ctx context.Context, cfg config.AIConfig) (Assistant, error) {
	if cfg.Provider == "static" || cfg.APIKey == "" {
		return StaticAssistant{}, nil
	}
	switch cfg.Provider {
	case "gemini":
		return NewGeminiAssistant(ctx, cfg.APIKey, cfg.Model)
	case "openai", "":
		return NewOpenAIAssistant(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("不支持的 AI 服务商: %s", cfg.Provider)
	}
}

// ==================== OpenAI 兼容实现 ====================

type OpenAIAssistant struct {
	client *openai.Client
	model  string
}

// NewOpenAIAssistant baseURL 为空时使用官方地址，可指向 DeepSeek 等兼容服务
func NewOpenAIAssistant(apiKey, baseURL, modelName string) *OpenAIAssistant {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if modelName == "" {
		modelName = openai.GPT4oMini
	}
	return &OpenAIAssistant{client: openai.NewClientWithConfig(cfg), model: modelName}
}

func (a *OpenAIAssistant) Provider() string { return "openai" }
func (a *OpenAIAssistant) Model() string    { return a.model }

func (a *OpenAIAssistant) Reply(ctx context.Context, systemPrompt string, history []ChatMessage) (*AssistantReply, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == model.MessageRoleAssistant || m.Role == model.MessageRoleAgent {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    messages,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, wrapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &retry.StatusError{StatusCode: 502, Body: "empty choices"}
	}

	return &AssistantReply{
		Content:      strings.TrimSpace(resp.Choices[0].Message.Content),
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

// wrapOpenAIError 转成带状态码的错误，交给重试器分类
func wrapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return &retry.StatusError{StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &retry.StatusError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return err
}

// ==================== Gemini 实现 ====================

type GeminiAssistant struct {
	client *genai.Client
	model  string
}

func NewGeminiAssistant(ctx context.Context, apiKey, modelName string) (*GeminiAssistant, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("创建 Gemini 客户端失败: %w", err)
	}
	if modelName == "" || strings.HasPrefix(modelName, "gpt") {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiAssistant{client: client, model: modelName}, nil
}

func (a *GeminiAssistant) Provider() string { return "gemini" }
func (a *GeminiAssistant) Model() string    { return a.model }

func (a *GeminiAssistant) Close() error {
	return a.client.Close()
}

func (a *GeminiAssistant) Reply(ctx context.Context, systemPrompt string, history []ChatMessage) (*AssistantReply, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("对话历史为空")
	}

	gm := a.client.GenerativeModel(a.model)
	gm.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))
	gm.SetTemperature(0.3)

	cs := gm.StartChat()
	for _, m := range history[:len(history)-1] {
		role := "user"
		if m.Role == model.MessageRoleAssistant || m.Role == model.MessageRoleAgent {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(history[len(history)-1].Content))
	if err != nil {
		var gErr *googleapi.Error
		if errors.As(err, &gErr) {
			return nil, &retry.StatusError{StatusCode: gErr.Code, Err: err}
		}
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, &retry.StatusError{StatusCode: 502, Body: "empty candidates"}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	reply := &AssistantReply{Content: strings.TrimSpace(sb.String())}
	if resp.UsageMetadata != nil {
		reply.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		reply.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return reply, nil
}

// ==================== 静态回复 ====================

// StaticAssistantReply 未接入大模型时的固定回复
const StaticAssistantReply = "Thanks for your message! Our assistant is offline right now. Reply \"human\" and a member of our team will get back to you by email."

// StaticAssistant 未配置 Key 时使用，引导转人工
type StaticAssistant struct{}

func (StaticAssistant) Provider() string { return "static" }
func (StaticAssistant) Model() string    { return "static" }

func (StaticAssistant) Reply(ctx context.Context, systemPrompt string, history []ChatMessage) (*AssistantReply, error) {
	return &AssistantReply{Content: StaticAssistantReply}, nil
}

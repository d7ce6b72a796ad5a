package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAI implements Generator against an OpenAI-compatible chat
// completion endpoint.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIOption customizes the client.
type OpenAIOption func(*OpenAI)

// WithModel overrides the default model.
func WithModel(model string) OpenAIOption {
	return func(o *OpenAI) {
		if model != "" {
			o.model = model
		}
	}
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float32) OpenAIOption {
	return func(o *OpenAI) {
		o.temperature = t
	}
}

// WithBaseURL points the client at a compatible non-OpenAI endpoint.
func WithBaseURL(apiKey, baseURL string) OpenAIOption {
	return func(o *OpenAI) {
		cfg := openai.DefaultConfig(apiKey)
		cfg.BaseURL = baseURL
		o.client = openai.NewClientWithConfig(cfg)
	}
}

// NewOpenAI builds a generator.
func NewOpenAI(apiKey string, opts ...OpenAIOption) *OpenAI {
	o := &OpenAI{
		client:      openai.NewClient(apiKey),
		model:       openai.GPT4oMini,
		temperature: 0.4,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// complete runs one chat completion. The second return value reports
// the distinguished rate-limited outcome.
func (o *OpenAI) complete(ctx context.Context, user string) (string, bool, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		if isRateLimited(err) {
			return "", true, nil
		}
		return "", false, fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", false, fmt.Errorf("llm: empty completion response")
	}
	return resp.Choices[0].Message.Content, false, nil
}

// IdentifyParties asks the collaborator to name the negotiating
// parties in the raw case text.
func (o *OpenAI) IdentifyParties(ctx context.Context, rawContent string) (PartiesResult, error) {
	text, limited, err := o.complete(ctx, partiesPrompt(rawContent))
	if err != nil || limited {
		return PartiesResult{RateLimited: limited}, err
	}
	return PartiesResult{Parties: ParseParties(text)}, nil
}

// GenerateAnalysis produces a candidate analysis from the raw case
// text and party list.
func (o *OpenAI) GenerateAnalysis(ctx context.Context, req AnalysisRequest) (AnalysisResult, error) {
	text, limited, err := o.complete(ctx, analysisPrompt(req))
	if err != nil || limited {
		return AnalysisResult{RateLimited: limited}, err
	}
	agreement, interest, issues := ParseAnalysis(text)
	return AnalysisResult{AgreementMap: agreement, InterestMap: interest, IssuesText: issues}, nil
}

// GenerateScenarios produces candidate outcome bands for one issue.
func (o *OpenAI) GenerateScenarios(ctx context.Context, req ScenariosRequest) (ScenariosResult, error) {
	text, limited, err := o.complete(ctx, scenariosPrompt(req))
	if err != nil || limited {
		return ScenariosResult{RateLimited: limited}, err
	}
	return ScenariosResult{Drafts: ParseScenarios(text)}, nil
}

// GenerateRiskAssessment produces a candidate assessment for one
// scenario.
func (o *OpenAI) GenerateRiskAssessment(ctx context.Context, req RiskRequest) (RiskResult, error) {
	text, limited, err := o.complete(ctx, riskPrompt(req))
	if err != nil || limited {
		return RiskResult{RateLimited: limited}, err
	}
	ra := ParseRiskAssessment(text)
	ra.ID = uuid.NewString()
	ra.ScenarioID = req.Scenario.ID
	return RiskResult{Assessment: ra}, nil
}

func isRateLimited(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}

package llm

import (
	"context"
	"strings"
)

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com"
	anthropicMessagesPath   = "/v1/messages"
	anthropicVersion        = "2023-06-01"
	anthropicMaxTokens      = 8192
	headerAnthropicAPIKey   = "x-api-key"
	headerAnthropicVersion  = "anthropic-version"
	anthropicTextBlockType  = "text"
)

type anthropicRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	System      string        `json:"system,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type anthropicClient struct {
	transport jsonTransport
	endpoint  string
	model     string
	apiKey    string
}

func newAnthropicClient(transport jsonTransport, options ProviderOptions) anthropicClient {
	return anthropicClient{
		transport: transport,
		endpoint:  joinEndpoint(options.BaseURL, anthropicDefaultBaseURL, anthropicMessagesPath),
		model:     options.Model,
		apiKey:    options.APIKey,
	}
}

func (client anthropicClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	payload := anthropicRequest{
		Model:     client.model,
		MaxTokens: anthropicMaxTokens,
		System:    systemPrompt,
		Messages:  []chatMessage{{Role: roleUser, Content: userPrompt}},
	}
	headers := map[string]string{
		headerAnthropicAPIKey:  client.apiKey,
		headerAnthropicVersion: anthropicVersion,
	}
	var response anthropicResponse
	if postError := client.transport.postJSON(ctx, ProviderAnthropic, client.endpoint, headers, payload, &response); postError != nil {
		return "", postError
	}
	var textBuilder strings.Builder
	for _, contentBlock := range response.Content {
		if contentBlock.Type == anthropicTextBlockType {
			textBuilder.WriteString(contentBlock.Text)
		}
	}
	return nonEmptyText(textBuilder.String())
}

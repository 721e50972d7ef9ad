package llm

import (
	"context"
)

const (
	openAIDefaultBaseURL      = "https://api.openai.com"
	openAIChatCompletionsPath = "/v1/chat/completions"
	headerAuthorization       = "Authorization"
	authorizationBearerPrefix = "Bearer "
	roleSystem                = "system"
	roleUser                  = "user"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type openAIResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type openAIClient struct {
	transport jsonTransport
	endpoint  string
	model     string
	apiKey    string
}

func newOpenAIClient(transport jsonTransport, options ProviderOptions) openAIClient {
	return openAIClient{
		transport: transport,
		endpoint:  joinEndpoint(options.BaseURL, openAIDefaultBaseURL, openAIChatCompletionsPath),
		model:     options.Model,
		apiKey:    options.APIKey,
	}
}

func (client openAIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	payload := openAIRequest{
		Model: client.model,
		Messages: []chatMessage{
			{Role: roleSystem, Content: systemPrompt},
			{Role: roleUser, Content: userPrompt},
		},
	}
	headers := map[string]string{headerAuthorization: authorizationBearerPrefix + client.apiKey}
	var response openAIResponse
	if postError := client.transport.postJSON(ctx, ProviderOpenAI, client.endpoint, headers, payload, &response); postError != nil {
		return "", postError
	}
	if len(response.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return nonEmptyText(response.Choices[0].Message.Content)
}

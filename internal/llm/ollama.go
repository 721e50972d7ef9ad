package llm

import (
	"context"
	"os"
	"strings"
)

const (
	ollamaHostEnvironmentVariable = "OLLAMA_HOST"
	ollamaDefaultBaseURL          = "http://localhost:11434"
	ollamaChatPath                = "/api/chat"
	httpSchemeSeparator           = "://"
	httpSchemePrefix              = "http://"
)

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  ollamaOptions `json:"options"`
}

type ollamaResponse struct {
	Message chatMessage `json:"message"`
}

type ollamaClient struct {
	transport jsonTransport
	endpoint  string
	model     string
}

func newOllamaClient(transport jsonTransport, options ProviderOptions) ollamaClient {
	baseURL := options.BaseURL
	if strings.TrimSpace(baseURL) == "" {
		baseURL = ollamaBaseURLFromEnvironment()
	}
	return ollamaClient{
		transport: transport,
		endpoint:  joinEndpoint(baseURL, ollamaDefaultBaseURL, ollamaChatPath),
		model:     options.Model,
	}
}

// ollamaBaseURLFromEnvironment reads OLLAMA_HOST, which may omit the scheme.
func ollamaBaseURLFromEnvironment() string {
	host := strings.TrimSpace(os.Getenv(ollamaHostEnvironmentVariable))
	if host == "" {
		return ollamaDefaultBaseURL
	}
	if !strings.Contains(host, httpSchemeSeparator) {
		host = httpSchemePrefix + host
	}
	return host
}

func (client ollamaClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	payload := ollamaRequest{
		Model: client.model,
		Messages: []chatMessage{
			{Role: roleSystem, Content: systemPrompt},
			{Role: roleUser, Content: userPrompt},
		},
	}
	var response ollamaResponse
	if postError := client.transport.postJSON(ctx, ProviderOllama, client.endpoint, nil, payload, &response); postError != nil {
		return "", postError
	}
	return nonEmptyText(response.Message.Content)
}

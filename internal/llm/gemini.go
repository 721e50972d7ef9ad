package llm

import (
	"context"
	"net/url"
	"strings"
)

const (
	geminiDefaultBaseURL   = "https://generativelanguage.googleapis.com"
	geminiModelsPathPrefix = "/v1beta/models/"
	geminiGenerateAction   = ":generateContent"
	headerGeminiAPIKey     = "x-goog-api-key"
	geminiUserRole         = "user"
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiClient struct {
	transport jsonTransport
	endpoint  string
	apiKey    string
}

func newGeminiClient(transport jsonTransport, options ProviderOptions) geminiClient {
	modelPath := geminiModelsPathPrefix + url.PathEscape(options.Model) + geminiGenerateAction
	return geminiClient{
		transport: transport,
		endpoint:  joinEndpoint(options.BaseURL, geminiDefaultBaseURL, modelPath),
		apiKey:    options.APIKey,
	}
}

func (client geminiClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{Role: geminiUserRole, Parts: []geminiPart{{Text: userPrompt}}}},
	}
	if systemPrompt != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}}
	}
	headers := map[string]string{headerGeminiAPIKey: client.apiKey}
	var response geminiResponse
	if postError := client.transport.postJSON(ctx, ProviderGemini, client.endpoint, headers, payload, &response); postError != nil {
		return "", postError
	}
	if len(response.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	var textBuilder strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		textBuilder.WriteString(part.Text)
	}
	return nonEmptyText(textBuilder.String())
}

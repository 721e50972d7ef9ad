package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	headerContentType    = "Content-Type"
	headerAccept         = "Accept"
	headerUserAgent      = "User-Agent"
	contentTypeJSON      = "application/json"
	defaultUserAgent     = "llmpack"
	responseExcerptLimit = 8 * 1024

	errorEncodeRequestFormat  = "encode %s request: %w"
	errorBuildRequestFormat   = "build %s request: %w"
	errorSendRequestFormat    = "send %s request: %w"
	errorUnexpectedStatus     = "unexpected status %d from %s: %s"
	errorDecodeResponseFormat = "decode %s response: %w"
)

// jsonTransport posts JSON payloads and decodes JSON answers.
type jsonTransport struct {
	client    httpClient
	userAgent string
}

func newJSONTransport(client httpClient) jsonTransport {
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}
	return jsonTransport{client: client, userAgent: defaultUserAgent}
}

// postJSON sends payload to endpoint and decodes a 2xx answer into response.
// Other statuses become errors carrying an excerpt of the body.
func (transport jsonTransport) postJSON(ctx context.Context, provider ProviderKind, endpoint string, headers map[string]string, payload any, response any) error {
	encodedPayload, encodeError := json.Marshal(payload)
	if encodeError != nil {
		return fmt.Errorf(errorEncodeRequestFormat, provider, encodeError)
	}
	request, requestError := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encodedPayload))
	if requestError != nil {
		return fmt.Errorf(errorBuildRequestFormat, provider, requestError)
	}
	request.Header.Set(headerContentType, contentTypeJSON)
	request.Header.Set(headerAccept, contentTypeJSON)
	request.Header.Set(headerUserAgent, transport.userAgent)
	for headerName, headerValue := range headers {
		request.Header.Set(headerName, headerValue)
	}

	httpResponse, sendError := transport.client.Do(request)
	if sendError != nil {
		return fmt.Errorf(errorSendRequestFormat, provider, sendError)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode < http.StatusOK || httpResponse.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(httpResponse.Body, responseExcerptLimit))
		return fmt.Errorf(errorUnexpectedStatus, httpResponse.StatusCode, provider, strings.TrimSpace(string(body)))
	}
	if decodeError := json.NewDecoder(httpResponse.Body).Decode(response); decodeError != nil {
		return fmt.Errorf(errorDecodeResponseFormat, provider, decodeError)
	}
	return nil
}

func joinEndpoint(baseURL string, defaultBaseURL string, path string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	return base + path
}

func nonEmptyText(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

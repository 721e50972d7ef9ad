// Package tokenizer estimates how many tokens the combined document costs.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config selects the model whose encoding is used.
type Config struct {
	Model string
}

const (
	defaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"

	errorInitializeEncodingFormat = "initialize %s tokenizer: %w"
)

var openAIModelPrefixes = []string{
	"gpt-",
	"o1",
	"o3",
	"text-embedding",
	"davinci",
	"curie",
	"babbage",
	"ada",
	"code-",
}

// NewCounter returns a tiktoken Counter for cfg.Model and the name of the encoding in use.
// Models without a tiktoken encoding, including other providers' models, are estimated
// with cl100k_base.
func NewCounter(cfg Config) (Counter, string, error) {
	model := strings.ToLower(strings.TrimSpace(cfg.Model))
	if model == "" {
		model = defaultModel
	}

	if isOpenAIModel(model) {
		encoding, encodingError := tiktoken.EncodingForModel(model)
		if encodingError == nil && encoding != nil {
			return openAICounter{encoding: encoding, name: model}, model, nil
		}
	}
	encoding, encodingError := tiktoken.GetEncoding(defaultEncodingName)
	if encodingError != nil {
		return nil, "", fmt.Errorf(errorInitializeEncodingFormat, defaultEncodingName, encodingError)
	}
	return openAICounter{encoding: encoding, name: defaultEncodingName}, defaultEncodingName, nil
}

func isOpenAIModel(model string) bool {
	for _, prefix := range openAIModelPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

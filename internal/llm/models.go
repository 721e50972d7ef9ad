package llm

// Model describes one selectable model of a provider.
type Model struct {
	ID          string
	Name        string
	Description string
}

// modelCatalog lists each provider's models, default first.
var modelCatalog = map[ProviderKind][]Model{
	ProviderOpenAI: {
		{ID: "gpt-4.5", Name: "GPT-4.5", Description: "Most capable model with vision and high token limit"},
		{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", Description: "Powerful model with good balance of capabilities"},
		{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Description: "Fast and cost-effective model"},
	},
	ProviderAnthropic: {
		{ID: "claude-3.7-sonnet", Name: "Claude 3.7 Sonnet", Description: "Most powerful Claude model with highest reasoning capabilities"},
		{ID: "claude-3.5-sonnet", Name: "Claude 3.5 Sonnet", Description: "Balanced model with good performance and speed"},
		{ID: "claude-3.5-haiku", Name: "Claude 3.5 Haiku", Description: "Fast and efficient model for simpler tasks"},
	},
	ProviderGemini: {
		{ID: "gemini-2.5-pro-preview-03-25", Name: "Gemini 2.5 Pro", Description: "Most capable Gemini model with 1M token context"},
		{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash", Description: "Fast and efficient model with 1M token context"},
		{ID: "gemini-nano", Name: "Gemini Nano", Description: "Previous generation model"},
	},
	ProviderOllama: {
		{ID: "llama3", Name: "Llama 3", Description: "Latest Llama model from Meta"},
		{ID: "llama3:8b", Name: "Llama 3 (8B)", Description: "Smaller and faster Llama 3 model"},
		{ID: "mistral", Name: "Mistral", Description: "Efficient open-source model"},
		{ID: "mixtral", Name: "Mixtral", Description: "Mixture of experts model with strong capabilities"},
	},
}

// ModelsForProvider returns a copy of the provider's catalog.
func ModelsForProvider(kind ProviderKind) []Model {
	return append([]Model(nil), modelCatalog[kind]...)
}

// DefaultModelForProvider returns the first catalog entry, or "" for unknown providers.
func DefaultModelForProvider(kind ProviderKind) string {
	models := modelCatalog[kind]
	if len(models) == 0 {
		return ""
	}
	return models[0].ID
}

// LookupModel finds modelID in the provider's catalog.
func LookupModel(kind ProviderKind, modelID string) (Model, bool) {
	for _, model := range modelCatalog[kind] {
		if model.ID == modelID {
			return model, true
		}
	}
	return Model{}, false
}

package factory

import (
	"fmt"
	"time"

	"docqa-chat-be/pkg/llm"
	"docqa-chat-be/pkg/llm/ollama"
	"docqa-chat-be/pkg/llm/openai"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string, timeout time.Duration) (llm.LLMProvider, error) {
	switch providerType {
	case "openai":
		if baseURL == "" {
			baseURL = "https://api.openai.com/v1" // Default
		}
		return openai.NewOpenAIProvider(baseURL, apiKey, modelName, timeout), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}

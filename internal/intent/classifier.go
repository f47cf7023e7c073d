package intent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Harshitk-cp/frontdesk/internal/domain"
)

const (
	ProviderRules  = "rules"
	ProviderGemini = "gemini"
)

// NewClassifier creates an intent classifier based on the provider name.
func NewClassifier(ctx context.Context, provider, apiKey, model string, logger *zap.Logger) (domain.IntentClassifier, error) {
	switch provider {
	case ProviderRules, "":
		return NewRules(), nil

	case ProviderGemini:
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for gemini intent provider")
		}
		gen, err := NewGenaiGenerator(ctx, apiKey, model)
		if err != nil {
			return nil, err
		}
		return NewModelClassifier(gen, logger), nil

	default:
		return nil, fmt.Errorf("unknown intent provider: %s (valid options: rules, gemini)", provider)
	}
}

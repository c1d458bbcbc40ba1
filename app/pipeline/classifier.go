package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/bookmark-comb/app/classify"
	"github.com/lysyi3m/bookmark-comb/app/config"
)

// newClassifier builds the configured classification policy. It returns nil
// when the policy cannot run, which leaves tags untouched.
func newClassifier(cfg *config.AppConfig) (classify.Classifier, error) {
	rules, err := classify.LoadRules(config.ExpandPath(cfg.Categorize.RulesFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	switch cfg.Categorize.Mode {
	case config.ModeRules:
		return classify.NewRuleClassifier(rules), nil

	case config.ModeEmbeddings:
		emb := cfg.Categorize.Embeddings
		return classify.NewEmbeddingClassifier(
			classify.NewOllamaEmbedder(emb.Endpoint, emb.Model, cfg.Network.GetTimeout()),
			classify.EmbeddingOptions{
				Labels:         classify.ResolveLabels(emb.Labels, rules),
				TopK:           emb.TopK,
				ScoreThreshold: emb.ScoreThreshold,
			},
		), nil

	case config.ModeLLM:
		llm := cfg.Categorize.LLM
		completer, err := classify.NewCompleter(classify.CompleterConfig{
			Provider:          llm.Provider,
			APIKeyEnv:         llm.APIKeyEnv,
			APIBase:           llm.APIBase,
			RequestsPerMinute: llm.RequestsPerMinute,
		})
		if errors.Is(err, classify.ErrProviderUnavailable) {
			slog.Warn("LLM classification skipped", "provider", llm.Provider, "error", err)
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return classify.NewLLMClassifier(completer, classify.LLMOptions{
			Model:                llm.Model,
			Temperature:          llm.Temperature,
			Labels:               classify.ResolveLabels(llm.Labels, rules),
			BatchSize:            llm.BatchSize,
			OnlyUncertain:        llm.OnlyUncertain,
			AllowNewLabels:       llm.AllowNewLabels,
			MaxNewLabelsPerBatch: llm.MaxNewLabelsPerBatch,
		}), nil
	}

	return nil, fmt.Errorf("unknown categorize mode %q", cfg.Categorize.Mode)
}

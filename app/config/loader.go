package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of the pipeline configuration
type Loader struct {
	path string
}

// NewLoader creates a new configuration loader for a YAML file
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Default returns the configuration used when no file is present
func Default() *AppConfig {
	return &AppConfig{
		Input: InputConfig{
			BookmarksPath: "~/.config/google-chrome/Default/Bookmarks",
			Profile:       "Default",
		},
		Output: OutputConfig{
			ExportDir:     "./out",
			PlanName:      "plan-{timestamp}",
			ReportFormats: []string{"html", "md"},
		},
		Network: NetworkConfig{
			Enabled:         true,
			TimeoutSec:      8,
			Retries:         2,
			Concurrent:      16,
			UserAgent:       "cbclean/0.1",
			MaxContentChars: 2000,
		},
		Normalize: NormalizeConfig{
			StripQueryParams: []string{"utm_*", "gclid", "yclid", "fbclid", "ref", "ref_src"},
			StripFragments:   true,
			StripWWW:         true,
		},
		Dedup: DedupConfig{
			TitleSimilarityThreshold: 0.90,
			PreferShorterURL:         true,
		},
		Categorize: CategorizeConfig{
			Mode:      ModeRules,
			RulesFile: "./configs/rules.example.yaml",
			Embeddings: EmbeddingsConfig{
				Endpoint:       "http://localhost:11434",
				Model:          "all-minilm",
				TopK:           2,
				ScoreThreshold: 0.35,
			},
			LLM: LLMConfig{
				Provider:             "openai",
				Model:                "gpt-4o-mini",
				BatchSize:            30,
				OnlyUncertain:        true,
				APIKeyEnv:            "OPENAI_API_KEY",
				AllowNewLabels:       true,
				MaxNewLabelsPerBatch: 10,
			},
		},
		Apply: ApplyConfig{
			Mode:    ApplyExportHTML,
			GroupBy: GroupByFolder,
		},
	}
}

// Load reads the YAML file on top of the defaults. A missing file is not an
// error; a malformed or invalid one is.
func (l *Loader) Load() (*AppConfig, error) {
	config := Default()

	data, err := os.ReadFile(ExpandPath(l.path))
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Config file not found, using defaults", "path", l.path)
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := l.validate(config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", l.path, err)
	}

	slog.Debug("Loaded configuration", "path", l.path, "mode", config.Categorize.Mode)

	return config, nil
}

// validate validates the configuration
func (l *Loader) validate(config *AppConfig) error {
	if t := config.Dedup.TitleSimilarityThreshold; t < 0 || t > 1 {
		return fmt.Errorf("dedup.title_similarity_threshold must be within [0, 1], got %v", t)
	}

	validModes := map[string]bool{
		ModeRules:      true,
		ModeEmbeddings: true,
		ModeLLM:        true,
	}
	if !validModes[config.Categorize.Mode] {
		return fmt.Errorf("invalid categorize.mode: %s", config.Categorize.Mode)
	}

	validApplyModes := map[string]bool{
		ApplyExportHTML: true,
		ApplyDryRun:     true,
	}
	if !validApplyModes[config.Apply.Mode] {
		return fmt.Errorf("invalid apply.mode: %s", config.Apply.Mode)
	}

	validGroupBy := map[string]bool{
		GroupByFolder:  true,
		GroupByTag:     true,
		GroupByTagAll:  true,
		GroupByTagHier: true,
	}
	if !validGroupBy[config.Apply.GroupBy] {
		return fmt.Errorf("invalid apply.group_by: %s", config.Apply.GroupBy)
	}

	validFormats := map[string]bool{
		"html": true,
		"md":   true,
	}
	for i, format := range config.Output.ReportFormats {
		if !validFormats[format] {
			return fmt.Errorf("invalid output.report_formats at index %d: %s", i, format)
		}
	}

	if config.Output.ExportDir == "" {
		return fmt.Errorf("output.export_dir is required")
	}

	if config.Network.Concurrent <= 0 {
		return fmt.Errorf("network.concurrent must be positive")
	}
	if config.Network.Retries < 0 {
		return fmt.Errorf("network.retries must be non-negative")
	}
	if config.Network.MaxContentChars < 0 {
		return fmt.Errorf("network.max_content_chars must be non-negative")
	}
	if config.Network.RequestsPerSecond < 0 {
		return fmt.Errorf("network.requests_per_second must be non-negative")
	}

	if config.Categorize.LLM.BatchSize <= 0 {
		return fmt.Errorf("categorize.llm.batch_size must be positive")
	}
	if config.Categorize.LLM.MaxNewLabelsPerBatch < 0 {
		return fmt.Errorf("categorize.llm.max_new_labels_per_batch must be non-negative")
	}
	if config.Categorize.Embeddings.TopK <= 0 {
		return fmt.Errorf("categorize.embeddings.top_k must be positive")
	}

	return nil
}

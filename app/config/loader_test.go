package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadValidConfig(t *testing.T) {
	tempDir := t.TempDir()

	content := `
input:
  import_html: "./export.html"
output:
  export_dir: "./cleaned"
  report_formats: ["md"]
normalize:
  strip_query_params: ["utm_*"]
  strip_www: false
dedup:
  title_similarity_threshold: 0.8
categorize:
  mode: llm
  llm:
    model: "local-model"
    batch_size: 5
apply:
  mode: dry_run
  group_by: tag-hier
`

	path := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := NewLoader(path).Load()
	if err != nil {
		t.Fatal(err)
	}

	if config.Input.ImportHTML != "./export.html" {
		t.Errorf("Expected import_html './export.html', got '%s'", config.Input.ImportHTML)
	}
	if config.Output.ExportDir != "./cleaned" {
		t.Errorf("Expected export dir './cleaned', got '%s'", config.Output.ExportDir)
	}
	if len(config.Output.ReportFormats) != 1 || config.Output.ReportFormats[0] != "md" {
		t.Errorf("Expected report formats [md], got %v", config.Output.ReportFormats)
	}
	if config.Normalize.StripWWW {
		t.Error("Expected strip_www to be false")
	}
	if !config.Normalize.StripFragments {
		t.Error("Expected strip_fragments to keep its default of true")
	}
	if config.Dedup.TitleSimilarityThreshold != 0.8 {
		t.Errorf("Expected threshold 0.8, got %v", config.Dedup.TitleSimilarityThreshold)
	}
	if config.Categorize.Mode != ModeLLM {
		t.Errorf("Expected mode llm, got '%s'", config.Categorize.Mode)
	}
	if config.Categorize.LLM.Model != "local-model" || config.Categorize.LLM.BatchSize != 5 {
		t.Errorf("Expected llm model 'local-model' with batch 5, got '%s' with %d", config.Categorize.LLM.Model, config.Categorize.LLM.BatchSize)
	}
	if config.Categorize.LLM.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("Expected default api key env, got '%s'", config.Categorize.LLM.APIKeyEnv)
	}
	if config.Apply.Mode != ApplyDryRun || config.Apply.GroupBy != GroupByTagHier {
		t.Errorf("Expected dry_run/tag-hier, got %s/%s", config.Apply.Mode, config.Apply.GroupBy)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	config, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	if err != nil {
		t.Fatal(err)
	}

	if config.Output.ExportDir != "./out" {
		t.Errorf("Expected default export dir './out', got '%s'", config.Output.ExportDir)
	}
	if config.Dedup.TitleSimilarityThreshold != 0.90 {
		t.Errorf("Expected default threshold 0.90, got %v", config.Dedup.TitleSimilarityThreshold)
	}
	if !config.Dedup.PreferShorterURL {
		t.Error("Expected prefer_shorter_url to default to true")
	}
	if len(config.Normalize.StripQueryParams) != 6 {
		t.Errorf("Expected 6 default strip params, got %v", config.Normalize.StripQueryParams)
	}
	if config.Network.Concurrent != 16 || config.Network.TimeoutSec != 8 {
		t.Errorf("Expected network defaults 16/8, got %d/%d", config.Network.Concurrent, config.Network.TimeoutSec)
	}
	if config.Categorize.Mode != ModeRules {
		t.Errorf("Expected default mode rules, got '%s'", config.Categorize.Mode)
	}
	if config.Apply.Mode != ApplyExportHTML || config.Apply.GroupBy != GroupByFolder {
		t.Errorf("Expected export_html/folder, got %s/%s", config.Apply.Mode, config.Apply.GroupBy)
	}
}

func TestInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"threshold":  "dedup:\n  title_similarity_threshold: 1.5\n",
		"mode":       "categorize:\n  mode: magic\n",
		"group_by":   "apply:\n  group_by: color\n",
		"format":     "output:\n  report_formats: [pdf]\n",
		"concurrent": "network:\n  concurrent: 0\n",
		"malformed":  "dedup: [unclosed\n",
	}

	for name, content := range cases {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := NewLoader(path).Load(); err == nil {
			t.Errorf("%s: expected error for invalid configuration", name)
		}
	}
}

func TestPlanFileName(t *testing.T) {
	output := OutputConfig{PlanName: "plan-{timestamp}"}
	ts := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	if got := output.PlanFileName(ts); got != "plan-20240305-140709.json" {
		t.Errorf("Expected 'plan-20240305-140709.json', got '%s'", got)
	}
}

func TestGetTimeout(t *testing.T) {
	network := NetworkConfig{}
	if network.GetTimeout() != 8*time.Second {
		t.Errorf("Expected fallback timeout 8s, got %v", network.GetTimeout())
	}

	network.TimeoutSec = 3
	if network.GetTimeout() != 3*time.Second {
		t.Errorf("Expected 3s, got %v", network.GetTimeout())
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got := ExpandPath("~/bookmarks.json")
	if !strings.HasPrefix(got, home) {
		t.Errorf("Expected path under %s, got %s", home, got)
	}
	if ExpandPath("./relative") != "./relative" {
		t.Errorf("Expected relative path unchanged, got %s", ExpandPath("./relative"))
	}
}

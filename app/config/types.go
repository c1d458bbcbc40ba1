package config

type AppConfig struct {
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Network    NetworkConfig    `yaml:"network"`
	Normalize  NormalizeConfig  `yaml:"normalize"`
	Dedup      DedupConfig      `yaml:"dedup"`
	Categorize CategorizeConfig `yaml:"categorize"`
	Apply      ApplyConfig      `yaml:"apply"`
}

type InputConfig struct {
	BookmarksPath string `yaml:"bookmarks_path"` // Chrome "Bookmarks" JSON file
	Profile       string `yaml:"profile"`
	ImportHTML    string `yaml:"import_html"` // Netscape export, wins over BookmarksPath
	ImportFeed    string `yaml:"import_feed"` // RSS/Atom document
}

type OutputConfig struct {
	ExportDir     string   `yaml:"export_dir"`
	PlanName      string   `yaml:"plan_name"` // "{timestamp}" is substituted
	ReportFormats []string `yaml:"report_formats"`
	S3            S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket       string `yaml:"bucket"` // empty disables publishing
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	Prefix       string `yaml:"prefix"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

type NetworkConfig struct {
	Enabled           bool    `yaml:"enabled"`
	TimeoutSec        int     `yaml:"timeout_sec"`
	Retries           int     `yaml:"retries"`
	Concurrent        int     `yaml:"concurrent"`
	UserAgent         string  `yaml:"user_agent"`
	FetchContent      bool    `yaml:"fetch_content"`
	MaxContentChars   int     `yaml:"max_content_chars"`
	RequestsPerSecond float64 `yaml:"requests_per_second"` // 0 means unlimited
}

type NormalizeConfig struct {
	StripQueryParams []string `yaml:"strip_query_params"`
	StripFragments   bool     `yaml:"strip_fragments"`
	StripWWW         bool     `yaml:"strip_www"`
}

type DedupConfig struct {
	TitleSimilarityThreshold float64 `yaml:"title_similarity_threshold"`
	PreferShorterURL         bool    `yaml:"prefer_shorter_url"`
}

type CategorizeConfig struct {
	Mode       string           `yaml:"mode"` // rules, embeddings, llm
	RulesFile  string           `yaml:"rules_file"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	LLM        LLMConfig        `yaml:"llm"`
}

type EmbeddingsConfig struct {
	Endpoint       string   `yaml:"endpoint"`
	Model          string   `yaml:"model"`
	Labels         []string `yaml:"labels"`
	TopK           int      `yaml:"top_k"`
	ScoreThreshold float64  `yaml:"score_threshold"`
}

type LLMConfig struct {
	Provider             string   `yaml:"provider"`
	Model                string   `yaml:"model"`
	BatchSize            int      `yaml:"batch_size"`
	OnlyUncertain        bool     `yaml:"only_uncertain"`
	APIKeyEnv            string   `yaml:"api_key_env"`
	APIBase              string   `yaml:"api_base"`
	Temperature          float64  `yaml:"temperature"`
	Labels               []string `yaml:"labels"`
	AllowNewLabels       bool     `yaml:"allow_new_labels"`
	MaxNewLabelsPerBatch int      `yaml:"max_new_labels_per_batch"`
	RequestsPerMinute    int      `yaml:"requests_per_minute"` // 0 means unlimited
}

type ApplyConfig struct {
	Mode    string `yaml:"mode"`     // export_html, dry_run
	GroupBy string `yaml:"group_by"` // folder, tag, tag-all, tag-hier
}

const (
	ModeRules      = "rules"
	ModeEmbeddings = "embeddings"
	ModeLLM        = "llm"

	ApplyExportHTML = "export_html"
	ApplyDryRun     = "dry_run"

	GroupByFolder  = "folder"
	GroupByTag     = "tag"
	GroupByTagAll  = "tag-all"
	GroupByTagHier = "tag-hier"
)

package cfg

const (
	CommandProcess = "process"
	CommandServe   = "serve"
	CommandVersion = "version"
)

type Cfg struct {
	Command string

	// Pipeline configuration
	ConfigPath string
	DBPath     string

	// Review server configuration
	Port         string
	APIAccessKey string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}

package cfg

import (
	"cmp"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Pipeline configuration
	ConfigPath string `short:"c" long:"config" env:"BMCOMB_CONFIG" default:"configs/config.example.yaml" description:"Path to the YAML pipeline configuration"`
	DBPath     string `long:"db" env:"BMCOMB_DB" default:"./out/bookmark-comb.db" description:"SQLite database holding the fetch cache and run history"`

	// Review server configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP port for the serve command"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for the /api endpoints (optional)"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Berlin)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs parses args and the environment. It returns nil, nil when help
// was requested.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)
	commands := []struct{ name, short, long string }{
		{CommandProcess, "Clean bookmarks", "Read, normalize, deduplicate, classify, plan, export and report"},
		{CommandServe, "Serve run history", "Serve recorded runs, plans and generated artifacts over HTTP"},
		{CommandVersion, "Print version", "Print the version and exit"},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, &struct{}{}); err != nil {
			return nil, fmt.Errorf("failed to register command %s: %w", c.name, err)
		}
	}

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		ConfigPath:   raw.ConfigPath,
		DBPath:       raw.DBPath,
		Port:         raw.Port,
		APIAccessKey: raw.APIAccessKey,
		Timezone:     raw.Timezone,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}
	if parser.Active != nil {
		cfg.Command = parser.Active.Name
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone == "" {
		return nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}
	time.Local = loc
	return nil
}

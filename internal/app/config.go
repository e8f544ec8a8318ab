package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"
)

// Output modes.
const (
	OutputConsole = "console"
	OutputFile    = "file"
)

// Pointer backends.
const (
	PointerCDP = "cdp"
	PointerOS  = "os"
)

// Config holds all application configuration.
type Config struct {
	Browser  BrowserConfig  `koanf:"browser" validate:"required"`
	Pointer  PointerConfig  `koanf:"pointer" validate:"required"`
	Output   OutputConfig   `koanf:"output" validate:"required"`
	Site     SiteConfig     `koanf:"site" validate:"required"`
	Pipeline PipelineConfig `koanf:"pipeline"`
}

// BrowserConfig holds settings for the Chrome session.
type BrowserConfig struct {
	Timeout        time.Duration `koanf:"timeout" validate:"required"`
	ElementTimeout time.Duration `koanf:"element_timeout" validate:"required"`
	Headless       bool          `koanf:"headless"`
	NoSandbox      bool          `koanf:"no_sandbox"`
	ChromePath     string        `koanf:"chrome_path"`
	WindowWidth    int           `koanf:"window_width" validate:"min=320"`
	WindowHeight   int           `koanf:"window_height" validate:"min=240"`
}

// PointerConfig selects how synthetic clicks reach the page.
type PointerConfig struct {
	Backend string        `koanf:"backend" validate:"oneof=cdp os"`
	// Display is the X display the os backend clicks on. Empty means $DISPLAY.
	Display string        `koanf:"display"`
	Settle  time.Duration `koanf:"settle"`
}

// OutputConfig selects where task results are written.
type OutputConfig struct {
	Mode string `koanf:"mode" validate:"oneof=console file"`
	Path string `koanf:"path" validate:"required_if=Mode file"`
}

// SiteConfig holds the target site settings.
type SiteConfig struct {
	BaseURL        string        `koanf:"base_url" validate:"required,url"`
	ConsentTimeout time.Duration `koanf:"consent_timeout" validate:"required"`
	JobLinkPrefix  string        `koanf:"job_link_prefix" validate:"required"`
}

// PipelineConfig controls how task failures affect the run.
type PipelineConfig struct {
	StopOnError bool `koanf:"stop_on_error"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Browser: BrowserConfig{
			Timeout:        2 * time.Minute,
			ElementTimeout: 15 * time.Second,
			WindowWidth:    1920,
			WindowHeight:   1080,
		},
		Pointer: PointerConfig{
			Backend: PointerCDP,
			Settle:  500 * time.Millisecond,
		},
		Output: OutputConfig{
			Mode: OutputFile,
			Path: "output/main_test_results.txt",
		},
		Site: SiteConfig{
			BaseURL:        "https://www.playtechpeople.com",
			ConsentTimeout: 10 * time.Second,
			JobLinkPrefix:  "https://jobs.smartrecruiters.com/Playtech/",
		},
	}
}

// Load reads configuration from a YAML file on top of the defaults and
// validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	k := koanf.New(".")

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		slog.Debug("config file not found, using defaults", "path", path)
	} else if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}

// ConfigFrom extracts the Config from the CLI command metadata.
func ConfigFrom(cmd *cli.Command) (*Config, error) {
	v, ok := cmd.Root().Metadata["config"]
	if !ok {
		return nil, fmt.Errorf("config not found in command metadata")
	}
	cfg, ok := v.(*Config)
	if !ok {
		return nil, fmt.Errorf("config has unexpected type %T", v)
	}
	return cfg, nil
}

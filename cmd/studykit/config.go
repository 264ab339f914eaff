package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/studykit"
	"github.com/aretw0/studykit/pkg/generate"
)

// Environment variables read after .env is loaded.
const (
	envAPIKey  = "STUDYKIT_API_KEY"
	envBaseURL = "STUDYKIT_BASE_URL"
	envModel   = "STUDYKIT_MODEL"
)

const defaultProject = "default"

// Config is the content of studykit.yaml.
type Config struct {
	Adapter       string          `yaml:"adapter"`
	URI           string          `yaml:"uri"`
	Project       string          `yaml:"project"`
	SystemDir     string          `yaml:"system_dir"`
	ReadOnly      bool            `yaml:"read_only"`
	AllowDangling bool            `yaml:"allow_dangling"`
	Redis         RedisConfig     `yaml:"redis"`
	Generator     GeneratorConfig `yaml:"generator"`
}

// RedisConfig mirrors studykit.RedisConfig.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// GeneratorConfig selects the chat-completions endpoint. The API key is only
// read from the environment.
type GeneratorConfig struct {
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
	APIKey  string        `yaml:"-"`
}

// loadConfig reads path, or the studykit.yaml of the workspace containing wd
// when path is empty. A missing file is not an error. Relative fs URIs are
// resolved against the directory holding the config.
func loadConfig(wd, path string) (Config, error) {
	c := Config{Adapter: studykit.AdapterFS, Project: defaultProject}
	base := wd

	if path == "" {
		if root, err := studykit.FindRoot(wd); err == nil {
			base = root
			candidate := filepath.Join(root, "studykit.yaml")
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return c, err
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parse %s: %w", path, err)
		}
		base = filepath.Dir(path)
		slog.Debug("config file read", "path", path)
	}

	if err := godotenv.Load(filepath.Join(base, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return c, fmt.Errorf("load .env: %w", err)
	}

	if c.Adapter == "" {
		c.Adapter = studykit.AdapterFS
	}
	if c.Project == "" {
		c.Project = defaultProject
	}
	if c.Adapter == studykit.AdapterFS {
		switch {
		case c.URI == "":
			c.URI = base
		case !filepath.IsAbs(c.URI):
			c.URI = filepath.Join(base, c.URI)
		}
	}

	if v := os.Getenv(envBaseURL); v != "" {
		c.Generator.BaseURL = v
	}
	if v := os.Getenv(envModel); v != "" {
		c.Generator.Model = v
	}
	c.Generator.APIKey = os.Getenv(envAPIKey)
	return c, nil
}

// override applies the persistent flags that were set on the command line.
func (c Config) override(cmd *cobra.Command) Config {
	flags := cmd.Flags()
	if flags.Changed("adapter") {
		c.Adapter = adapterFlag
	}
	if flags.Changed("dir") {
		c.URI = dirFlag
	}
	if flags.Changed("project") {
		c.Project = projectFlag
	}
	if flags.Changed("read-only") {
		c.ReadOnly = readOnly
	}
	return c
}

// options translates the config into library options.
func (c Config) options(logger *slog.Logger) []studykit.Option {
	opts := []studykit.Option{
		studykit.WithLogger(logger),
		studykit.WithAdapter(c.Adapter),
		studykit.WithReadOnly(c.ReadOnly),
		studykit.WithAllowDangling(c.AllowDangling),
		studykit.WithRedis(studykit.RedisConfig(c.Redis)),
	}
	if c.SystemDir != "" {
		opts = append(opts, studykit.WithSystemDir(c.SystemDir))
	}
	return opts
}

// generator returns nil when neither an API key nor an endpoint is configured.
func (c Config) generator(logger *slog.Logger) generate.Generator {
	if c.Generator.APIKey == "" && c.Generator.BaseURL == "" {
		return nil
	}
	return generate.NewClient(generate.ClientConfig{
		BaseURL: c.Generator.BaseURL,
		APIKey:  c.Generator.APIKey,
		Model:   c.Generator.Model,
		Timeout: c.Generator.Timeout,
		Logger:  logger,
	})
}

func openWorkspace() *studykit.Workspace {
	logger := slog.Default()
	ws, err := studykit.Open(cfg.URI, cfg.generator(logger), cfg.options(logger)...)
	if err != nil {
		fatal("Failed to open workspace", err)
	}
	return ws
}

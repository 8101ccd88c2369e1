package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "aitools.yaml"

const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvGeminiKey     = "GEMINI_API_KEY"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	EnvGeminiBaseURL = "GEMINI_BASE_URL"
)

// DefaultReviewPrompt asks the vision model for a general UI critique.
const DefaultReviewPrompt = "Review the UI design. Focus on hierarchy, typography, color, layout, and accessibility. Provide concise, actionable feedback."

type Config struct {
	BaseDir        string         `yaml:"base_dir"`
	LibraryDir     string         `yaml:"library_dir"`
	ImagesDir      string         `yaml:"images_dir"`
	ScreenshotsDir string         `yaml:"screenshots_dir"`
	ReviewsDir     string         `yaml:"reviews_dir"`
	OpenAIBaseURL  string         `yaml:"openai_base_url"`
	GeminiBaseURL  string         `yaml:"gemini_base_url"`
	Research       ResearchConfig `yaml:"research"`
	Images         ImagesConfig   `yaml:"images"`
	DesignReview   ReviewConfig   `yaml:"design_review"`
	Browser        BrowserConfig  `yaml:"browser"`
	Log            LogConfig      `yaml:"log"`
}

type ResearchConfig struct {
	Model string `yaml:"model"`
}

type ImagesConfig struct {
	Model  string `yaml:"model"`
	Size   string `yaml:"size"`
	Count  int    `yaml:"count"`
	Prompt string `yaml:"prompt"`
	Label  string `yaml:"label"`
}

type ReviewConfig struct {
	Model    string `yaml:"model"`
	Viewport string `yaml:"viewport"`
	FullPage bool   `yaml:"full_page"`
	WaitMS   int    `yaml:"wait_ms"`
	Prompt   string `yaml:"prompt"`
}

type BrowserConfig struct {
	// RemoteURL is the DevTools WebSocket of an already running Chrome.
	// Empty launches a local headless instance.
	RemoteURL string `yaml:"remote_url"`
	Stealth   bool   `yaml:"stealth"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		BaseDir:        ".",
		LibraryDir:     "library",
		ImagesDir:      "images",
		ScreenshotsDir: "screenshots",
		ReviewsDir:     "reviews",
		OpenAIBaseURL:  "https://api.openai.com",
		GeminiBaseURL:  "https://generativelanguage.googleapis.com",
		Research:       ResearchConfig{Model: "gpt-5"},
		Images: ImagesConfig{
			Model:  "gpt-image-1",
			Size:   "1024x1024",
			Count:  1,
			Prompt: "cats",
			Label:  "cat",
		},
		DesignReview: ReviewConfig{
			Model:    "gemini-2.5-flash",
			Viewport: "1280x720",
			FullPage: true,
			WaitMS:   1500,
			Prompt:   DefaultReviewPrompt,
		},
		Browser: BrowserConfig{Stealth: true},
		Log:     LogConfig{Level: "warn", Format: "console"},
	}
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error when optional is true.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadEnv loads a .env file into the process environment without overriding
// variables that are already set. A missing file is ignored.
func LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvOpenAIBaseURL); v != "" {
		c.OpenAIBaseURL = v
	}
	if v := os.Getenv(EnvGeminiBaseURL); v != "" {
		c.GeminiBaseURL = v
	}
}

// Dir resolves one of the configured artifact directories against BaseDir.
func (c Config) Dir(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.BaseDir, name)
}

func (c Config) LibraryPath() string     { return c.Dir(c.LibraryDir) }
func (c Config) ImagesPath() string      { return c.Dir(c.ImagesDir) }
func (c Config) ScreenshotsPath() string { return c.Dir(c.ScreenshotsDir) }
func (c Config) ReviewsPath() string     { return c.Dir(c.ReviewsDir) }

// Marshal renders cfg as the contents of an aitools.yaml file.
func Marshal(cfg Config) ([]byte, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return raw, nil
}

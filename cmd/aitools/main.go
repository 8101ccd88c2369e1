package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ogulcanaydogan/aitools/internal/browser"
	"github.com/ogulcanaydogan/aitools/internal/config"
	"github.com/ogulcanaydogan/aitools/internal/library"
	"github.com/ogulcanaydogan/aitools/internal/pipeline"
	"github.com/ogulcanaydogan/aitools/internal/provider/gemini"
	"github.com/ogulcanaydogan/aitools/internal/provider/openai"
	"github.com/ogulcanaydogan/aitools/internal/store"
	"github.com/ogulcanaydogan/aitools/pkg/types"
)

var version = "dev"

const (
	exitGeneric    = 1
	exitConfig     = 10
	exitValidation = 11
	exitExternal   = 12
)

type cliError struct {
	code int
	err  error
}

func (e cliError) Error() string { return e.err.Error() }

func (e cliError) Unwrap() error { return e.err }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root := newRootCommand()
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		var ce cliError
		if errors.As(err, &ce) {
			fmt.Fprintln(os.Stderr, ce.err)
			os.Exit(ce.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitGeneric)
	}
}

// imageClient is what the images command needs from a provider.
type imageClient interface {
	pipeline.ImageGenerator
	pipeline.ImageFetcher
}

var newSearcher = func(cfg config.Config, apiKey string) pipeline.Searcher {
	return openai.NewClient(openai.Config{APIKey: apiKey, BaseURL: cfg.OpenAIBaseURL})
}

var newImageClient = func(cfg config.Config, apiKey string) imageClient {
	return openai.NewClient(openai.Config{APIKey: apiKey, BaseURL: cfg.OpenAIBaseURL})
}

var newReviewer = func(cfg config.Config, apiKey string) pipeline.VisionReviewer {
	return gemini.NewClient(gemini.Config{APIKey: apiKey, BaseURL: cfg.GeminiBaseURL})
}

var newScreenshotter = func(cfg config.Config, logger *zap.Logger) pipeline.Screenshotter {
	return browser.NewCapturer(browser.Config{
		RemoteURL: cfg.Browser.RemoteURL,
		Stealth:   cfg.Browser.Stealth,
		Logger:    logger,
	})
}

var nowFunc = time.Now

// app holds state resolved by the root command before any subcommand runs.
type app struct {
	configPath string
	baseDir    string
	logLevel   string
	logFormat  string

	cfg    config.Config
	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{logger: zap.NewNop()}
	root := &cobra.Command{
		Use:           "aitools",
		Short:         "Generative AI toolbelt with a local research library",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultConfigFile, "config file")
	root.PersistentFlags().StringVar(&a.baseDir, "base-dir", "", "directory artifacts are written under (overrides config)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: console or json")

	root.AddCommand(newHelloCommand())
	root.AddCommand(newInitCommand(a))
	root.AddCommand(newImagesCommand(a))
	root.AddCommand(newResearchCommand(a))
	root.AddCommand(newDesignReviewCommand(a))
	root.AddCommand(newLibraryCommand(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	config.LoadEnv()
	optional := !cmd.Flags().Changed("config") || cmd.Name() == "init"
	cfg, err := config.Load(a.configPath, optional)
	if err != nil {
		return cliError{code: exitConfig, err: err}
	}
	if a.baseDir != "" {
		cfg.BaseDir = a.baseDir
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	a.cfg = cfg
	a.logger = initLogger(cfg.Log)
	return nil
}

func initLogger(cfg config.LogConfig) *zap.Logger {
	var level zapcore.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.WarnLevel
	}

	var encoderConfig zapcore.EncoderConfig
	encoding := "json"
	if cfg.Format != "json" {
		encoding = "console"
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	logger, err := zapConfig.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// runError maps a pipeline failure onto an exit code.
func runError(err error) error {
	var ve *pipeline.ValidationError
	var ee *pipeline.ExternalError
	switch {
	case errors.As(err, &ve):
		return cliError{code: exitValidation, err: err}
	case errors.As(err, &ee):
		return cliError{code: exitExternal, err: err}
	default:
		return err
	}
}

func credentialError(err error) error {
	return cliError{code: exitConfig, err: err}
}

func newHelloCommand() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "hello",
		Short: "Print a friendly greeting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Hello, %s.\n", name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "friend", "name to greet")
	return cmd
}

func newInitCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default aitools.yaml and create the artifact directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if !fileExists(a.configPath) {
				raw, err := config.Marshal(config.Default())
				if err != nil {
					return err
				}
				if err := store.WriteFile(a.configPath, raw); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s\n", a.configPath)
			}
			for _, dir := range []string{a.cfg.LibraryPath(), a.cfg.ImagesPath(), a.cfg.ScreenshotsPath(), a.cfg.ReviewsPath()} {
				if _, err := store.EnsureDir(dir); err != nil {
					return err
				}
			}
			fmt.Fprintln(out, "initialized aitools config and artifact directories")
			return nil
		},
	}
}

func newImagesCommand(a *app) *cobra.Command {
	var model, size, count, prompt, label string
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Generate cat images and save them under images/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := config.RequireOpenAIKey()
			if err != nil {
				return credentialError(err)
			}
			opts := a.cfg.Images
			client := newImageClient(a.cfg, key)
			p := &pipeline.Images{
				Generator: client,
				Fetcher:   client,
				Dir:       a.cfg.ImagesPath(),
				Label:     flagOr(cmd, "label", label, opts.Label),
				Now:       nowFunc,
				Logger:    a.logger.Named("images"),
			}

			n := opts.Count
			if cmd.Flags().Changed("count") {
				n = pipeline.ParseLeadingInt(count, 1)
			}
			res, err := p.Run(cmd.Context(), types.ImageRequest{
				Prompt: flagOr(cmd, "prompt", prompt, opts.Prompt),
				Model:  flagOr(cmd, "model", model, opts.Model),
				Size:   flagOr(cmd, "size", size, opts.Size),
				Count:  n,
			})
			if err != nil {
				return runError(err)
			}
			out := cmd.OutOrStdout()
			switch {
			case res.Empty:
				fmt.Fprintln(out, "No images returned.")
			case len(res.Saved) == 0:
				fmt.Fprintln(out, "No image data to save.")
			}
			for _, path := range res.Saved {
				fmt.Fprintf(out, "Saved: %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "gpt-image-1", "image model")
	cmd.Flags().StringVarP(&size, "size", "s", "1024x1024", "image size")
	cmd.Flags().StringVarP(&count, "count", "n", "1", "number of images (1-10)")
	cmd.Flags().StringVar(&prompt, "prompt", "cats", "prompt override")
	cmd.Flags().StringVar(&label, "label", "cat", "file name label")
	return cmd
}

func newResearchCommand(a *app) *cobra.Command {
	var model string
	var offline bool
	var allowDomains []string
	cmd := &cobra.Command{
		Use:   "research <query>",
		Short: "Run a web-search-backed research query and save it to the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := config.RequireOpenAIKey()
			if err != nil {
				return credentialError(err)
			}
			logger := a.logger.Named("research")
			p := &pipeline.Research{
				Searcher:    newSearcher(a.cfg, key),
				Library:     library.NewStore(a.cfg.LibraryPath(), a.logger),
				LibraryName: a.cfg.LibraryDir,
				Now:         nowFunc,
				Logger:      logger,
			}
			res, err := p.Run(cmd.Context(), types.SearchRequest{
				Query:          args[0],
				Model:          flagOr(cmd, "model", model, a.cfg.Research.Model),
				AllowedDomains: allowDomains,
				Offline:        offline,
			})
			if err != nil {
				return runError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s\n", res.ArtifactPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "gpt-5", "model to use")
	cmd.Flags().BoolVar(&offline, "offline", false, "disable live web access (cache-only)")
	cmd.Flags().StringArrayVar(&allowDomains, "allow-domain", nil, "allow-list domain (repeatable)")
	return cmd
}

func newDesignReviewCommand(a *app) *cobra.Command {
	var model, viewport, wait, prompt, screenshotsDir, reviewsDir string
	var fullPage, noFullPage bool
	cmd := &cobra.Command{
		Use:   "design-review <url>",
		Short: "Screenshot a page and save design feedback from a vision model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := config.RequireGeminiKey()
			if err != nil {
				return credentialError(err)
			}
			opts := a.cfg.DesignReview
			waitMS := opts.WaitMS
			if cmd.Flags().Changed("wait") {
				waitMS = pipeline.ParseLeadingInt(wait, 0)
			}
			full := opts.FullPage
			if cmd.Flags().Changed("full-page") {
				full = fullPage
			}
			if noFullPage {
				full = false
			}
			logger := a.logger.Named("design-review")
			p := &pipeline.DesignReview{
				Screenshotter:  newScreenshotter(a.cfg, logger),
				Reviewer:       newReviewer(a.cfg, key),
				ScreenshotsDir: a.cfg.Dir(flagOr(cmd, "screenshots-dir", screenshotsDir, a.cfg.ScreenshotsDir)),
				ReviewsDir:     a.cfg.Dir(flagOr(cmd, "reviews-dir", reviewsDir, a.cfg.ReviewsDir)),
				Now:            nowFunc,
				Logger:         logger,
			}
			res, err := p.Run(cmd.Context(), pipeline.ReviewRequest{
				URL:      args[0],
				Viewport: flagOr(cmd, "viewport", viewport, opts.Viewport),
				FullPage: full,
				Wait:     time.Duration(waitMS) * time.Millisecond,
				Model:    flagOr(cmd, "model", model, opts.Model),
				Prompt:   flagOr(cmd, "prompt", prompt, opts.Prompt),
			})
			if err != nil {
				return runError(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Saved screenshot: %s\n", res.ScreenshotPath)
			fmt.Fprintf(out, "Saved feedback: %s\n", res.ReviewPath)
			fmt.Fprintln(out)
			fmt.Fprintln(out, res.Feedback)
			return nil
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "gemini-2.5-flash", "Gemini model")
	cmd.Flags().StringVarP(&viewport, "viewport", "v", "1280x720", "viewport size WIDTHxHEIGHT")
	cmd.Flags().BoolVar(&fullPage, "full-page", true, "capture the full page")
	cmd.Flags().BoolVar(&noFullPage, "no-full-page", false, "capture only the viewport")
	cmd.Flags().StringVarP(&wait, "wait", "w", "1500", "extra wait in ms after load")
	cmd.Flags().StringVar(&prompt, "prompt", config.DefaultReviewPrompt, "review prompt")
	cmd.Flags().StringVar(&screenshotsDir, "screenshots-dir", "screenshots", "screenshots output directory")
	cmd.Flags().StringVar(&reviewsDir, "reviews-dir", "reviews", "reviews output directory")
	return cmd
}

func newLibraryCommand(a *app) *cobra.Command {
	libCmd := &cobra.Command{Use: "library", Short: "Browse saved research"}

	var search string
	var asJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List index entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := library.NewStore(a.cfg.LibraryPath(), a.logger).Search(search)
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, entries)
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %s  %s\n", e.ID, e.CreatedAt, e.Query)
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&search, "search", "", "only entries whose query contains this text")
	listCmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one index entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, ok := library.NewStore(a.cfg.LibraryPath(), a.logger).Find(args[0])
			if !ok {
				return cliError{code: exitGeneric, err: fmt.Errorf("no library entry with id %q", args[0])}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:      %s\n", e.ID)
			fmt.Fprintf(out, "Query:   %s\n", e.Query)
			fmt.Fprintf(out, "Date:    %s\n", e.CreatedAt)
			fmt.Fprintf(out, "Model:   %s\n", e.Model)
			fmt.Fprintf(out, "File:    %s\n", a.cfg.Dir(filepath.FromSlash(e.File)))
			fmt.Fprintln(out, "Sources:")
			if len(e.Sources) == 0 {
				fmt.Fprintln(out, "  (none)")
			}
			for _, s := range e.Sources {
				if s.Title != "" {
					fmt.Fprintf(out, "  %s (%s)\n", s.Title, s.URL)
					continue
				}
				fmt.Fprintf(out, "  %s\n", s.URL)
			}
			return nil
		},
	}

	libCmd.AddCommand(listCmd)
	libCmd.AddCommand(showCmd)
	return libCmd
}

// flagOr returns the flag value when the user set it and fallback otherwise,
// so config file values beat flag defaults.
func flagOr(cmd *cobra.Command, name, value, fallback string) string {
	if cmd.Flags().Changed(name) || fallback == "" {
		return value
	}
	return fallback
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

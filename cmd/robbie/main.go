// Command robbie is a console chat client for Llama 3.1 models served by an
// OpenAI-compatible completion endpoint (or Gemini).
//
// Usage:
//
//	robbie [flags]
//
// Flags:
//
//	-config string     Path to the TOML config file (default: robbie.toml)
//	-provider string   Backend: openai, gemini (default: openai)
//	-api-key string    API key (overrides OPENAI_API_KEY / GEMINI_API_KEY)
//	-model string      Model ID (default: first model the server lists)
//	-thread string     Conversation thread ID (default: random UUID)
//	-no-markdown       Print replies verbatim instead of rendering markdown
//	-watch             Apply sampling changes from the config file while running
//
// Settings in the config file can be overridden with ROBBIE_* environment
// variables, which may also be placed in a .env file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/fwojciec/robbie"
	bt "github.com/fwojciec/robbie/bubbletea"
	"github.com/fwojciec/robbie/goldmark"
	"github.com/fwojciec/robbie/term"
	"github.com/fwojciec/robbie/toml"
	"github.com/joho/godotenv"
	xterm "golang.org/x/term"
)

const defaultConfigPath = "robbie.toml"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, diagnostic(err, xterm.IsTerminal(int(os.Stderr.Fd()))))
		os.Exit(1)
	}
}

// diagnostic formats a fatal error, in the theme's error color when styled.
func diagnostic(err error, styled bool) string {
	msg := fmt.Sprintf("robbie: %v", err)
	if !styled {
		return msg
	}
	return bt.NewStyles(robbie.DefaultTheme()).Error.Render(msg)
}

func run() error {
	var (
		configPath   = flag.String("config", defaultConfigPath, "Path to the TOML config file")
		providerFlag = flag.String("provider", providerOpenAI, "Backend: openai, gemini")
		apiKey       = flag.String("api-key", "", "API key (overrides provider's env var)")
		model        = flag.String("model", "", "Model ID (default: first listed)")
		threadID     = flag.String("thread", "", "Conversation thread ID (default: random UUID)")
		noMarkdown   = flag.Bool("no-markdown", false, "Print replies without markdown rendering")
		watch        = flag.Bool("watch", false, "Reload sampling settings when the config file changes")
	)
	flag.Parse()

	// A missing .env is fine; a malformed one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := toml.Load(*configPath, os.Getenv)
	if err != nil {
		return err
	}
	logger := robbie.NewLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	backend, err := resolveBackend(ctx, backendParams{
		provider:  *providerFlag,
		apiKey:    *apiKey,
		baseURL:   cfg.BaseURL,
		openaiKey: os.Getenv("OPENAI_API_KEY"),
		geminiKey: os.Getenv("GEMINI_API_KEY"),
	}, logger)
	if err != nil {
		return err
	}

	tm := term.New(os.Stdin, os.Stdout)
	if !tm.IsTerminal() {
		return errors.New("stdin is not a terminal")
	}

	theme := robbie.DefaultTheme()
	styles := bt.NewStyles(theme)
	name := cfg.Title.Name
	prompt := robbie.DefaultPrompt

	opts := []robbie.Option{
		robbie.WithOutput(os.Stdout),
		robbie.WithSampling(cfg.Sampling()),
		robbie.WithSystemPrompt(cfg.SystemPrompt),
		robbie.WithThreadID(*threadID),
		robbie.WithModel(*model),
		robbie.WithLogger(logger),
	}
	if xterm.IsTerminal(int(os.Stdout.Fd())) {
		name = styles.Assistant.Render(name)
		prompt = styles.Prompt.Render(prompt)
		opts = append(opts, robbie.WithWaiter(bt.NewWaiter(os.Stdout, theme).Wait))
		if !*noMarkdown {
			opts = append(opts, robbie.WithRenderer(goldmark.New(theme, tm.Width(80)).Render))
		}
	}
	opts = append(opts, robbie.WithAssistantName(name))

	reader := robbie.NewLineReader(tm, robbie.WithPrompt(prompt))
	loop := robbie.NewLoop(reader, backend, opts...)
	logger.Debug("starting", "provider", *providerFlag, "base_url", cfg.BaseURL, "config", *configPath)

	if *watch && *configPath != "" {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			err := toml.Watch(watchCtx, *configPath, os.Getenv, func(c robbie.Config) {
				loop.SetSampling(c.Sampling())
			}, logger)
			if err != nil {
				logger.Warn("config watch stopped", "err", err)
			}
		}()
	}

	err = loop.Run(ctx)
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		// Interrupted while waiting for a reply.
		fmt.Fprintln(os.Stdout)
		return nil
	}
	return err
}

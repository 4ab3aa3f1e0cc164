// Command jobfit answers resume questions and analyzes job URLs from the
// command line, using the same services as the server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/jobfit/backend/analyzer"
	"github.com/jobfit/backend/app"
	"github.com/jobfit/backend/config"
	"github.com/jobfit/backend/logger"
	"github.com/jobfit/backend/rag"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	dataDir := flag.String("data-dir", cfg.DataDir, "folder holding the resume PDFs")
	question := flag.String("ask", "", "question to answer from the resumes")
	jobURL := flag.String("analyze", "", "job posting URL to analyze")
	logLevel := flag.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	pretty := flag.Bool("pretty", true, "human readable logs")
	playful := flag.Bool("playful", cfg.PlayfulResponses, "wrap answers in a playful framing")
	flag.Parse()

	if *question == "" && *jobURL == "" {
		fmt.Fprintln(os.Stderr, "usage: jobfit [--data-dir DIR] (--ask QUESTION | --analyze URL)")
		flag.PrintDefaults()
		os.Exit(2)
	}

	format := cfg.LogFormat
	if *pretty {
		format = "pretty"
	}
	logger.Init(logger.Config{Level: *logLevel, Format: format, Output: os.Stderr})
	logEnvFile(envErr)

	cfg.DataDir = *dataDir
	if err := cfg.ValidateServices(); err != nil {
		logger.Fatal().Err(err).Msg("configuration error")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services, err := app.Build(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize services")
	}
	defer services.Close()

	code := 0
	if *jobURL != "" {
		if err := analyze(ctx, services.Analyzer, *jobURL); err != nil {
			code = 1
		}
	}
	if *question != "" {
		if err := ask(ctx, services, *question, *playful); err != nil {
			code = 1
		}
	}

	services.Close()
	os.Exit(code)
}

// logEnvFile records why the .env file was not loaded
func logEnvFile(err error) {
	if err != nil {
		logger.Debug().Err(err).Msg("no .env file loaded, using environment variables")
	}
}

func analyze(ctx context.Context, a *analyzer.Analyzer, url string) error {
	analysis, err := a.AnalyzeURL(ctx, url)
	if err != nil {
		logger.Error().Err(err).Str("url", url).Msg(analyzer.FailureMessage(err))
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(analysis.Details)
}

func ask(ctx context.Context, services *app.App, question string, playful bool) error {
	if err := services.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to build the resume index")
		return err
	}

	answer, err := services.RAG.Ask(ctx, question)
	if err != nil {
		logger.Error().Err(err).Msg("failed to generate response")
		return err
	}

	text := answer.Text
	if playful {
		text = rag.Flavor(text)
	}
	fmt.Println(text)
	return nil
}

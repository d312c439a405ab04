package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/docstruct/doc-structurer/internal/config"
	"github.com/docstruct/doc-structurer/internal/export"
	"github.com/docstruct/doc-structurer/internal/llm/openai"
	"github.com/docstruct/doc-structurer/internal/pdftext"
	"github.com/docstruct/doc-structurer/internal/pipeline"
)

// One-shot runner: docstruct <input.pdf> [output.xlsx]. Credential comes
// from DOCSTRUCT_OPENAI_API_KEY or OPENAI_API_KEY.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: docstruct <input.pdf> [output.xlsx]")
		os.Exit(2)
	}
	inPath := os.Args[1]
	outPath := "Structured_Output.xlsx"
	if len(os.Args) >= 3 {
		outPath = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(2)
	}
	if strings.TrimSpace(cfg.OpenAI.APIKey) == "" {
		logger.Error("OPENAI_API_KEY env var is required")
		os.Exit(2)
	}

	pdfBytes, err := os.ReadFile(inPath)
	if err != nil {
		logger.Error("read input", "path", inPath, "error", err)
		os.Exit(1)
	}

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
		Timeout:     cfg.OpenAI.Timeout,
		Lenient:     true,
	}, logger)
	processor := pipeline.NewProcessor(logger, pdftext.NewExtractor(logger), client, export.NewService(logger))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	result, err := processor.Process(ctx, pdfBytes)
	if err != nil {
		logger.Error("pipeline.run.error", "path", inPath, "err", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outPath, result.XLSX, 0o644); err != nil {
		logger.Error("write output", "path", outPath, "error", err)
		os.Exit(1)
	}

	logger.Info("done",
		"input", inPath,
		"output", outPath,
		"records", len(result.Records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}

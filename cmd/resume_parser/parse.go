package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/parser"
	"github.com/jonathan/resume-parser/internal/store"
	"github.com/jonathan/resume-parser/internal/types"
)

var (
	parseInputFile  string
	parseOutputFile string
	parseNoAI       bool
	parseEnhance    bool
	parseOCR        bool
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a resume file into structured JSON",
	Long:  "Parse a single resume file (PDF, DOCX, TXT or image) and print the structured result as JSON. Uses the configured LLM provider when available, falling back to regex extraction.",
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseInputFile, "in", "i", "", "Path to resume file (required)")
	parseCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	parseCmd.Flags().BoolVar(&parseNoAI, "no-ai", false, "Skip LLM extraction and use the regex fallback")
	parseCmd.Flags().BoolVar(&parseEnhance, "enhance", false, "Run AI enhancement on the parsed resume")
	parseCmd.Flags().BoolVar(&parseOCR, "ocr", false, "Run OCR on image files (requires tesseract)")

	if err := parseCmd.MarkFlagRequired("in"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	content, err := os.ReadFile(parseInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	ctx := context.Background()

	var client llm.Client
	if !parseNoAI {
		client, err = newLLMClient(ctx, cfg)
		if err != nil {
			return err
		}
		if client != nil {
			defer client.Close()
		} else {
			fmt.Fprintln(os.Stderr, "Warning: no LLM provider configured, using regex fallback")
		}
	}

	svc := parser.NewService(client, store.NewMemoryStore(), parser.Config{
		MaxConcurrent: 1,
		DefaultOCR:    parseOCR,
		TesseractCmd:  cfg.TesseractCmd,
	})

	opts := types.ParseOptions{
		PerformOCR:    &parseOCR,
		EnhanceWithAI: &parseEnhance,
	}
	resume, err := svc.ParseSync(ctx, content, filepath.Base(parseInputFile), opts)
	if err != nil {
		return fmt.Errorf("failed to parse resume: %w", err)
	}
	if resume.Status == types.StatusFailed {
		return fmt.Errorf("parsing failed: %s", resume.Error)
	}

	out, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if parseOutputFile == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(parseOutputFile, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", parseOutputFile)
	return nil
}

// newLLMClient builds the configured provider client, or nil when no
// provider is configured.
func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		llmCfg := llm.DefaultOpenAIConfig()
		llmCfg.Temperature = cfg.Temperature
		llmCfg.MaxTokens = cfg.MaxTokens
		llmCfg.Timeout = cfg.LLMTimeout
		if cfg.OpenAIModel != "" {
			llmCfg = llmCfg.WithModel(llm.TierStandard, cfg.OpenAIModel)
		}
		return llm.NewClient(ctx, llmCfg, cfg.OpenAIAPIKey)
	case "gemini":
		llmCfg := llm.DefaultGeminiConfig()
		llmCfg.Temperature = cfg.Temperature
		llmCfg.MaxTokens = cfg.MaxTokens
		llmCfg.Timeout = cfg.LLMTimeout
		return llm.NewClient(ctx, llmCfg, cfg.GeminiAPIKey)
	default:
		return nil, nil
	}
}

package main

// Run one analysis against the configured provider:
//   go run ./cmd/prompttest -kind financial_data -input request.json
// Print the rendered prompt without calling a model:
//   go run ./cmd/prompttest -kind task_timeline -input request.json -render

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"bizops-backend/internal/analysis"
	"bizops-backend/internal/bootstrap"
	"bizops-backend/internal/sentiment"
	"bizops-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()

	kind := flag.String("kind", "", "Analysis kind ("+kindList()+")")
	inputPath := flag.String("input", "", "Path to a JSON request body ('-' for stdin)")
	render := flag.Bool("render", false, "Print the prompt instead of calling the model")
	outPath := flag.String("out", "", "Path to write JSON output (optional)")
	provider := flag.String("provider", cfg.LLMProvider, "LLM provider")
	model := flag.String("model", cfg.LLMModel, "LLM model")
	timeout := flag.Duration("timeout", cfg.AnalysisTimeout, "Analysis timeout")
	flag.Parse()

	if strings.TrimSpace(*kind) == "" {
		exitErr("kind is required: " + kindList())
	}
	raw, err := readInput(*inputPath)
	if err != nil {
		exitErr(err.Error())
	}

	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(*provider))
	cfg.LLMModel = *model

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	completer, err := bootstrap.BuildCompleter(ctx, cfg)
	if err != nil {
		exitErr(err.Error())
	}
	svc := analysis.NewService(completer, sentiment.New(), analysis.Options{HourlyRate: cfg.HourlyRate})

	if *render {
		spec, err := svc.Preview(ctx, analysis.Kind(*kind), raw)
		if err != nil {
			exitErr(fmt.Sprintf("render prompt: %v", err))
		}
		fmt.Printf("# role (%s)\n%s\n\n# prompt\n%s\n", spec.Hash(), spec.RoleInstruction, spec.Instruction)
		return
	}

	start := time.Now()
	ctx, obs := analysis.Observe(ctx)
	result, err := svc.Run(ctx, analysis.Kind(*kind), raw)
	if err != nil {
		exitErr(fmt.Sprintf("run analysis: %v", err))
	}
	fmt.Fprintf(os.Stderr, "outcome=%s reason=%s duration=%s\n", obs.Outcome, obs.Reason, time.Since(start).Round(time.Millisecond))

	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("format json: %v", err))
	}
	pretty = append(pretty, '\n')

	if *outPath != "" {
		if err := os.WriteFile(*outPath, pretty, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}
	if _, err := os.Stdout.Write(pretty); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
}

func readInput(path string) ([]byte, error) {
	switch strings.TrimSpace(path) {
	case "":
		return nil, fmt.Errorf("input path is required")
	case "-":
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return raw, nil
	default:
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		return raw, nil
	}
}

func kindList() string {
	kinds := analysis.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

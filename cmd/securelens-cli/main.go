package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/securelens/internal/audio"
	"github.com/mikey/securelens/internal/config"
	"github.com/mikey/securelens/internal/core"
	"github.com/mikey/securelens/internal/di"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	cfg *config.Config,
	analysis *core.AnalysisService,
	speech *core.SpeechService,
) error {
	defer logger.Sync()

	text, err := readText(flags, logger)
	if err != nil {
		return err
	}

	var image string
	if flags.ImageFile != "" {
		image, err = readImage(flags.ImageFile)
		if err != nil {
			return err
		}
		logger.Info("Read image", zap.String("file", flags.ImageFile))
	}

	ctx := context.Background()
	startTime := time.Now()

	result, err := analysis.Analyze(ctx, text, image)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	duration := time.Since(startTime)

	if flags.JSONOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printReport(result, cfg.GetString("llm.provider"), duration)
	}

	if flags.SpeakOut != "" {
		if err := writeSpeech(ctx, speech, result, flags.SpeakOut); err != nil {
			return err
		}
		logger.Info("Wrote spoken summary", zap.String("file", flags.SpeakOut))
	}

	return nil
}

// readText returns the -text value, the -file contents, or stdin when no input flag is set
func readText(flags *di.CLIFlags, logger *zap.Logger) (string, error) {
	if flags.Text != "" {
		return flags.Text, nil
	}

	var r io.Reader
	switch {
	case flags.InputFile != "":
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return "", fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		r = file
		logger.Info("Reading content from file", zap.String("file", flags.InputFile))
	case flags.ImageFile == "":
		r = os.Stdin
		logger.Info("Reading content from stdin")
	default:
		return "", nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

// readImage loads a screenshot as a data URL
func readImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%s is not an image (%s)", path, mimeType)
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)), nil
}

func writeSpeech(ctx context.Context, speech *core.SpeechService, result *core.AnalysisResult, path string) error {
	if speech == nil {
		return fmt.Errorf("speech is disabled")
	}
	encoded, ok := speech.SynthesizeReport(ctx, result)
	if !ok {
		return fmt.Errorf("speech synthesis failed")
	}
	buf, err := audio.Decode(encoded)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := audio.WriteWAV(file, buf); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func printReport(result *core.AnalysisResult, provider string, duration time.Duration) {
	fmt.Printf("\n=== Analysis ===\n")
	fmt.Printf("Provider: %s\n", provider)
	fmt.Printf("Risk score: %d/100\n", result.RiskScore)
	fmt.Printf("Risk level: %s\n", result.RiskLevel)
	fmt.Printf("Confidence: %d%%\n", result.ConfidenceScore)
	fmt.Printf("Scam type: %s\n", result.ScamType)
	fmt.Printf("Safe: %t\n", result.IsSafe)
	fmt.Printf("Summary: %s\n", result.Summary)

	if len(result.RedFlags) > 0 {
		fmt.Printf("\n=== Red Flags ===\n")
		for _, f := range result.RedFlags {
			fmt.Printf("[%s] %s: %s\n", f.Severity, f.Title, f.Description)
		}
	}

	td := result.TechnicalDetails
	fmt.Printf("\n=== Technical Details ===\n")
	fmt.Printf("Domain: %s\n", td.DomainAnalysis)
	if td.SSLAnalysis != "" {
		fmt.Printf("SSL: %s\n", td.SSLAnalysis)
	}
	fmt.Printf("Grammar: %s\n", td.GrammarAnalysis)
	fmt.Printf("Urgency: %s\n", td.UrgencyAnalysis)
	fmt.Printf("Sender: %s\n", td.SenderAnalysis)

	if len(result.Recommendations) > 0 {
		fmt.Printf("\n=== Recommendations ===\n")
		for i, r := range result.Recommendations {
			fmt.Printf("%d. %s\n", i+1, r)
		}
	}

	if len(result.ExternalReferences) > 0 {
		fmt.Printf("\n=== Sources ===\n")
		for _, ref := range result.ExternalReferences {
			fmt.Printf("- %s (%s)\n", ref.Title, ref.URI)
		}
	}

	fmt.Printf("\nProcessing time: %v\n", duration)
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/fatih/color"

	"contextlab/internal/config"
	"contextlab/internal/core/domain"
	"contextlab/internal/core/ports"
	"contextlab/internal/core/usecase"
	"contextlab/internal/dataset"
	"contextlab/internal/diffview"
	"contextlab/internal/infrastructure/llm/openai"
	"contextlab/internal/infrastructure/storage/localfs"
	"contextlab/internal/prompt"
	"contextlab/internal/report"
	"contextlab/internal/strategy"
)

const usage = `usage: labctl <command> [args]

commands:
  predict  <text>                  predict the strategy for one sentence
  classify <prompt>                classify an instruction prompt
  tokens   [sentence]              compare prompt token cost per strategy
  diff     <from> <to> <sentence>  diff two strategy prompts
  compare  [-dataset name|path]    evaluate every strategy arm end to end
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "predict":
		err = runPredict(os.Args[2:])
	case "classify":
		err = runClassify(os.Args[2:])
	case "tokens":
		err = runTokens(os.Args[2:])
	case "diff":
		err = runDiff(os.Args[2:])
	case "compare":
		err = runCompare(ctx, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func newPredictor(extended bool, threshold float64) ports.StrategyPredictor {
	if extended {
		return strategy.NewExtendedPredictor()
	}
	return strategy.NewPredictor().WithThreshold(threshold)
}

func runPredict(args []string) error {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	extended := fs.Bool("extended", false, "use the full strategy ladder")
	threshold := fs.Float64("threshold", strategy.DefaultThreshold, "complexity cutoff")
	_ = fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("predict: sentence argument required")
	}

	pred := newPredictor(*extended, *threshold).Predict(fs.Arg(0))

	color.Cyan("strategy:   %s", pred.Strategy)
	fmt.Printf("confidence: %.2f\n", pred.Confidence)
	fmt.Printf("complexity: %.2f\n", pred.ComplexityScore)
	fmt.Printf("reason:     %s\n", pred.Reason)
	if len(pred.MatchedPatterns) > 0 {
		fmt.Printf("patterns:   %v\n", pred.MatchedPatterns)
	}
	return nil
}

func runClassify(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("classify: prompt argument required")
	}

	rec := strategy.NewTaskClassifier().Recommend(args[0])

	color.Cyan("task type:  %s", rec.TaskType)
	fmt.Printf("confidence: %.2f\n", rec.Confidence)
	fmt.Printf("primary:    %s\n", rec.PrimaryStrategy)
	fmt.Printf("candidates: %v\n", rec.Strategies)
	fmt.Printf("reason:     %s\n", rec.Explanation)
	return nil
}

func runTokens(args []string) error {
	fs := flag.NewFlagSet("tokens", flag.ExitOnError)
	perThousand := fs.Float64("price", 0.03, "USD per thousand prompt tokens")
	datasetName := fs.String("dataset", dataset.BuiltinName, "dataset name or file path")
	_ = fs.Parse(args)

	var sentences []string
	if fs.NArg() > 0 {
		sentences = []string{fs.Arg(0)}
	} else {
		var err error
		sentences, err = dataset.NewSource().Sentences(*datasetName)
		if err != nil {
			return err
		}
	}

	baseline := 0
	for _, sentence := range sentences {
		baseline += prompt.EstimateTokens(prompt.Build(domain.StrategyBaseline, sentence))
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tTOKENS\tVS BASELINE\tCOST")
	for _, s := range domain.Strategies() {
		total := 0
		for _, sentence := range sentences {
			total += prompt.EstimateTokens(prompt.Build(s, sentence))
		}
		fmt.Fprintf(tw, "%s\t%d\t%+d\t$%.4f\n", s, total, total-baseline, prompt.CostUSD(total, *perThousand))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d sentence(s)\n", len(sentences))
	return nil
}

func runDiff(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("diff: from, to and sentence arguments required")
	}
	from, err := domain.ParseStrategy(args[0])
	if err != nil {
		return err
	}
	to, err := domain.ParseStrategy(args[1])
	if err != nil {
		return err
	}

	v := diffview.NewVisualizer()
	v.AddStrategy(from, args[2])
	v.AddStrategy(to, args[2])

	if err := v.WriteDiff(os.Stdout, string(from), string(to)); err != nil {
		return err
	}

	sim, err := v.Similarity(string(from), string(to))
	if err != nil {
		return err
	}
	fmt.Println()
	color.Cyan("similarity: %.2f", sim)
	return v.WriteEvolution(os.Stdout)
}

func runCompare(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	datasetName := fs.String("dataset", dataset.BuiltinName, "dataset name or file path")
	extended := fs.Bool("extended", false, "use the full strategy ladder")
	asJSON := fs.Bool("json", false, "print the raw report as JSON")
	save := fs.Bool("save", false, "write JSON and XLSX reports to the report dir")
	_ = fs.Parse(args)

	cfg := config.Load()
	llm := openai.New(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel,
		openai.WithTemperature(cfg.LLMTemperature),
		openai.WithRateLimit(cfg.LLMRateLimit, cfg.LLMRateBurst),
	)
	predictor := newPredictor(*extended, cfg.PredictorThreshold)

	uc := usecase.NewCompareStrategiesUseCase(dataset.NewSource(), llm, predictor)
	rep, err := uc.Compare(ctx, *datasetName)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return err
		}
	} else {
		printReport(rep)
	}

	if *save {
		store, err := localfs.New(cfg.ReportDir)
		if err != nil {
			return err
		}
		sink := report.NewSink(store)
		jsonPath, err := sink.WriteJSON(rep)
		if err != nil {
			return err
		}
		xlsxPath, err := sink.WriteXLSX(rep)
		if err != nil {
			return err
		}
		fmt.Printf("saved %s and %s\n", jsonPath, xlsxPath)
	}
	return nil
}

func printReport(rep *domain.ComparisonReport) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ARM\tSUCCESS\tSCORE\tTOKENS\tEFFICIENCY\tPICKS")
	for _, row := range rep.Rows {
		fmt.Fprintf(tw, "%s\t%.0f%%\t%d/%d\t%d\t%.2f\t%s\n",
			row.Label,
			row.SuccessRate*100,
			row.TotalScore, row.MaxScore,
			row.TotalTokens,
			row.Efficiency,
			report.StrategyCountLine(row.StrategyCounts),
		)
	}
	_ = tw.Flush()

	fmt.Println()
	color.Green("best accuracy:   %s", rep.BestAccuracy)
	color.Green("best efficiency: %s", rep.BestEfficiency)
	color.Green("most economical: %s", rep.MostEconomical)
}

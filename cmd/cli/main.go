// Package main provides the quote-cli tool.
// Uses Cobra for command parsing.
//
// Run with: go run ./cmd/cli generate --theme "Art & Creativity" --era 1980-2000 --count 3
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleveque/quote-service/internal/app"
	"github.com/fleveque/quote-service/internal/config"
	"github.com/fleveque/quote-service/internal/model"
	"github.com/fleveque/quote-service/internal/provider"
	"github.com/fleveque/quote-service/internal/service"
	"github.com/fleveque/quote-service/internal/session"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCmd builds the command tree:
// quote-cli generate --theme ... --era ...
// quote-cli catalog
// quote-cli stats
func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "quote-cli",
		Short: "Daily quote generator",
	}

	root.AddCommand(generateCmd(), catalogCmd(), statsCmd())
	return root
}

type generateOptions struct {
	theme       string
	era         string
	model       string
	temperature float64
	count       int
	saveImage   string
	cardWidth   int
}

func generateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate quotes with matching images",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("model") {
				opts.model = cfg.Generation.DefaultModel
			}
			if !cmd.Flags().Changed("temperature") {
				opts.temperature = cfg.Generation.DefaultTemperature
			}
			return runGenerate(cmd, cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.theme, "theme", model.Themes[0].Label, "Quote theme")
	cmd.Flags().StringVar(&opts.era, "era", model.Eras[0], "Time period")
	cmd.Flags().StringVar(&opts.model, "model", "", "Text generation model (default from config)")
	cmd.Flags().Float64Var(&opts.temperature, "temperature", 0, "Creativity between 0 and 1 (default from config)")
	cmd.Flags().IntVar(&opts.count, "count", 1, "Number of quotes to generate in this session")
	cmd.Flags().StringVar(&opts.saveImage, "save-image", "", "Directory to write a PNG card of each image into")
	cmd.Flags().IntVar(&opts.cardWidth, "card-width", 800, "Width in pixels of saved image cards")
	return cmd
}

func runGenerate(cmd *cobra.Command, cfg *config.Config, opts generateOptions) error {
	if opts.count < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// Ctrl+C cancels the in-flight cycle
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	var cards *service.ImageProcessor
	if opts.saveImage != "" {
		if err := os.MkdirAll(opts.saveImage, 0755); err != nil {
			return fmt.Errorf("creating image directory: %w", err)
		}
		cards = service.NewImageProcessor(opts.cardWidth)
	}
	httpClient := &http.Client{Timeout: cfg.ImageSearch.Timeout}

	// One process is one session: prior quotes accumulate across --count cycles.
	sess := session.New()
	req := model.GenerationRequest{
		Theme:       opts.theme,
		Era:         opts.era,
		Model:       opts.model,
		Temperature: opts.temperature,
	}

	out := cmd.OutOrStdout()
	for i := 1; i <= opts.count; i++ {
		result, err := a.Quotes.Generate(ctx, sess, req)
		if err != nil {
			if errors.Is(err, service.ErrInvalidRequest) {
				return err
			}
			logger.Error("quote generation failed", zap.Int("cycle", i), zap.Error(err))
			return errors.New("an error occurred while generating your quote")
		}

		printResult(out, i, result)

		if cards != nil && result.HasImage() {
			path := filepath.Join(opts.saveImage, fmt.Sprintf("quote-%d.png", i))
			if err := saveCard(ctx, httpClient, cards, result.ImageURL, path); err != nil {
				logger.Warn("saving image card", zap.String("url", result.ImageURL), zap.Error(err))
				continue
			}
			fmt.Fprintf(out, "Saved: %s\n", path)
		}
	}

	return nil
}

func printResult(out io.Writer, n int, r *model.GenerationResult) {
	fmt.Fprintf(out, "\n#%d  %q\n", n, r.Quote.Text)
	if r.Quote.Author != "" {
		fmt.Fprintf(out, "    by %s\n", r.Quote.Author)
	}
	if r.Quote.Context != "" {
		fmt.Fprintf(out, "    %s\n", r.Quote.Context)
	}
	if r.HasImage() {
		fmt.Fprintf(out, "Image: %s\n", r.ImageURL)
	} else {
		fmt.Fprintln(out, "Could not generate a relevant image.")
	}
	if r.Repeated {
		fmt.Fprintln(out, "(the model repeated an earlier quote)")
	}
}

func saveCard(ctx context.Context, client *http.Client, cards *service.ImageProcessor, url, path string) error {
	data, err := provider.DownloadImage(ctx, client, url)
	if err != nil {
		return err
	}

	card, err := cards.Card(data)
	if err != nil {
		return err
	}

	return os.WriteFile(path, card, 0644)
}

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List themes, eras and configured models",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "THEME\tDESCRIPTION")
			for _, t := range model.Themes {
				fmt.Fprintf(w, "%s\t%s\n", t.Label, t.Description)
			}
			fmt.Fprintln(w, "\nERA\t")
			for _, e := range model.Eras {
				fmt.Fprintf(w, "%s\t\n", e)
			}
			fmt.Fprintln(w, "\nMODEL\tPROVIDER")
			for _, m := range cfg.LLM.Models {
				marker := ""
				if m.Name == cfg.Generation.DefaultModel {
					marker = " (default)"
				}
				fmt.Fprintf(w, "%s%s\t%s\n", m.Name, marker, m.Provider)
			}
			return w.Flush()
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show LLM call counts from the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Storage.DatabasePath == "" {
				return errors.New("call ledger is disabled: set storage.database_path")
			}

			db, calls, err := app.OpenLedger(cfg.Storage.DatabasePath)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			total, err := calls.Count(ctx)
			if err != nil {
				return fmt.Errorf("counting llm calls: %w", err)
			}
			stats, err := calls.StatsByModel(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Total calls: %d\n\n", total)
			fmt.Fprintln(w, "MODEL\tPURPOSE\tCALLS\tFAILURES\tAVG MS")
			for _, s := range stats {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", s.Model, s.Purpose, s.Calls, s.Failures, s.AvgMillis)
			}
			return w.Flush()
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(os.Getenv("QUOTE_CONFIG_PATH"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mark3labs/smartagri/internal/farm"
	"github.com/mark3labs/smartagri/internal/history"
	"github.com/mark3labs/smartagri/internal/logger"
	"github.com/mark3labs/smartagri/internal/recommend"
	"github.com/mark3labs/smartagri/internal/results"
	"github.com/mark3labs/smartagri/internal/state"
	"github.com/mark3labs/smartagri/internal/tui"
	"github.com/mark3labs/smartagri/internal/wizard"
)

var recommendFlags struct {
	headless  bool
	quick     bool
	noHistory bool
	fresh     bool
	width     int
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Get crop recommendations for a farm",
	Long: `Get crop recommendations for a farm.

By default a full-screen wizard walks through location, soil, and weather.
Field flags pre-fill the wizard. With --headless the same steps run without
a terminal UI and the report is printed as markdown; --quick uses the
service's quick endpoint, which ignores district, land size, and previous crop.`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().BoolVar(&recommendFlags.headless, "headless", false, "Run without TUI and print the report")
	recommendCmd.Flags().BoolVar(&recommendFlags.quick, "quick", false, "Use the quick endpoint (implies --headless)")
	recommendCmd.Flags().BoolVar(&recommendFlags.noHistory, "no-history", false, "Do not save this recommendation")
	recommendCmd.Flags().BoolVar(&recommendFlags.fresh, "fresh", false, "Start from defaults instead of the last submitted inputs")
	recommendCmd.Flags().IntVar(&recommendFlags.width, "width", 100, "Report width for headless output")
	registerFieldFlags(recommendCmd.Flags())
}

func runRecommend(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.flushMetrics()

	ui := state.Load(e.cfg.DataDir)
	fields := farm.New()
	if !recommendFlags.fresh {
		ui.Restore(fields)
	}
	if err := applyFieldFlags(cmd.Flags(), fields); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *history.Store
	if e.cfg.History && !recommendFlags.noHistory {
		s, closeHistory, err := e.openHistory(ctx)
		if err != nil {
			logger.Warn("History disabled: %v", err)
		} else {
			store = s
		}
		defer closeHistory()
	}

	save := func(ctx context.Context, endpoint string, req recommend.Request, res *recommend.Result) error {
		ui.Remember(req)
		if err := state.Save(e.cfg.DataDir, ui); err != nil {
			logger.Warn("Failed to remember inputs: %v", err)
		}
		if store == nil {
			return nil
		}
		rec, err := store.Save(ctx, endpoint, req, res)
		if err != nil {
			return err
		}
		logger.Info("Saved recommendation %s", rec.ID)
		return nil
	}

	switch {
	case recommendFlags.quick:
		return runQuick(ctx, e, fields.Snapshot(), save)
	case recommendFlags.headless:
		return runHeadless(ctx, e, fields, save)
	}

	return tui.Run(ctx, e.client,
		tui.WithTranslator(e.tr),
		tui.WithFields(fields),
		tui.WithOnResult(func(ctx context.Context, req recommend.Request, res *recommend.Result) error {
			return save(ctx, recommend.EndpointRecommend, req, res)
		}),
	)
}

type saveFunc func(ctx context.Context, endpoint string, req recommend.Request, res *recommend.Result) error

// runHeadless walks the wizard from the flag values and prints the report.
func runHeadless(ctx context.Context, e *env, fields *farm.Model, save saveFunc) error {
	var sent recommend.Request
	w := wizard.New(wizard.SubmitterFunc(func(ctx context.Context, req recommend.Request) (*recommend.Result, error) {
		sent = req
		return e.client.Submit(ctx, req)
	}), wizard.WithTranslator(e.tr), wizard.WithFields(fields))
	defer w.Dispose()

	for w.Step() != wizard.StepResults {
		if err := w.Next(ctx); err != nil {
			var vf *wizard.ValidationFailedError
			if errors.As(err, &vf) {
				return vf
			}
			logger.Error("Recommendation failed: %v", err)
			return errors.New(w.ErrorMessage())
		}
	}

	if err := save(ctx, recommend.EndpointRecommend, sent, w.Result()); err != nil {
		logger.Warn("Failed to save recommendation: %v", err)
	}
	fmt.Print(results.RenderMarkdown(results.Markdown(w.Result(), e.tr), recommendFlags.width))
	return nil
}

// runQuick submits the flat quick request directly.
func runQuick(ctx context.Context, e *env, values farm.Values, save saveFunc) error {
	if values.State == "" {
		return errors.New("--state is required")
	}

	res, err := e.client.SubmitQuick(ctx, recommend.BuildQuick(values))
	if err != nil {
		var ve *recommend.ValidationError
		if errors.As(err, &ve) && ve.Message != "" {
			return errors.New(ve.Message)
		}
		logger.Error("Quick recommendation failed: %v", err)
		return errors.New(e.tr.T("recommendation_failed"))
	}
	if res == nil {
		return errors.New(e.tr.T("recommendation_failed"))
	}

	if err := save(ctx, recommend.EndpointQuick, recommend.Build(values), res); err != nil {
		logger.Warn("Failed to save recommendation: %v", err)
	}
	fmt.Print(results.RenderMarkdown(results.Markdown(res, e.tr), recommendFlags.width))
	return nil
}

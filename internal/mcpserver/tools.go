package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mark3labs/smartagri/internal/farm"
	"github.com/mark3labs/smartagri/internal/history"
	"github.com/mark3labs/smartagri/internal/i18n"
	"github.com/mark3labs/smartagri/internal/logger"
	"github.com/mark3labs/smartagri/internal/recommend"
	"github.com/mark3labs/smartagri/internal/results"
	"github.com/mark3labs/smartagri/internal/wizard"
)

const defaultHistoryLimit = 20

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("recommend_crops", recommendOptions()...),
		s.handleRecommendCrops,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_history",
			mcp.WithDescription("List saved crop recommendations, newest first"),
			mcp.WithString("state", mcp.Description("Only list recommendations for this state")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of records (default 20)")),
		),
		s.handleListHistory,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("show_history",
			mcp.WithDescription("Show a saved crop recommendation as a markdown report"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Record id or unique id prefix")),
		),
		s.handleShowHistory,
	)
}

// recommendOptions derives one tool parameter per wizard field from the
// field metadata, so ranges and options never drift from the form.
func recommendOptions() []mcp.ToolOption {
	en := i18n.MustLoad("en")
	opts := []mcp.ToolOption{
		mcp.WithDescription("Recommend crops for a farm from its location, soil, and weather. " +
			"Omitted parameters use the form defaults."),
	}

	for _, f := range farm.Fields() {
		spec, _ := farm.Spec(f)
		desc := en.T(spec.LabelKey)
		if spec.Unit != "" {
			desc += " (" + spec.Unit + ")"
		}

		switch spec.Kind {
		case farm.KindNumber:
			opts = append(opts, mcp.WithNumber(string(f),
				mcp.Description(fmt.Sprintf("%s, %g to %g, default %v", desc, spec.Min, spec.Max, spec.Default)),
				mcp.Min(spec.Min),
				mcp.Max(spec.Max),
			))
		case farm.KindEnum:
			props := []mcp.PropertyOption{mcp.Description(desc), mcp.Enum(spec.Options...)}
			if f == farm.FieldState {
				props = append(props, mcp.Required())
			}
			opts = append(opts, mcp.WithString(string(f), props...))
		default:
			opts = append(opts, mcp.WithString(string(f), mcp.Description(desc)))
		}
	}
	return opts
}

// handleRecommendCrops fills a fresh wizard from the arguments and walks it to
// the results step.
func (s *Server) handleRecommendCrops(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("no arguments provided"), nil
	}

	var sent recommend.Request
	w := wizard.New(wizard.SubmitterFunc(func(ctx context.Context, req recommend.Request) (*recommend.Result, error) {
		sent = req
		return s.submitter.Submit(ctx, req)
	}), wizard.WithTranslator(s.tr))
	defer w.Dispose()

	for _, f := range farm.Fields() {
		raw, ok := args[string(f)]
		if !ok || raw == nil {
			continue
		}
		if err := w.Set(f, raw); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid %s: %v", f, err)), nil
		}
	}

	for range wizard.Steps {
		if w.Step() == wizard.StepResults {
			break
		}
		if err := w.Next(ctx); err != nil {
			var vf *wizard.ValidationFailedError
			if errors.As(err, &vf) {
				return mcp.NewToolResultError(vf.Error()), nil
			}
			return mcp.NewToolResultError(w.ErrorMessage()), nil
		}
	}

	res := w.Result()
	if res == nil {
		return mcp.NewToolResultError(i18n.Or(s.tr, "recommendation_failed", "Recommendation failed")), nil
	}

	report := results.Markdown(res, s.tr)
	if s.store != nil {
		rec, err := s.store.Save(ctx, recommend.EndpointRecommend, sent, res)
		if err != nil {
			logger.Warn("Failed to save recommendation to history: %v", err)
		} else {
			report += "\n_Saved as " + rec.ID + "_\n"
		}
	}
	return mcp.NewToolResultText(report), nil
}

func (s *Server) handleListHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return mcp.NewToolResultError("history is disabled"), nil
	}

	args := request.GetArguments()
	state, _ := args["state"].(string)
	limit := defaultHistoryLimit
	if l, ok := args["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	records, err := s.store.List(ctx, state, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list history: %v", err)), nil
	}
	if len(records) == 0 {
		return mcp.NewToolResultText(i18n.Or(s.tr, "no_history", "No saved recommendations yet")), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d saved recommendation(s):", len(records))
	for _, r := range records {
		fmt.Fprintf(&b, "\n  %s  %s  %s/%s  %s",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Request.State, r.Request.Weather.Season, r.TopCrop())
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleShowHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return mcp.NewToolResultError("history is disabled"), nil
	}

	id, _ := request.GetArguments()["id"].(string)
	if id == "" {
		return mcp.NewToolResultError("missing 'id' parameter"), nil
	}

	rec, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) || errors.Is(err, history.ErrAmbiguousID) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to load history: %v", err)), nil
	}
	return mcp.NewToolResultText(results.Markdown(&rec.Result, s.tr)), nil
}

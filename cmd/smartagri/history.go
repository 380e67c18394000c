package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mark3labs/smartagri/internal/history"
	"github.com/mark3labs/smartagri/internal/results"
)

var historyFlags struct {
	state string
	limit int
	width int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse saved recommendations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved recommendations, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved recommendation",
	Long:  "Show a saved recommendation. The id may be any unique prefix.",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDiffCmd = &cobra.Command{
	Use:   "diff <id> <id>",
	Short: "Compare the inputs of two saved recommendations",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistoryDiff,
}

func init() {
	historyListCmd.Flags().StringVar(&historyFlags.state, "state", "", "Only list recommendations for this state")
	historyListCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "Maximum number of records, 0 for all")
	historyShowCmd.Flags().IntVar(&historyFlags.width, "width", 100, "Report width")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDiffCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	store, closeHistory, err := e.openHistory(cmd.Context())
	defer closeHistory()
	if err != nil {
		return err
	}

	records, err := store.List(cmd.Context(), historyFlags.state, historyFlags.limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), e.tr.T("no_history"))
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tSTATE\tSEASON\tTOP CROP\tENDPOINT")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Request.State, r.Request.Weather.Season, r.TopCrop(), r.Endpoint)
	}
	return tw.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	store, closeHistory, err := e.openHistory(cmd.Context())
	defer closeHistory()
	if err != nil {
		return err
	}

	rec, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), results.RenderMarkdown(results.Markdown(&rec.Result, e.tr), historyFlags.width))
	return nil
}

func runHistoryDiff(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	store, closeHistory, err := e.openHistory(cmd.Context())
	defer closeHistory()
	if err != nil {
		return err
	}

	a, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	b, err := store.Get(cmd.Context(), args[1])
	if err != nil {
		return err
	}

	d, err := history.Diff(a, b)
	if err != nil {
		return err
	}
	if d == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Inputs are identical")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), d)
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/guide-engine/internal/history"
	"github.com/pdiddy/guide-engine/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded sync runs",
	Long: `History reads the sync run database. Use list for recent run summaries
and show for one run's extracted candidates.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sync runs, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(context.Background(), limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-4s  %-20s  %-8s  %-10s  %-8s  %-10s  %-9s\n",
		"ID", "Started", "Layers", "Candidates", "Updated", "Already", "Unmatched")
	for _, r := range runs {
		fmt.Fprintf(w, "%-4d  %-20s  %-8d  %-10d  %-8d  %-10d  %-9d\n",
			r.ID, r.StartedAt.Format(time.DateTime), r.Layers, r.Candidates,
			r.Updated, r.AlreadyHad, r.Unmatched)
	}
	return nil
}

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show the candidates extracted by one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	runID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run ID %q", args[0])
	}

	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	candidates, err := store.RunCandidates(context.Background(), runID)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(candidates)
	}

	w := cmd.OutOrStdout()
	for _, c := range candidates {
		coords := "-"
		if c.HasCoordinates() {
			coords = fmt.Sprintf("%.5f, %.5f", *c.Lat, *c.Lng)
		}
		placeID := c.PlaceID
		if placeID == "" {
			placeID = "-"
		}
		fmt.Fprintf(w, "%-16s  %-40s  %-22s  %s\n", c.FeatureID, c.Name, coords, placeID)
	}
	fmt.Fprintf(w, "\n%d candidates\n", len(candidates))
	return nil
}

func openHistory(cmd *cobra.Command) (*history.Store, error) {
	dataDir := stringSetting(cmd, "data-dir", "history.data_dir")
	maxRuns, _ := cmd.Flags().GetInt("limit")
	return history.NewStore(types.HistoryConfig{DataDir: dataDir, MaxRuns: maxRuns})
}

func init() {
	historyCmd.PersistentFlags().String("data-dir", "data", "base directory containing the history database")
	historyListCmd.Flags().Int("limit", 0, "maximum runs to list (0 = default)")
	historyShowCmd.Flags().Bool("json", false, "output candidates as JSON")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show persisted artifact statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	engine, err := openEngine()
	if err != nil {
		exitErr("open engine", err)
	}
	defer engine.Close()

	summary := engine.AnalyticsSummary()

	if formatFlag == "text" {
		fmt.Printf("causal chains: %d\n", summary.ChainCount)
		for chainType, n := range summary.ChainsByType {
			fmt.Printf("  %s: %d\n", chainType, n)
		}
		fmt.Printf("milestones: %d (avg significance %.3f)\n", summary.MilestoneCount, summary.AvgMilestoneSignificance)
		for milestoneType, n := range summary.MilestonesByType {
			fmt.Printf("  %s: %d\n", milestoneType, n)
		}
		fmt.Printf("emotional trajectories: %d\n", summary.TrajectoryCount)
		for trend, n := range summary.TrajectoriesByTrend {
			fmt.Printf("  %s: %d\n", trend, n)
		}
		return
	}

	b, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(b))
}

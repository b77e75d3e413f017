package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dan-solli/retrospect/pkg/fragment"
)

var sinceFlag string

func init() {
	cmd := &cobra.Command{
		Use:   "analyze <fragments.json>",
		Short: "Run all analyzers over a fragment batch",
		Long:  "Reads a JSON array of memory fragments, runs the full analysis pass, persists the durable artifacts, and prints the result.",
		Args:  cobra.ExactArgs(1),
		Run:   runAnalyze,
	}
	cmd.Flags().StringVar(&sinceFlag, "since", "", "Only analyze fragments created at or after this RFC3339 time")

	RootCmd.AddCommand(cmd)
}

// fileSource serves a JSON fragment file through the upstream source contract.
type fileSource struct {
	path string
}

func (s fileSource) Fragments(ctx context.Context, since time.Time) ([]fragment.Fragment, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read fragments: %w", err)
	}
	var frags []fragment.Fragment
	if err := json.Unmarshal(data, &frags); err != nil {
		return nil, fmt.Errorf("parse fragments: %w", err)
	}
	if since.IsZero() {
		return frags, nil
	}
	var kept []fragment.Fragment
	for _, f := range frags {
		if !f.CreatedAt.Before(since) {
			kept = append(kept, f)
		}
	}
	return kept, nil
}

func runAnalyze(cmd *cobra.Command, args []string) {
	var since time.Time
	if sinceFlag != "" {
		parsed, err := time.Parse(time.RFC3339, sinceFlag)
		if err != nil {
			exitErr("parse --since", err)
		}
		since = parsed
	}

	engine, err := openEngine()
	if err != nil {
		exitErr("open engine", err)
	}
	defer engine.Close()

	result, err := engine.AnalyzeSource(cmd.Context(), fileSource{path: args[0]}, since)
	if err != nil {
		exitErr("run analysis", err)
	}

	if formatFlag == "text" {
		fmt.Printf("pass %s: %d fragments in %s\n", result.PassID, result.FragmentCount, result.Duration.Round(0))
		fmt.Printf("  causal chains:          %d\n", len(result.Chains))
		fmt.Printf("  narrative arcs:         %d\n", len(result.Arcs))
		fmt.Printf("  emotional trajectories: %d\n", len(result.Trajectories))
		fmt.Printf("  milestones:             %d\n", len(result.Milestones))
		fmt.Printf("  goal arcs:              %d\n", len(result.GoalArcs))
		if result.SelfModel != nil {
			fmt.Printf("  narrative coherence:    %.3f\n", result.SelfModel.NarrativeCoherence)
		}
		return
	}

	b, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(b))
}

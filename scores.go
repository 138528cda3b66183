package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"snake-ai/stats"
)

var (
	flagLimit   int
	flagSession string
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the best recorded episodes",
	RunE:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of episodes to show")
	scoresCmd.Flags().StringVar(&flagSession, "session", "", "Only show episodes of this session")
}

func runScores(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := stats.Open(cfg.Stats.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	episodes, err := store.TopEpisodes(context.Background(), flagSession, flagLimit)
	if err != nil {
		return err
	}
	if len(episodes) == 0 {
		fmt.Println("No episodes recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSCORE\tGAME\tMEAN\tFRAMES\tSESSION\tDATE")
	for i, ep := range episodes {
		fmt.Fprintf(w, "%d\t%d\t%d\t%.2f\t%d\t%s\t%s\n",
			i+1, ep.Score, ep.Game, ep.MeanScore, ep.Frames,
			shortID(ep.SessionID), ep.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

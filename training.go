package main

import (
	"github.com/spf13/cobra"

	"snake-ai/stats"
	"snake-ai/training"
)

var flagLoad bool

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the agent until the window is closed or the process is interrupted",
	RunE:  runTrain,
}

func init() {
	trainCmd.Flags().BoolVar(&flagLoad, "load", false, "Resume from the saved checkpoint")
}

func runTrain(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("load") {
		cfg.Checkpoint.LoadOnStart = flagLoad
	}
	logger := newLogger(cfg)

	rt, err := newComponents(cfg, logger, cfg.Checkpoint.LoadOnStart)
	if err != nil {
		return err
	}
	defer rt.close()

	store, err := stats.Open(cfg.Stats.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signalContext()
	defer stop()

	if best, err := store.BestScore(ctx); err == nil && best > 0 {
		logger.Info("best score on record", "score", best)
	}

	session := training.NewSession()
	if r, ok := rt.display.(*Renderer); ok {
		r.Follow(session)
	}

	loop := training.NewLoop(rt.env, rt.agent,
		training.WithSession(session),
		training.WithDisplay(rt.display),
		training.WithEpisodeSink(store),
		training.WithPlotter(stats.NewPlotter(cfg.Stats.PlotPath), cfg.Stats.PlotEvery),
		training.WithCheckpoint(training.CheckpointPolicy{
			SaveOnImprovement: cfg.Checkpoint.SaveOnImprovement,
			Path:              cfg.Checkpoint.Path,
		}),
		training.WithLogger(logger),
	)
	return loop.Run(ctx)
}

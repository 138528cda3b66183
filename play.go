package main

import (
	"github.com/spf13/cobra"

	"snake-ai/training"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Watch the saved model play without exploring or learning",
	RunE:  runPlay,
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	rt, err := newComponents(cfg, logger, true)
	if err != nil {
		return err
	}
	defer rt.close()
	rt.agent.EpsilonStart = 0

	session := training.NewSession()
	if r, ok := rt.display.(*Renderer); ok {
		r.Follow(session)
	}

	ctx, stop := signalContext()
	defer stop()

	loop := training.NewLoop(rt.env, rt.agent,
		training.WithSession(session),
		training.WithDisplay(rt.display),
		training.WithoutLearning(),
		training.WithLogger(logger),
	)
	return loop.Run(ctx)
}

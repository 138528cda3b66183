// snake-ai trains a deep Q-learning agent to play Snake.
//
// Usage:
//
//	snake-ai train           - Train forever, checkpointing on every new record
//	snake-ai play            - Watch the saved model play greedily
//	snake-ai scores          - Show the best recorded episodes
//
// Global flags:
//
//	--config <path>   - YAML config file (default: ./snake-ai.yaml if present)
//	--headless        - Do not open a window
//	--seed <value>    - RNG seed (0 = from the clock)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"snake-ai/config"
	"snake-ai/game"
	"snake-ai/qlearning"
	"snake-ai/training"
)

var (
	flagConfig   string
	flagHeadless bool
	flagSeed     uint64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake-ai",
	Short: "Snake AI - Deep Q-Learning",
	Long: `snake-ai teaches a small neural network to play Snake with deep
Q-learning and experience replay.

Examples:
  snake-ai train
  snake-ai train --headless --seed 42
  snake-ai play
  snake-ai scores --limit 20`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVar(&flagHeadless, "headless", false, "Run without a window")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
}

// loadConfig applies command line overrides on top of the config file.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = flagHeadless
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = flagSeed
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "snake-ai",
	})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warn("unknown log level, using info", "level", cfg.LogLevel)
	}
	return logger
}

// components is everything a loop needs, built from the config.
type components struct {
	logger  *log.Logger
	env     *game.Game
	agent   *qlearning.Agent
	display training.Display
	close   func()
}

func newComponents(cfg config.Config, logger *log.Logger, loadModel bool) (*components, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	logger.Debug("seeding", "seed", seed)

	env := game.NewGame(cfg.Window.Width, cfg.Window.Height, rand.New(rand.NewSource(seed)))

	dqn := qlearning.NewDQN(rand.New(rand.NewSource(seed + 2)))
	if loadModel {
		if _, err := os.Stat(cfg.Checkpoint.Path); os.IsNotExist(err) {
			logger.Warn("no checkpoint found, starting from scratch", "path", cfg.Checkpoint.Path)
		}
		if err := dqn.Load(cfg.Checkpoint.Path); err != nil {
			return nil, err
		}
	}
	trainer := qlearning.NewTrainer(dqn, qlearning.LearningRate, qlearning.Gamma)
	agent := qlearning.NewAgent(dqn, trainer, rand.New(rand.NewSource(seed+1)))

	rt := &components{
		logger:  logger,
		env:     env,
		agent:   agent,
		display: training.Headless{},
		close:   func() {},
	}
	if !cfg.Headless {
		renderer := NewRenderer(cfg.Window)
		rt.display = renderer
		rt.close = renderer.Close
	}
	return rt, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

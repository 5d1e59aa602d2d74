package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/photonfront/server/internal/match"
)

var (
	flagRunScenario string
	flagRunRecord   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a match in real time",
	Long: `Run drives a match at the configured tick rate until it decides or a
shutdown signal arrives. With --record every applied directive is
journaled under the replay directory.

Examples:
  photonfront run --scenario skirmish
  photonfront run --scenario skirmish --record`,
	RunE: runMatch,
}

func init() {
	runCmd.Flags().StringVar(&flagRunScenario, "scenario", "", "Scenario name or .lua path")
	runCmd.Flags().BoolVar(&flagRunRecord, "record", false, "Record a replay journal")
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	tables, err := match.LoadTables(cfg.Data)
	if err != nil {
		return err
	}
	log.Info("data tables loaded",
		zap.Int("units", tables.Units.Count()),
		zap.Int("bases", tables.Bases.Count()),
		zap.Int("arenas", tables.Arenas.Count()))

	scenario, err := loadScenario(cfg, flagRunScenario, log)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	if scenario != nil {
		defer scenario.Close()
	}

	runner, err := match.New(cfg, tables, scenario, log)
	if err != nil {
		return err
	}
	if flagRunRecord {
		closeJournal, err := attachRecorder(runner, cfg, log)
		if err != nil {
			return err
		}
		defer closeJournal()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdownCh
		log.Info("shutdown signal received")
		cancel()
	}()

	winner, err := runner.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Printf("winner: %s\n", describeWinner(winner))
	return nil
}

func describeWinner(winner int) string {
	if winner < 0 {
		return "draw"
	}
	return fmt.Sprintf("player %d", winner)
}

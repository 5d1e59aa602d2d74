package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/photonfront/server/internal/match"
)

var (
	flagSimScenario string
	flagSimTicks    int
	flagSimRecord   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a match headless at full speed",
	Long: `Simulate advances fixed-size ticks as fast as the host allows, with no
wall-clock pacing. Useful for balance sweeps and for producing journals
to verify against.

Examples:
  photonfront simulate --scenario skirmish
  photonfront simulate --scenario skirmish --ticks 4000 --record`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagSimScenario, "scenario", "", "Scenario name or .lua path")
	simulateCmd.Flags().IntVar(&flagSimTicks, "ticks", 0, "Tick cap (0 derives it from the time limit)")
	simulateCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Record a replay journal")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	tables, err := match.LoadTables(cfg.Data)
	if err != nil {
		return err
	}
	scenario, err := loadScenario(cfg, flagSimScenario, log)
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
	if flagSimRecord {
		closeJournal, err := attachRecorder(runner, cfg, log)
		if err != nil {
			return err
		}
		defer closeJournal()
	}

	winner := runner.RunHeadless(flagSimTicks)
	fmt.Printf("winner: %s after %d ticks (%.1fs simulated)\n",
		describeWinner(winner), runner.Tick(), runner.World().Now)
	return nil
}

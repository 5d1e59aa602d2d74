// photonfront runs authoritative match simulations.
//
// Usage:
//
//	photonfront run --scenario skirmish          - Run a match in real time
//	photonfront simulate --scenario skirmish     - Run a match headless, full speed
//	photonfront replay replays/<id>.pfr          - Re-drive a journal and check its digest
//
// The config file is resolved from --config, then the PHOTONFRONT_CONFIG
// environment variable, then config/photonfront.toml.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/photonfront/server/internal/config"
	"github.com/photonfront/server/internal/match"
	"github.com/photonfront/server/internal/scripting"
)

var flagConfig string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "photonfront",
	Short: "PhotonFront - authoritative match simulation",
	Long: `PhotonFront simulates two-player arena matches on a fixed timestep:
scripted scenarios issue spawn and movement directives, the simulation
resolves movement, abilities, combat and economy, and every applied
directive lands in a binary journal that can be re-driven bit for bit.

Examples:
  photonfront run --scenario skirmish --record
  photonfront simulate --scenario skirmish --ticks 4000
  photonfront replay replays/3f2a.pfr`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config TOML")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replayCmd)
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	if p := os.Getenv("PHOTONFRONT_CONFIG"); p != "" {
		return p
	}
	return "config/photonfront.toml"
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// setup loads config and builds the logger; every subcommand starts here.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

// loadScenario resolves a scenario name against the configured script
// directory. A name carrying the .lua suffix is taken as a literal path;
// an empty name means a scriptless match.
func loadScenario(cfg *config.Config, name string, log *zap.Logger) (*scripting.Engine, error) {
	if name == "" {
		return nil, nil
	}
	path := name
	if !strings.HasSuffix(name, ".lua") {
		path = filepath.Join(cfg.Scenario.Dir, name+".lua")
	}
	return scripting.NewEngine(path, log)
}

// attachRecorder opens a journal file named after the match id and hooks it
// to the runner. The returned closer flushes the file.
func attachRecorder(r *match.Runner, cfg *config.Config, log *zap.Logger) (func(), error) {
	if err := os.MkdirAll(cfg.Replay.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("replay dir: %w", err)
	}
	path := filepath.Join(cfg.Replay.Dir, r.ID().String()+".pfr")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create journal: %w", err)
	}
	if err := r.AttachJournal(f); err != nil {
		f.Close()
		return nil, err
	}
	log.Info("recording journal", zap.String("path", path))
	return func() {
		if err := f.Close(); err != nil {
			log.Warn("close journal", zap.Error(err))
		}
	}, nil
}

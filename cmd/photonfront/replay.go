package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/photonfront/server/internal/match"
	"github.com/photonfront/server/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay <journal>",
	Short: "Re-drive a replay journal and check its digest",
	Long: `Verify rebuilds the recorded match from its journal header, re-applies
every directive at its recorded tick and compares the resulting world
digest with the one sealed into the end record. The data tables named by
the config must match the ones the recording side loaded.

Exits non-zero when the re-drive diverges.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	tables, err := match.LoadTables(cfg.Data)
	if err != nil {
		return err
	}
	rec, err := replay.Load(args[0])
	if err != nil {
		return err
	}

	res, err := match.Verify(rec, tables, log)
	if err != nil {
		return err
	}
	if !res.Clean {
		return fmt.Errorf("journal %s diverged: digest %016x, recorded %016x",
			args[0], res.Digest, rec.End.Digest)
	}
	fmt.Printf("ok: %s, winner %s, %d ticks, digest %016x\n",
		args[0], describeWinner(res.Winner), res.Ticks, res.Digest)
	return nil
}

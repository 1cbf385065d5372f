// Command l2node starts the rollup node: it validates the genesis
// config, loads the on-disk store, wires every component via package
// runtime, prints one startup line with the state root and total
// supply, and exits. It does not serve the control-plane operations;
// cmd/l2cli runs those.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cascoin/l2/adapter"
	"github.com/cascoin/l2/runtime"
	"github.com/cascoin/l2/store"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("l2node", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dataDir := fs.String("datadir", defaultDataDir(), "node data directory")
	chainIDFlag := fs.Uint64("chain-id", 1, "rollup chain id")
	genesisPath := fs.String("genesis", "", "path to a genesis_distribution JSON file (hex address -> amount)")
	dryRun := fs.Bool("dry-run", false, "print effective genesis config and exit")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	genesis := runtime.DefaultGenesisConfig(*chainIDFlag)
	if *genesisPath != "" {
		dist, err := loadGenesisDistribution(*genesisPath)
		if err != nil {
			fmt.Fprintf(stderr, "genesis distribution load failed: %v\n", err)
			return 1
		}
		genesis.GenesisDistribution = dist
	}
	if err := runtime.ValidateGenesisConfig(genesis); err != nil {
		fmt.Fprintf(stderr, "invalid genesis config: %v\n", err)
		return 1
	}

	if *dryRun {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(genesis); err != nil {
			fmt.Fprintf(stderr, "encode genesis config: %v\n", err)
			return 1
		}
		return 0
	}

	if err := os.MkdirAll(*dataDir, 0o750); err != nil {
		fmt.Fprintf(stderr, "datadir create failed: %v\n", err)
		return 2
	}
	chainIDHex := strconv.FormatUint(genesis.ChainID, 16)
	db, err := store.Open(*dataDir, chainIDHex)
	if err != nil {
		fmt.Fprintf(stderr, "store open failed: %v\n", err)
		return 2
	}
	defer db.Close()

	rt, err := runtime.New(genesis, db, adapter.NewMemoryL1Adapter(), adapter.NewMemoryTransport())
	if err != nil {
		fmt.Fprintf(stderr, "runtime init failed: %v\n", err)
		return 2
	}

	fmt.Fprintf(stdout, "l2node started: chain_id=%d state_root=%x total_supply=%d\n",
		rt.Genesis.ChainID, rt.State.Root(), rt.State.TotalSupply())
	return 0
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".l2node"
	}
	return home + string(os.PathSeparator) + ".l2node"
}

func loadGenesisDistribution(path string) (map[string]int64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var dist map[string]int64
	if err := json.Unmarshal(b, &dist); err != nil {
		return nil, fmt.Errorf("parse %s: %w", strings.TrimSpace(path), err)
	}
	return dist, nil
}

// Command l2cli is the operator CLI for the control-plane operations
// of Each subcommand maps straight to one controlplane.Result and
// exits with the exit code named there: 0 success, 1 invalid
// argument, 2 rejected by policy, 3 transport/adapter failure.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cascoin/l2/adapter"
	"github.com/cascoin/l2/codec"
	"github.com/cascoin/l2/controlplane"
	"github.com/cascoin/l2/runtime"
	"github.com/cascoin/l2/sequencer"
	"github.com/cascoin/l2/store"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: l2cli [-datadir DIR] [-chain-id N] <command> [args]")
		return 1
	}

	fs := flag.NewFlagSet("l2cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dataDir := fs.String("datadir", "", "node data directory")
	chainID := fs.Uint64("chain-id", 1, "rollup chain id")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintln(stderr, "missing command")
		return 1
	}
	cmd, cmdArgs := rest[0], rest[1:]

	if *dataDir == "" {
		fmt.Fprintln(stderr, "-datadir is required")
		return 1
	}
	chainIDHex := strconv.FormatUint(*chainID, 16)
	db, err := store.Open(*dataDir, chainIDHex)
	if err != nil {
		fmt.Fprintf(stderr, "store open failed: %v\n", err)
		return 3
	}
	defer db.Close()

	rt, err := runtime.New(runtime.DefaultGenesisConfig(*chainID), db, adapter.NewMemoryL1Adapter(), adapter.NewMemoryTransport())
	if err != nil {
		fmt.Fprintf(stderr, "runtime init failed: %v\n", err)
		return 3
	}
	cp := controlplane.New(rt)

	res, exitErr := dispatch(cp, cmd, cmdArgs)
	if exitErr != nil {
		fmt.Fprintln(stderr, exitErr)
		return 1
	}
	if res.Err != nil {
		fmt.Fprintln(stderr, res.Err)
	}
	if res.Data != nil {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res.Data)
	}
	return int(res.Code)
}

func dispatch(cp *controlplane.ControlPlane, cmd string, args []string) (controlplane.Result, error) {
	switch cmd {
	case "status":
		return cp.Status(0, 0, sequencer.Election{}), nil
	case "get_account":
		if len(args) != 1 {
			return controlplane.Result{}, fmt.Errorf("usage: get_account <hex-address>")
		}
		addr, err := parseAddress(args[0])
		if err != nil {
			return controlplane.Result{}, err
		}
		return cp.GetAccount(addr), nil
	case "get_proof":
		if len(args) != 1 {
			return controlplane.Result{}, fmt.Errorf("usage: get_proof <hex-address>")
		}
		addr, err := parseAddress(args[0])
		if err != nil {
			return controlplane.Result{}, err
		}
		return cp.GetProof(addr), nil
	case "query_burn":
		if len(args) != 1 {
			return controlplane.Result{}, fmt.Errorf("usage: query_burn <hex-l1-tx-hash>")
		}
		h, err := parseHash(args[0])
		if err != nil {
			return controlplane.Result{}, err
		}
		return cp.QueryBurn(h), nil
	case "reset_circuit_breaker":
		if len(args) != 1 {
			return controlplane.Result{}, fmt.Errorf("usage: reset_circuit_breaker <now-unix>")
		}
		now, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return controlplane.Result{}, err
		}
		return cp.ResetCircuitBreaker(now), nil
	case "list_alerts":
		return cp.ListAlerts(), nil
	case "acknowledge_alert":
		if len(args) != 1 {
			return controlplane.Result{}, fmt.Errorf("usage: acknowledge_alert <id>")
		}
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return controlplane.Result{}, err
		}
		return cp.AcknowledgeAlert(id), nil
	case "resolve_alert":
		if len(args) != 2 {
			return controlplane.Result{}, fmt.Errorf("usage: resolve_alert <id> <note>")
		}
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return controlplane.Result{}, err
		}
		return cp.ResolveAlert(id, args[1]), nil
	default:
		return controlplane.Result{}, fmt.Errorf("unknown command %q", cmd)
	}
}

func parseAddress(s string) (codec.Address, error) {
	var a codec.Address
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return a, err
	}
	if len(b) != codec.AddressSize {
		return a, fmt.Errorf("expected %d-byte address, got %d bytes", codec.AddressSize, len(b))
	}
	copy(a[:], b)
	return a, nil
}

func parseHash(s string) (codec.Hash, error) {
	var h codec.Hash
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return h, err
	}
	if len(b) != codec.HashSize {
		return h, fmt.Errorf("expected %d-byte hash, got %d bytes", codec.HashSize, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// Package controlplane implements the operator-facing query and
// control operations of: status, announce, get_account, get_proof,
// query_burn, reset_circuit_breaker, list_alerts, acknowledge_alert,
// and resolve_alert. Every operation returns one of the four exit
// codes named in so cmd/l2cli can map them straight to process
// exit status.
package controlplane

import (
	"errors"

	"github.com/cascoin/l2/codec"
	"github.com/cascoin/l2/runtime"
	"github.com/cascoin/l2/security"
	"github.com/cascoin/l2/sequencer"
)

// ExitCode mirrors's CLI exit code contract.
type ExitCode int

const (
	ExitSuccess        ExitCode = 0
	ExitInvalidArgument ExitCode = 1
	ExitRejectedByPolicy ExitCode = 2
	ExitTransportFailure ExitCode = 3
)

// Result wraps an operation's return value together with the exit
// code the CLI should surface.
type Result struct {
	Code ExitCode
	Data any
	Err  error
}

func ok(data any) Result            { return Result{Code: ExitSuccess, Data: data} }
func invalid(err error) Result      { return Result{Code: ExitInvalidArgument, Err: err} }
func rejected(err error) Result     { return Result{Code: ExitRejectedByPolicy, Err: err} }
func transportFail(err error) Result { return Result{Code: ExitTransportFailure, Err: err} }

// ControlPlane binds every operation to one runtime instance.
type ControlPlane struct {
	rt *runtime.L2Runtime
}

func New(rt *runtime.L2Runtime) *ControlPlane {
	return &ControlPlane{rt: rt}
}

// StatusReport is the payload returned by Status.
type StatusReport struct {
	ChainID        uint64        `json:"chain_id"`
	CurrentSlot    uint64        `json:"current_slot"`
	CurrentLeader  codec.Address `json:"current_leader"`
	HasLeader      bool          `json:"has_leader"`
	TVL            int64         `json:"tvl"`
	BreakerState   string        `json:"breaker_state"`
	SequencerCount int           `json:"sequencer_count"`
	AlertCount     int           `json:"alert_count"`
}

func (cp *ControlPlane) Status(now, currentSlot uint64, election sequencer.Election) Result {
	return ok(StatusReport{
		ChainID:        cp.rt.Genesis.ChainID,
		CurrentSlot:    currentSlot,
		CurrentLeader:  election.Leader,
		HasLeader:      election.HasLeader,
		TVL:            cp.rt.CircuitBreaker.TVL(),
		BreakerState:   cp.rt.CircuitBreaker.State().String(),
		SequencerCount: len(cp.rt.SequencerRegistry.Eligible(now)),
		AlertCount:     len(cp.rt.Alerts.List()),
	})
}

// Announce broadcasts a pre-signed announcement for the local
// sequencer if it meets the configured minimums; policy rejection
// (e.g. below min stake) is distinct from a malformed announcement.
func (cp *ControlPlane) Announce(ann sequencer.Announce) Result {
	if ann.Address.IsZero() {
		return invalid(errInvalidArgument("address is required"))
	}
	g := cp.rt.Genesis
	if ann.HatScore < g.MinHat || ann.Stake < g.MinStake || ann.PeerCount < g.MinPeers {
		return rejected(errors.New("announcement is below the configured minimum hat score, stake, or peer count"))
	}
	if err := cp.rt.Transport.SendSeqAnnounce(ann); err != nil {
		return transportFail(err)
	}
	return ok(nil)
}

func (cp *ControlPlane) GetAccount(addr codec.Address) Result {
	acc, found := cp.rt.State.GetAccount(addr)
	if !found {
		return ok(nil)
	}
	return ok(acc)
}

func (cp *ControlPlane) GetProof(addr codec.Address) Result {
	proof, err := cp.rt.State.GenerateAccountProof(addr)
	if err != nil {
		return invalid(err)
	}
	return ok(proof)
}

// BurnStatus is the payload returned by QueryBurn.
type BurnStatus struct {
	Found            bool
	Status           string
	ConfirmationCount int
	L2TxHash         codec.Hash
}

func (cp *ControlPlane) QueryBurn(l1TxHash codec.Hash) Result {
	st, found := cp.rt.MintConsensus.Get(l1TxHash)
	if !found {
		return ok(BurnStatus{Found: false})
	}
	out := BurnStatus{
		Found:             true,
		Status:            st.Status.String(),
		ConfirmationCount: len(st.Confirmations),
	}
	if rec, found := cp.rt.BurnRegistry.Get(l1TxHash); found && rec.Processed {
		out.L2TxHash = rec.L2TxHash
	}
	return ok(out)
}

// ResetCircuitBreaker is an operator-only operation; rejected while
// the breaker is still in cooldown.
func (cp *ControlPlane) ResetCircuitBreaker(now uint64) Result {
	if err := cp.rt.CircuitBreaker.Reset(now); err != nil {
		return rejected(err)
	}
	return ok(nil)
}

func (cp *ControlPlane) ListAlerts() Result {
	return ok(cp.rt.Alerts.List())
}

func (cp *ControlPlane) AcknowledgeAlert(id uint64) Result {
	if err := cp.rt.Alerts.Acknowledge(id); err != nil {
		return invalid(err)
	}
	return ok(nil)
}

func (cp *ControlPlane) ResolveAlert(id uint64, note string) Result {
	if err := cp.rt.Alerts.Resolve(id, note); err != nil {
		var secErr *security.Error
		if errors.As(err, &secErr) && secErr.Code == security.ErrAlreadyResolved {
			return rejected(err)
		}
		return invalid(err)
	}
	return ok(nil)
}

func errInvalidArgument(msg string) error {
	return errors.New(msg)
}

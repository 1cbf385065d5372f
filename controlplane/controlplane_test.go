package controlplane

import (
	"testing"

	"github.com/cascoin/l2/adapter"
	"github.com/cascoin/l2/codec"
	"github.com/cascoin/l2/runtime"
	"github.com/cascoin/l2/security"
	"github.com/cascoin/l2/sequencer"
	"github.com/cascoin/l2/state"
	"github.com/cascoin/l2/store"
)

func newTestControlPlane(t *testing.T) *ControlPlane {
	t.Helper()
	db, err := store.Open(t.TempDir(), "deadbeef")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rt, err := runtime.New(runtime.DefaultGenesisConfig(7), db, adapter.NewMemoryL1Adapter(), adapter.NewMemoryTransport())
	if err != nil {
		t.Fatalf("runtime.New: %v", err)
	}
	return New(rt)
}

func TestStatusReportsWiredFields(t *testing.T) {
	cp := newTestControlPlane(t)
	res := cp.Status(100, 3, sequencer.Election{HasLeader: false})
	if res.Code != ExitSuccess {
		t.Fatalf("expected success, got %v: %v", res.Code, res.Err)
	}
	report, ok := res.Data.(StatusReport)
	if !ok || report.ChainID != 7 {
		t.Fatalf("unexpected status report: %+v", res.Data)
	}
}

func TestAnnounceRejectsZeroAddress(t *testing.T) {
	cp := newTestControlPlane(t)
	res := cp.Announce(sequencer.Announce{})
	if res.Code != ExitInvalidArgument {
		t.Fatalf("expected invalid argument, got %v", res.Code)
	}
}

func TestGetAccountUnknownReturnsNilNotError(t *testing.T) {
	cp := newTestControlPlane(t)
	var addr codec.Address
	addr[0] = 0xEE
	res := cp.GetAccount(addr)
	if res.Code != ExitSuccess || res.Data != nil {
		t.Fatalf("expected success with nil data for an unknown account, got %+v", res)
	}
}

func TestGetAccountFound(t *testing.T) {
	cp := newTestControlPlane(t)
	var addr codec.Address
	addr[0] = 1
	if err := cp.rt.State.SetAccount(addr, state.Account{Balance: 42}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	res := cp.GetAccount(addr)
	acc, ok := res.Data.(state.Account)
	if res.Code != ExitSuccess || !ok || acc.Balance != 42 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestQueryBurnUnknown(t *testing.T) {
	cp := newTestControlPlane(t)
	var h codec.Hash
	res := cp.QueryBurn(h)
	status, ok := res.Data.(BurnStatus)
	if res.Code != ExitSuccess || !ok || status.Found {
		t.Fatalf("expected not-found burn status, got %+v", res)
	}
}

func TestResetCircuitBreakerRejectedWhenNotTriggered(t *testing.T) {
	cp := newTestControlPlane(t)
	res := cp.ResetCircuitBreaker(1000)
	if res.Code != ExitRejectedByPolicy {
		t.Fatalf("expected policy rejection, got %v", res.Code)
	}
}

func TestResetCircuitBreakerSucceedsAfterCooldown(t *testing.T) {
	cp := newTestControlPlane(t)
	cp.rt.CircuitBreaker.SetTVL(1000)
	cp.rt.CircuitBreaker.RecordWithdrawal(200, 0)

	res := cp.ResetCircuitBreaker(100)
	if res.Code != ExitRejectedByPolicy {
		t.Fatalf("expected rejection within cooldown, got %v", res.Code)
	}
	res = cp.ResetCircuitBreaker(24 * 3600)
	if res.Code != ExitSuccess {
		t.Fatalf("expected success after cooldown, got %v: %v", res.Code, res.Err)
	}
}

func TestAlertLifecycleThroughControlPlane(t *testing.T) {
	cp := newTestControlPlane(t)
	a := cp.rt.Alerts.Raise(security.Alert{Type: security.AlertWarning, Message: "test"}, 1)

	if res := cp.AcknowledgeAlert(a.ID); res.Code != ExitSuccess {
		t.Fatalf("acknowledge: %+v", res)
	}
	if res := cp.ResolveAlert(a.ID, "handled"); res.Code != ExitSuccess {
		t.Fatalf("resolve: %+v", res)
	}
	if res := cp.ResolveAlert(a.ID, "again"); res.Code != ExitRejectedByPolicy {
		t.Fatalf("expected policy rejection on double resolve, got %v", res.Code)
	}
	if res := cp.AcknowledgeAlert(9999); res.Code != ExitInvalidArgument {
		t.Fatalf("expected invalid argument for unknown alert id, got %v", res.Code)
	}

	res := cp.ListAlerts()
	alerts, ok := res.Data.([]security.Alert)
	if !ok || len(alerts) != 1 {
		t.Fatalf("expected one alert listed, got %+v", res.Data)
	}
}

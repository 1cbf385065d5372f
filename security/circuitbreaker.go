package security

// BreakerState is the circuit breaker's state machine.
type BreakerState int

const (
	BreakerNormal BreakerState = iota
	BreakerTriggered
	BreakerRecovery
)

func (s BreakerState) String() string {
	switch s {
	case BreakerNormal:
		return "NORMAL"
	case BreakerTriggered:
		return "TRIGGERED"
	case BreakerRecovery:
		return "RECOVERY"
	default:
		return "UNKNOWN"
	}
}

// CircuitBreakerConfig parameterizes the trip ratio and cooldown.
type CircuitBreakerConfig struct {
	VolumeToTVLRatio float64
	CooldownSecs     uint64
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{VolumeToTVLRatio: 0.10, CooldownSecs: 24 * 3600}
}

// CircuitBreaker tracks TVL and rolling withdrawal volume and pauses
// outbound bridge operations once the trip condition fires. Not
// safe for concurrent use; it holds no lock of its own.
type CircuitBreaker struct {
	cfg             CircuitBreakerConfig
	state           BreakerState
	tvl             int64
	withdrawals     *RollingWindow
	triggeredAt     uint64
	triggerReason   string
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		cfg:         cfg,
		state:       BreakerNormal,
		withdrawals: NewRollingWindow(24 * 3600),
	}
}

func (b *CircuitBreaker) State() BreakerState { return b.state }
func (b *CircuitBreaker) TVL() int64          { return b.tvl }

func (b *CircuitBreaker) SetTVL(tvl int64) { b.tvl = tvl }

// RecordWithdrawal feeds one outbound-bridge withdrawal amount into the
// rolling 24h volume and re-evaluates the trip condition.
func (b *CircuitBreaker) RecordWithdrawal(amount int64, now uint64) (tripped bool, reason string) {
	b.withdrawals.Add(now, float64(amount))
	return b.evaluateVolume(now)
}

func (b *CircuitBreaker) evaluateVolume(now uint64) (bool, string) {
	if b.state != BreakerNormal || b.tvl <= 0 {
		return false, ""
	}
	ratio := b.withdrawals.Sum(now) / float64(b.tvl)
	if ratio < b.cfg.VolumeToTVLRatio {
		return false, ""
	}
	b.trip(now, "daily withdrawal volume reached the TVL ratio threshold")
	return true, b.triggerReason
}

// OnEmergencyAlert trips the breaker unconditionally: an
// EMERGENCY alert always trips it regardless of the volume ratio.
func (b *CircuitBreaker) OnEmergencyAlert(now uint64, reason string) bool {
	if b.state != BreakerNormal {
		return false
	}
	b.trip(now, reason)
	return true
}

func (b *CircuitBreaker) trip(now uint64, reason string) {
	b.state = BreakerTriggered
	b.triggeredAt = now
	b.triggerReason = reason
}

// AllowsOutbound reports whether new outbound bridge operations may
// proceed.
func (b *CircuitBreaker) AllowsOutbound() bool {
	return b.state == BreakerNormal
}

// Reset moves a TRIGGERED breaker to RECOVERY then NORMAL once the
// cooldown has elapsed; an operator-only control-plane operation.
// Rejected while still within cooldown.
func (b *CircuitBreaker) Reset(now uint64) error {
	if b.state != BreakerTriggered {
		return xerr(ErrNotTriggered, "circuit breaker is not in TRIGGERED state")
	}
	if now < b.triggeredAt || now-b.triggeredAt < b.cfg.CooldownSecs {
		return xerr(ErrInCooldown, "cooldown period has not elapsed")
	}
	b.state = BreakerRecovery
	b.state = BreakerNormal
	return nil
}

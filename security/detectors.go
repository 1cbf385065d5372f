package security

import "github.com/cascoin/l2/codec"

// DetectorConfig parameterizes every rolling-window detector.
type DetectorConfig struct {
	CurrentWindowSecs      uint64
	HistoricalWindowSecs   uint64
	VolumeSpikeMultiplier  float64
	ValueSpikeMultiplier   float64
	AddressFrequencyLimit  int
	BridgeDiscrepancyRatio float64
	ReputationDropMin      int32
	SequencerUptimeMin     float64
	SequencerUptimeMinObs  int
}

func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		CurrentWindowSecs:      3600,
		HistoricalWindowSecs:   24 * 3600,
		VolumeSpikeMultiplier:  3.0,
		ValueSpikeMultiplier:   3.0,
		AddressFrequencyLimit:  100,
		BridgeDiscrepancyRatio: 0.01,
		ReputationDropMin:      20,
		SequencerUptimeMin:     0.90,
		SequencerUptimeMinObs:  10,
	}
}

// Detectors owns the rolling-window state for every anomaly check.
// Not safe for concurrent use; it holds no lock of its own.
type Detectors struct {
	cfg DetectorConfig

	txCountCurrent    *RollingWindow
	txCountHistorical *RollingWindow
	txValueCurrent    *RollingWindow
	txValueHistorical *RollingWindow

	perAddressTx map[codec.Address]*RollingWindow
	prevRepScore map[codec.Address]uint32
	uptimeWindow map[codec.Address]*RollingWindow
}

func NewDetectors(cfg DetectorConfig) *Detectors {
	return &Detectors{
		cfg:               cfg,
		txCountCurrent:    NewRollingWindow(cfg.CurrentWindowSecs),
		txCountHistorical: NewRollingWindow(cfg.HistoricalWindowSecs),
		txValueCurrent:    NewRollingWindow(cfg.CurrentWindowSecs),
		txValueHistorical: NewRollingWindow(cfg.HistoricalWindowSecs),
		perAddressTx:      make(map[codec.Address]*RollingWindow),
		prevRepScore:      make(map[codec.Address]uint32),
		uptimeWindow:      make(map[codec.Address]*RollingWindow),
	}
}

// RecordTx feeds one observed transaction into the volume/value/
// per-address detectors.
func (d *Detectors) RecordTx(from codec.Address, value float64, now uint64) {
	d.txCountCurrent.Add(now, 1)
	d.txCountHistorical.Add(now, 1)
	d.txValueCurrent.Add(now, value)
	d.txValueHistorical.Add(now, value)

	w, ok := d.perAddressTx[from]
	if !ok {
		w = NewRollingWindow(d.cfg.CurrentWindowSecs)
		d.perAddressTx[from] = w
	}
	w.Add(now, 1)
}

func historicalMean(historical *RollingWindow, current *RollingWindow, now uint64) float64 {
	bucketsInHistory := float64(historical.windowSecs) / float64(current.windowSecs)
	if bucketsInHistory <= 0 {
		return 0
	}
	return historical.Sum(now) / bucketsInHistory
}

// CheckVolumeSpike compares the current window's tx count against the
// historical per-window mean.
func (d *Detectors) CheckVolumeSpike(now uint64) (Alert, bool) {
	current := d.txCountCurrent.Sum(now)
	mean := historicalMean(d.txCountHistorical, d.txCountCurrent, now)
	if mean <= 0 || current <= mean*d.cfg.VolumeSpikeMultiplier {
		return Alert{}, false
	}
	return Alert{
		Type:      AlertWarning,
		Category:  CategoryVolumeSpike,
		Message:   "transaction volume spike detected",
		Timestamp: now,
	}, true
}

// CheckValueSpike compares the current window's summed value against
// the historical per-window mean.
func (d *Detectors) CheckValueSpike(now uint64) (Alert, bool) {
	current := d.txValueCurrent.Sum(now)
	mean := historicalMean(d.txValueHistorical, d.txValueCurrent, now)
	if mean <= 0 || current <= mean*d.cfg.ValueSpikeMultiplier {
		return Alert{}, false
	}
	return Alert{
		Type:      AlertWarning,
		Category:  CategoryValueSpike,
		Message:   "transaction value spike detected",
		Timestamp: now,
	}, true
}

// CheckAddressFrequency flags a single sender exceeding the per-hour
// transaction limit.
func (d *Detectors) CheckAddressFrequency(addr codec.Address, now uint64) (Alert, bool) {
	w, ok := d.perAddressTx[addr]
	if !ok {
		return Alert{}, false
	}
	count := w.Count(now)
	if count <= d.cfg.AddressFrequencyLimit {
		return Alert{}, false
	}
	return Alert{
		Type:              AlertWarning,
		Category:          CategoryAddressFrequency,
		Message:           "address exceeded per-hour transaction frequency limit",
		Timestamp:         now,
		InvolvedAddresses: []codec.Address{addr},
	}, true
}

// CheckBridgeDiscrepancy flags a mismatch between the bridge's actual
// and expected balance beyond the configured ratio.
func (d *Detectors) CheckBridgeDiscrepancy(actual, expected float64, now uint64) (Alert, bool) {
	if expected == 0 {
		return Alert{}, false
	}
	diff := actual - expected
	if diff < 0 {
		diff = -diff
	}
	if diff/expected <= d.cfg.BridgeDiscrepancyRatio {
		return Alert{}, false
	}
	return Alert{
		Type:      AlertCritical,
		Category:  CategoryBridgeDiscrepancy,
		Message:   "bridge balance diverges from expected beyond threshold",
		Timestamp: now,
	}, true
}

// CheckReputationDrop flags a single-step hat_score decrease at or
// above the configured minimum.
func (d *Detectors) CheckReputationDrop(addr codec.Address, newScore uint32, now uint64) (Alert, bool) {
	prev, ok := d.prevRepScore[addr]
	d.prevRepScore[addr] = newScore
	if !ok {
		return Alert{}, false
	}
	drop := int32(prev) - int32(newScore)
	if drop < d.cfg.ReputationDropMin {
		return Alert{}, false
	}
	return Alert{
		Type:              AlertWarning,
		Category:          CategoryReputationDrop,
		Message:           "sequencer reputation dropped sharply in one step",
		Timestamp:         now,
		InvolvedAddresses: []codec.Address{addr},
	}, true
}

// RecordSequencerSlot feeds one slot outcome (produced or missed) into
// a sequencer's uptime window.
func (d *Detectors) RecordSequencerSlot(addr codec.Address, produced bool, now uint64) {
	w, ok := d.uptimeWindow[addr]
	if !ok {
		w = NewRollingWindow(d.cfg.CurrentWindowSecs)
		d.uptimeWindow[addr] = w
	}
	v := 0.0
	if produced {
		v = 1.0
	}
	w.Add(now, v)
}

// CheckSequencerUptime flags a sequencer whose uptime ratio over at
// least SequencerUptimeMinObs observations falls below the configured
// minimum.
func (d *Detectors) CheckSequencerUptime(addr codec.Address, now uint64) (Alert, bool) {
	w, ok := d.uptimeWindow[addr]
	if !ok {
		return Alert{}, false
	}
	n := w.Count(now)
	if n < d.cfg.SequencerUptimeMinObs {
		return Alert{}, false
	}
	ratio := w.Sum(now) / float64(n)
	if ratio >= d.cfg.SequencerUptimeMin {
		return Alert{}, false
	}
	return Alert{
		Type:              AlertWarning,
		Category:          CategorySequencerUptime,
		Message:           "sequencer uptime fell below configured minimum",
		Timestamp:         now,
		InvolvedAddresses: []codec.Address{addr},
	}, true
}

package scanner

// machineInput is everything the state machine needs from one bar.
type machineInput struct {
	Prediction   float64
	PredictionOK bool
	FilterAll    bool

	KernelBullish  bool
	KernelBearish  bool
	KernelBullFlip bool
	KernelBearFlip bool

	Trend TrendState
}

// Machine is the signal state machine. The held signal changes only when the
// classifier prediction and the filter gate agree; on every other bar it is
// carried forward unchanged. The self-loop is intentional quality control
// against noisy single-bar reversals, not incidental statefulness.
type Machine struct {
	cfg Settings

	signal   Signal
	position Signal
	barsHeld int
}

func NewMachine(cfg Settings) *Machine {
	return &Machine{cfg: cfg}
}

// Signal returns the currently held signal.
func (m *Machine) Signal() Signal {
	return m.signal
}

// Position returns the currently held position direction, Neutral when flat.
func (m *Machine) Position() Signal {
	return m.position
}

// Step advances the machine by one bar and returns the new signal plus any
// entry/exit events. When no entry fires, reason says why.
func (m *Machine) Step(in machineInput) (sig Signal, entry *EntryEvent, exit *ExitEvent, reason NoEntryReason) {
	prev := m.signal
	if in.PredictionOK && in.FilterAll {
		switch {
		case in.Prediction > 0:
			m.signal = Long
		case in.Prediction < 0:
			m.signal = Short
		}
		// A zero prediction carries the signal forward like a failed gate.
	}
	transition := m.signal != prev

	exit = m.checkExit(in)

	switch {
	case !in.PredictionOK:
		reason = NoEntryWarmup
	case !transition:
		if !in.FilterAll {
			reason = NoEntryFilters
		} else {
			reason = NoEntryNoTransition
		}
	case m.signal == Long:
		switch {
		case !in.KernelBullish:
			reason = NoEntryKernel
		case !in.Trend.EMAUp || !in.Trend.SMAUp:
			reason = NoEntryTrend
		default:
			entry = &EntryEvent{Direction: Long}
		}
	case m.signal == Short:
		switch {
		case !in.KernelBearish:
			reason = NoEntryKernel
		case !in.Trend.EMADown || !in.Trend.SMADown:
			reason = NoEntryTrend
		default:
			entry = &EntryEvent{Direction: Short}
		}
	}

	if entry != nil {
		if m.position != Neutral && m.position != m.signal && exit == nil {
			exit = &ExitEvent{Direction: m.position, Reason: "reversal"}
		}
		m.position = m.signal
		m.barsHeld = 0
	}

	return m.signal, entry, exit, reason
}

// checkExit ages the held position by one bar and closes it per the
// configured exit mode.
func (m *Machine) checkExit(in machineInput) *ExitEvent {
	if m.position == Neutral {
		return nil
	}
	m.barsHeld++

	switch m.cfg.ExitMode {
	case ExitDynamicKernel:
		if (m.position == Long && in.KernelBearFlip) ||
			(m.position == Short && in.KernelBullFlip) {
			exit := &ExitEvent{Direction: m.position, Reason: "kernel-flip"}
			m.position = Neutral
			m.barsHeld = 0
			return exit
		}
	default:
		if m.barsHeld >= m.cfg.FixedExitBars {
			exit := &ExitEvent{Direction: m.position, Reason: "fixed-bars"}
			m.position = Neutral
			m.barsHeld = 0
			return exit
		}
	}
	return nil
}

// MachineState is the serializable state of a Machine.
type MachineState struct {
	Signal   Signal `json:"signal"`
	Position Signal `json:"position"`
	BarsHeld int    `json:"bars_held"`
}

func (m *Machine) State() MachineState {
	return MachineState{Signal: m.signal, Position: m.position, BarsHeld: m.barsHeld}
}

func (m *Machine) Restore(s MachineState) {
	m.signal = s.Signal
	m.position = s.Position
	m.barsHeld = s.BarsHeld
}

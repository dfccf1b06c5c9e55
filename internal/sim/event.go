package sim

// Event reports workload progress to an optional observer (CLI or TUI).
type Event struct {
	Cycle     int    // 1-based cycle number
	Cycles    int    // total cycles planned
	Phase     string // phase name, "" between phases
	Pause     bool   // inside a stop-the-world pause
	HeapUsed  uint64
	HeapCap   uint64
	CycleDone bool // the cycle just completed
	Done      bool // the whole workload completed
}

// Sink consumes progress events. Implementations must not block the
// collection path for long; the simulator drops events a slow sink cannot
// keep up with.
type Sink interface {
	Send(Event)
}

// ChannelSink forwards events into a channel, dropping on backpressure.
type ChannelSink struct {
	Ch chan<- Event
}

// Send implements Sink.
func (s ChannelSink) Send(ev Event) {
	select {
	case s.Ch <- ev:
	default:
	}
}

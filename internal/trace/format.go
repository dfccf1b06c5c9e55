package trace

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Format represents the output format for trace events.
type Format uint8

const (
	FormatAuto    Format = iota // detect from output path
	FormatText                  // human-readable text
	FormatNDJSON                // newline-delimited JSON
	FormatChrome                // Chrome trace viewer JSON
	FormatMsgpack               // binary msgpack stream
)

// String returns the string representation of Format.
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatText:
		return "text"
	case FormatNDJSON:
		return "ndjson"
	case FormatChrome:
		return "chrome"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// wireEvent is the serialized shape shared by the NDJSON and msgpack formats.
type wireEvent struct {
	Time   string            `json:"time" msgpack:"time"`
	Seq    uint64            `json:"seq" msgpack:"seq"`
	Kind   string            `json:"kind" msgpack:"kind"`
	Scope  string            `json:"scope" msgpack:"scope"`
	Cycle  uint64            `json:"cycle,omitempty" msgpack:"cycle"`
	Worker int               `json:"worker,omitempty" msgpack:"worker"`
	GID    uint64            `json:"gid,omitempty" msgpack:"gid"`
	Name   string            `json:"name" msgpack:"name"`
	Detail string            `json:"detail,omitempty" msgpack:"detail"`
	Extra  map[string]string `json:"extra,omitempty" msgpack:"extra"`
}

const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

func toWire(ev *Event) wireEvent {
	return wireEvent{
		Time:   ev.Time.Format(timeLayout),
		Seq:    ev.Seq,
		Kind:   ev.Kind.String(),
		Scope:  ev.Scope.String(),
		Cycle:  ev.Cycle,
		Worker: ev.Worker,
		GID:    ev.GID,
		Name:   ev.Name,
		Detail: ev.Detail,
		Extra:  ev.Extra,
	}
}

// FormatEvent formats an event according to the specified format.
func FormatEvent(ev *Event, format Format) []byte {
	switch format {
	case FormatNDJSON:
		return formatNDJSON(ev)
	case FormatChrome:
		return formatChrome(ev)
	case FormatMsgpack:
		return formatMsgpack(ev)
	default:
		return formatText(ev)
	}
}

// formatNDJSON formats an event as newline-delimited JSON.
func formatNDJSON(ev *Event) []byte {
	data, err := json.Marshal(toWire(ev))
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

// formatMsgpack formats an event as one msgpack-encoded record.
func formatMsgpack(ev *Event) []byte {
	data, err := msgpack.Marshal(toWire(ev))
	if err != nil {
		return nil
	}
	return data
}

// DecodeMsgpackEvent decodes one record produced by FormatMsgpack.
// Used by trace consumers and tests; the live emit path never decodes.
func DecodeMsgpackEvent(data []byte) (Event, error) {
	var w wireEvent
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return Event{}, fmt.Errorf("decode trace event: %w", err)
	}
	ev := Event{
		Seq:    w.Seq,
		Cycle:  w.Cycle,
		Worker: w.Worker,
		GID:    w.GID,
		Name:   w.Name,
		Detail: w.Detail,
		Extra:  w.Extra,
	}
	for k := KindBegin; k <= KindHeartbeat; k++ {
		if k.String() == w.Kind {
			ev.Kind = k
		}
	}
	for s := ScopeCycle; s <= ScopeWorker; s++ {
		if s.String() == w.Scope {
			ev.Scope = s
		}
	}
	return ev, nil
}

// formatChrome formats an event for the Chrome trace viewer
// (catapult "trace event format"). Begin/End map to B/E, points to i.
func formatChrome(ev *Event) []byte {
	type chromeEvent struct {
		Name string            `json:"name"`
		Cat  string            `json:"cat"`
		Ph   string            `json:"ph"`
		TS   int64             `json:"ts"` // microseconds
		PID  uint64            `json:"pid"`
		TID  uint64            `json:"tid"`
		Args map[string]string `json:"args,omitempty"`
	}

	ph := "i"
	switch ev.Kind {
	case KindBegin:
		ph = "B"
	case KindEnd:
		ph = "E"
	}

	args := make(map[string]string, len(ev.Extra)+3)
	for k, v := range ev.Extra {
		args[k] = v
	}
	if ev.Cycle != 0 {
		args["cycle"] = fmt.Sprintf("%d", ev.Cycle)
	}
	if ev.Worker >= 0 {
		args["worker"] = fmt.Sprintf("%d", ev.Worker)
	}
	if ev.Detail != "" {
		args["detail"] = ev.Detail
	}

	c := chromeEvent{
		Name: ev.Name,
		Cat:  ev.Scope.String(),
		Ph:   ph,
		TS:   ev.Time.UnixMicro(),
		PID:  1,
		TID:  ev.GID,
		Args: args,
	}

	data, err := json.Marshal(c)
	if err != nil {
		return nil
	}
	return data
}

// formatText formats an event as human-readable text.
func formatText(ev *Event) []byte {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%6d] %s/%s %s", ev.Seq, ev.Scope, ev.Kind, ev.Name)
	if ev.Cycle != 0 {
		fmt.Fprintf(&sb, " cycle=%d", ev.Cycle)
	}
	if ev.Worker >= 0 {
		fmt.Fprintf(&sb, " worker=%d", ev.Worker)
	}
	if ev.Detail != "" {
		fmt.Fprintf(&sb, " (%s)", ev.Detail)
	}
	for k, v := range ev.Extra {
		fmt.Fprintf(&sb, " %s=%s", k, v)
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}

package model

import (
	"encoding/json"
	"fmt"
)

// Sentinel display strings. Anything a probe could not resolve collapses
// to Unknown; capabilities positively determined to be missing collapse
// to Unsupported. Real values never equal either sentinel.
const (
	Unknown     = "unknown"
	Unsupported = "unsupported"
)

// ValueKind discriminates how a probed fact resolved.
type ValueKind int

const (
	KindPresent     ValueKind = 0
	KindAbsent      ValueKind = 1
	KindUnsupported ValueKind = 2
	KindError       ValueKind = 3
)

func (k ValueKind) String() string {
	switch k {
	case KindPresent:
		return "present"
	case KindAbsent:
		return "absent"
	case KindUnsupported:
		return "unsupported"
	case KindError:
		return "error"
	}
	return "invalid"
}

// Value is the display form of one probed fact. Probes never hand raw
// errors, nils, or empty strings to the UI; every read is reduced to a
// Value first, so any row can always be rendered as a string.
type Value struct {
	kind ValueKind
	text string // display text when present
	qual string // optional qualifier appended to the unknown sentinel
}

// Text returns a present Value, or the unknown sentinel when s is empty.
// Empty strings carry no information, so they normalize like a miss.
func Text(s string) Value {
	if s == "" {
		return Absent()
	}
	return Value{kind: KindPresent, text: s}
}

// Textf formats a present Value.
func Textf(format string, a ...any) Value {
	return Text(fmt.Sprintf(format, a...))
}

// Count renders a non-negative count.
func Count(n int) Value {
	return Textf("%d", n)
}

// YesNo renders a boolean as "yes" or "no".
func YesNo(b bool) Value {
	if b {
		return Text("yes")
	}
	return Text("no")
}

// Absent returns the unknown sentinel.
func Absent() Value {
	return Value{kind: KindAbsent}
}

// AbsentBecause returns the unknown sentinel with a qualifier, rendered
// as "unknown (reason)". An empty reason degrades to plain Absent.
func AbsentBecause(reason string) Value {
	return Value{kind: KindAbsent, qual: reason}
}

// NotSupported returns the unsupported sentinel. Reserve it for
// capabilities positively determined to be missing; a read that merely
// failed is Absent, not NotSupported.
func NotSupported() Value {
	return Value{kind: KindUnsupported}
}

// Failed returns the unknown sentinel for an errored read. The error
// itself is not retained here; callers that care log it at the probe.
func Failed(err error) Value {
	if err == nil {
		return Absent()
	}
	return Value{kind: KindError}
}

// Reduce collapses a (value, error) pair from a single read into a
// Value in one step. This is the one place the value-or-sentinel rule
// lives; probes call it instead of branching on errors themselves.
func Reduce(s string, err error) Value {
	if err != nil {
		return Failed(err)
	}
	return Text(s)
}

// Known reports whether the value resolved to real content.
func (v Value) Known() bool {
	return v.kind == KindPresent
}

// Kind returns the resolution of the value.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Display returns the string shown to the user. Present values render
// as-is; everything else collapses to a sentinel.
func (v Value) Display() string {
	switch v.kind {
	case KindPresent:
		return v.text
	case KindUnsupported:
		return Unsupported
	default:
		if v.qual != "" {
			return Unknown + " (" + v.qual + ")"
		}
		return Unknown
	}
}

func (v Value) String() string {
	return v.Display()
}

// MarshalJSON emits the display string, so JSON output matches the
// cards byte for byte.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Display())
}

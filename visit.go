package envline

import (
	"strconv"
	"strings"
)

// frameKind tags the composite context a value is being emitted inside.
// With no frame on the stack the encoder is at line position: each value
// becomes its own KEYPATH=value line.
type frameKind int

const (
	frameSeq frameKind = iota + 1
	frameTuple
	frameTupleVariant
	frameNewtypeVariant
	frameMap
	frameStructVariant
)

type frame struct {
	kind  frameKind
	first bool
	// frameMap only: the next child is a value, not a key.
	inValue bool
}

// beginValue writes whatever must precede the next value in the current
// context: the KEYPATH= prefix at line position, a comma between
// elements, or the key/value punctuation inside maps and struct
// variants. Separator decisions come from the frame's first flag; the
// buffer is never inspected.
func (e *Encoder) beginValue() {
	if len(e.frames) == 0 {
		for i, seg := range e.keyPath {
			if i > 0 {
				e.buf = append(e.buf, '_')
			}
			e.buf = append(e.buf, seg...)
		}
		e.buf = append(e.buf, '=')
		return
	}
	f := &e.frames[len(e.frames)-1]
	switch f.kind {
	case frameSeq, frameTuple, frameTupleVariant:
		if !f.first {
			e.buf = append(e.buf, ',')
		}
		f.first = false
	case frameNewtypeVariant:
		// single payload, no punctuation
	case frameMap:
		if f.inValue {
			e.buf = append(e.buf, ':')
			f.inValue = false
			return
		}
		if !f.first {
			e.buf = append(e.buf, ',')
		}
		f.first = false
		f.inValue = true
	case frameStructVariant:
		if !f.first {
			e.buf = append(e.buf, ',')
		}
		f.first = false
		e.buf = append(e.buf, ':')
	}
}

// endValue terminates a value: a newline at line position, nothing when
// the value is an inline element.
func (e *Encoder) endValue() {
	if len(e.frames) == 0 {
		e.buf = append(e.buf, '\n')
	}
}

// literal appends a bare double-quoted literal. Variant names go through
// here so they never pick up a key-path prefix.
func (e *Encoder) literal(s string) {
	e.buf = append(e.buf, '"')
	e.buf = append(e.buf, s...)
	e.buf = append(e.buf, '"')
}

func (e *Encoder) push(kind frameKind) {
	e.frames = append(e.frames, frame{kind: kind, first: true})
}

func (e *Encoder) pop(kind frameKind, op string) error {
	if len(e.frames) == 0 || e.frames[len(e.frames)-1].kind != kind {
		return &Error{Kind: ErrUnbalancedCall, Detail: op + " without matching begin"}
	}
	e.frames = e.frames[:len(e.frames)-1]
	return nil
}

// WriteBool emits true or false, unquoted.
func (e *Encoder) WriteBool(v bool) error {
	e.beginValue()
	if v {
		e.buf = append(e.buf, "true"...)
	} else {
		e.buf = append(e.buf, "false"...)
	}
	e.endValue()
	return nil
}

// WriteInt emits a signed integer. Narrower widths widen to int64 first.
func (e *Encoder) WriteInt(v int64) error {
	e.beginValue()
	e.buf = strconv.AppendInt(e.buf, v, 10)
	e.endValue()
	return nil
}

// WriteUint emits an unsigned integer. Narrower widths widen to uint64 first.
func (e *Encoder) WriteUint(v uint64) error {
	e.beginValue()
	e.buf = strconv.AppendUint(e.buf, v, 10)
	e.endValue()
	return nil
}

// WriteFloat emits the shortest round-trippable decimal form of v.
// float32 values widen to double precision before formatting.
func (e *Encoder) WriteFloat(v float64) error {
	e.beginValue()
	e.buf = strconv.AppendFloat(e.buf, v, 'g', -1, 64)
	e.endValue()
	return nil
}

// WriteChar emits r as a one-character string.
func (e *Encoder) WriteChar(r rune) error {
	return e.WriteString(string(r))
}

// WriteString emits v double-quoted, contents verbatim.
func (e *Encoder) WriteString(v string) error {
	e.beginValue()
	e.literal(v)
	e.endValue()
	return nil
}

// WriteBytes re-dispatches p as a sequence of uint8 elements.
func (e *Encoder) WriteBytes(p []byte) error {
	if err := e.BeginSeq(); err != nil {
		return err
	}
	for _, b := range p {
		if err := e.WriteUint(uint64(b)); err != nil {
			return err
		}
	}
	return e.EndSeq()
}

// WriteNone emits nothing: an absent option contributes no key and no line.
func (e *Encoder) WriteNone() error {
	return nil
}

// WriteUnit emits the literal "". The trailing newline, when one
// applies, comes from the enclosing line rule, not from the unit itself.
func (e *Encoder) WriteUnit() error {
	e.beginValue()
	e.buf = append(e.buf, '"', '"')
	return nil
}

// WriteUnitVariant emits the variant name encoded as a string value.
func (e *Encoder) WriteUnitVariant(name string) error {
	e.beginValue()
	e.literal(name)
	e.endValue()
	return nil
}

// BeginSeq opens a sequence. At line position the whole sequence becomes
// one KEYPATH=' ... ' line; nested inline only the quotes are emitted.
func (e *Encoder) BeginSeq() error {
	e.beginValue()
	e.buf = append(e.buf, '\'')
	e.push(frameSeq)
	return nil
}

// EndSeq closes a sequence and, at line position, terminates its line.
func (e *Encoder) EndSeq() error {
	if err := e.pop(frameSeq, "EndSeq"); err != nil {
		return err
	}
	e.buf = append(e.buf, '\'')
	e.endValue()
	return nil
}

// BeginTuple opens a bracketed tuple.
func (e *Encoder) BeginTuple() error {
	e.beginValue()
	e.buf = append(e.buf, '[')
	e.push(frameTuple)
	return nil
}

// EndTuple closes a tuple. Tuples never terminate a line themselves.
func (e *Encoder) EndTuple() error {
	if err := e.pop(frameTuple, "EndTuple"); err != nil {
		return err
	}
	e.buf = append(e.buf, ']')
	return nil
}

// BeginNewtypeVariant opens a {"name": wrapper around a single payload value.
func (e *Encoder) BeginNewtypeVariant(name string) error {
	e.beginValue()
	e.buf = append(e.buf, '{')
	e.literal(name)
	e.buf = append(e.buf, ':')
	e.push(frameNewtypeVariant)
	return nil
}

// EndNewtypeVariant closes the wrapper opened by BeginNewtypeVariant.
func (e *Encoder) EndNewtypeVariant() error {
	if err := e.pop(frameNewtypeVariant, "EndNewtypeVariant"); err != nil {
		return err
	}
	e.buf = append(e.buf, '}')
	e.endValue()
	return nil
}

// BeginTupleVariant opens a {"name":[ wrapper around positional elements.
func (e *Encoder) BeginTupleVariant(name string) error {
	e.beginValue()
	e.buf = append(e.buf, '{')
	e.literal(name)
	e.buf = append(e.buf, ':', '[')
	e.push(frameTupleVariant)
	return nil
}

// EndTupleVariant closes both the bracket and the brace.
func (e *Encoder) EndTupleVariant() error {
	if err := e.pop(frameTupleVariant, "EndTupleVariant"); err != nil {
		return err
	}
	e.buf = append(e.buf, ']', '}')
	e.endValue()
	return nil
}

// BeginMap opens a map. The format emits no opening bracket for maps;
// keys and values alternate, keys comma-separated, values colon-prefixed.
func (e *Encoder) BeginMap() error {
	e.beginValue()
	e.push(frameMap)
	return nil
}

// EndMap closes a map with the trailing brace the format documents.
func (e *Encoder) EndMap() error {
	if err := e.pop(frameMap, "EndMap"); err != nil {
		return err
	}
	e.buf = append(e.buf, '}')
	e.endValue()
	return nil
}

// BeginStructVariant opens a {"name":{ wrapper. Fields emit as :value
// with their names dropped.
func (e *Encoder) BeginStructVariant(name string) error {
	e.beginValue()
	e.buf = append(e.buf, '{')
	e.literal(name)
	e.buf = append(e.buf, ':', '{')
	e.push(frameStructVariant)
	return nil
}

// EndStructVariant closes both braces.
func (e *Encoder) EndStructVariant() error {
	if err := e.pop(frameStructVariant, "EndStructVariant"); err != nil {
		return err
	}
	e.buf = append(e.buf, '}', '}')
	e.endValue()
	return nil
}

// PushField appends an upper-cased segment to the key path. Every value
// encoded until the matching PopField carries the extended path.
func (e *Encoder) PushField(name string) {
	e.keyPath = append(e.keyPath, strings.ToUpper(name))
}

// PopField removes the segment pushed by the matching PushField.
func (e *Encoder) PopField() {
	if len(e.keyPath) > 0 {
		e.keyPath = e.keyPath[:len(e.keyPath)-1]
	}
}

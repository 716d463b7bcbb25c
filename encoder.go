package envline

import (
	"io"
	"reflect"
	"sort"

	intr "github.com/tkoeppen/envline/internal"
)

// Encoder writes env-style assignment lines to an io.Writer.
//
// Output accumulates in an internal buffer and reaches the writer only
// when an Encode call succeeds (or on Flush for the manual visit
// surface), so a failed encode writes nothing. An Encoder must not be
// shared between concurrent encodes.
type Encoder struct {
	w       io.Writer
	buf     []byte
	keyPath []string
	frames  []frame
}

// NewEncoder creates a new streaming encoder.
func NewEncoder(w io.Writer) *Encoder { return &Encoder{w: w} }

// Encode walks v and writes its assignment lines. On error nothing is
// written.
func (e *Encoder) Encode(v any) error {
	e.reset()
	if err := e.encodeValue(reflect.ValueOf(v)); err != nil {
		e.reset()
		return err
	}
	return e.Flush()
}

// Flush writes the buffered output and clears the buffer. Encode calls
// it automatically; it exists for callers driving the visit surface
// directly. On a writer error the unsent remainder stays buffered, so a
// later Flush can retry it.
func (e *Encoder) Flush() error {
	if len(e.buf) == 0 {
		return nil
	}
	n, err := e.w.Write(e.buf)
	if err != nil {
		e.buf = e.buf[:copy(e.buf, e.buf[n:])]
		return err
	}
	e.buf = e.buf[:0]
	return nil
}

func (e *Encoder) reset() {
	e.buf = e.buf[:0]
	e.keyPath = e.keyPath[:0]
	e.frames = e.frames[:0]
}

// inline reports whether the encoder is inside a composite context, as
// opposed to line position.
func (e *Encoder) inline() bool { return len(e.frames) > 0 }

var charType = reflect.TypeOf(Char(0))

// encodeValue dispatches rv to the matching visit primitive.
func (e *Encoder) encodeValue(rv reflect.Value) error {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			// absent option: no key, no line
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Invalid {
		// untyped nil: nothing to describe, treat as absent
		return nil
	}
	if rv.Type() == charType {
		return e.WriteChar(rune(rv.Int()))
	}
	switch rv.Kind() {
	case reflect.Bool:
		return e.WriteBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return e.WriteInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return e.WriteUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return e.WriteFloat(rv.Float())
	case reflect.String:
		return e.WriteString(rv.String())
	case reflect.Slice, reflect.Array:
		return e.encodeSeq(rv)
	case reflect.Map:
		return e.encodeMap(rv)
	case reflect.Struct:
		return e.encodeStruct(rv)
	default:
		return &Error{Kind: ErrUnsupportedKind, Detail: rv.Kind().String()}
	}
}

func (e *Encoder) encodeSeq(rv reflect.Value) error {
	if err := e.BeginSeq(); err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		if err := e.encodeValue(rv.Index(i)); err != nil {
			return err
		}
	}
	return e.EndSeq()
}

func (e *Encoder) encodeMap(rv reflect.Value) error {
	if err := e.BeginMap(); err != nil {
		return err
	}
	keys := rv.MapKeys()
	sortKeys(keys)
	for _, k := range keys {
		if err := e.encodeValue(k); err != nil {
			return err
		}
		if err := e.encodeValue(rv.MapIndex(k)); err != nil {
			return err
		}
	}
	return e.EndMap()
}

// sortKeys orders map keys so output is deterministic across encodes.
func sortKeys(keys []reflect.Value) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		switch a.Kind() {
		case reflect.String:
			return a.String() < b.String()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return a.Int() < b.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return a.Uint() < b.Uint()
		}
		return false
	})
}

func (e *Encoder) encodeStruct(rv reflect.Value) error {
	rt := rv.Type()
	type fieldInfo struct {
		name      string
		optional  bool
		omitempty bool
		value     reflect.Value
	}
	var fields []fieldInfo
	var optCount, presentOpt int
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name, optional, omitempty, ok := intr.ParseTag(f)
		if !ok {
			continue
		}
		fv := rv.Field(i)
		if optional {
			optCount++
			if fv.Kind() == reflect.Pointer && !fv.IsNil() {
				presentOpt++
			}
		}
		fields = append(fields, fieldInfo{name: name, optional: optional, omitempty: omitempty, value: fv})
	}
	if len(fields) == 0 {
		return e.WriteUnit()
	}
	// Enum-like: all optional and exactly one present
	if optCount == len(fields) && presentOpt == 1 {
		for _, fi := range fields {
			fv := fi.value
			if fv.Kind() == reflect.Pointer && !fv.IsNil() {
				return e.encodeVariant(fi.name, fv.Elem())
			}
		}
	}
	if e.inline() {
		// A struct appearing as an element renders in the bracketed,
		// value-only form struct variants use.
		e.beginValue()
		e.buf = append(e.buf, '{')
		e.push(frameStructVariant)
		for _, fi := range fields {
			if fi.omitempty && isZeroValue(fi.value) {
				continue
			}
			if err := e.encodeValue(fi.value); err != nil {
				return err
			}
		}
		e.frames = e.frames[:len(e.frames)-1]
		e.buf = append(e.buf, '}')
		return nil
	}
	for _, fi := range fields {
		if fi.omitempty && isZeroValue(fi.value) {
			continue
		}
		e.keyPath = append(e.keyPath, intr.UpperSnake(fi.name))
		err := e.encodeValue(fi.value)
		e.keyPath = e.keyPath[:len(e.keyPath)-1]
		if err != nil {
			return err
		}
	}
	return nil
}

// encodeVariant emits the enum shape selected by the payload's type:
// empty structs are unit variants, structs are struct variants,
// slices and arrays are tuple variants, everything else is a newtype
// variant.
func (e *Encoder) encodeVariant(name string, payload reflect.Value) error {
	switch payload.Kind() {
	case reflect.Struct:
		if payload.NumField() == 0 {
			return e.WriteUnitVariant(name)
		}
		if err := e.BeginStructVariant(name); err != nil {
			return err
		}
		rt := payload.Type()
		for i := 0; i < rt.NumField(); i++ {
			if _, _, _, ok := intr.ParseTag(rt.Field(i)); !ok {
				continue
			}
			if err := e.encodeValue(payload.Field(i)); err != nil {
				return err
			}
		}
		return e.EndStructVariant()
	case reflect.Slice, reflect.Array:
		if err := e.BeginTupleVariant(name); err != nil {
			return err
		}
		for i := 0; i < payload.Len(); i++ {
			if err := e.encodeValue(payload.Index(i)); err != nil {
				return err
			}
		}
		return e.EndTupleVariant()
	default:
		if err := e.BeginNewtypeVariant(name); err != nil {
			return err
		}
		if err := e.encodeValue(payload); err != nil {
			return err
		}
		return e.EndNewtypeVariant()
	}
}

func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return v.IsNil()
	default:
		z := reflect.Zero(v.Type())
		return reflect.DeepEqual(v.Interface(), z.Interface())
	}
}

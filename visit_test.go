package envline

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVisitSeq(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)

	require.NoError(t, e.BeginSeq())
	require.NoError(t, e.WriteString("a"))
	require.NoError(t, e.WriteString("b"))
	require.NoError(t, e.EndSeq())
	require.NoError(t, e.Flush())

	require.Equal(t, "='\"a\",\"b\"'\n", buf.String())
}

func TestVisitField(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)

	e.PushField("port")
	require.NoError(t, e.WriteInt(8080))
	e.PopField()
	require.NoError(t, e.Flush())

	require.Equal(t, "PORT=8080\n", buf.String())
}

func TestVisitNestedFields(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)

	e.PushField("server")
	e.PushField("host")
	require.NoError(t, e.WriteString("localhost"))
	e.PopField()
	e.PushField("port")
	require.NoError(t, e.WriteUint(443))
	e.PopField()
	e.PopField()
	require.NoError(t, e.Flush())

	require.Equal(t, "SERVER_HOST=\"localhost\"\nSERVER_PORT=443\n", buf.String())
}

func TestVisitTuple(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)

	require.NoError(t, e.BeginTuple())
	require.NoError(t, e.WriteInt(1))
	require.NoError(t, e.WriteInt(2))
	require.NoError(t, e.EndTuple())
	require.NoError(t, e.Flush())

	// Tuple end emits the bracket only, never a newline.
	require.Equal(t, "=[1,2]", buf.String())
}

func TestVisitVariants(t *testing.T) {
	encode := func(f func(e *Encoder)) string {
		var buf bytes.Buffer
		e := NewEncoder(&buf)
		f(e)
		require.NoError(t, e.Flush())
		return buf.String()
	}

	got := encode(func(e *Encoder) {
		require.NoError(t, e.WriteUnitVariant("Unit"))
	})
	require.Equal(t, "=\"Unit\"\n", got)

	got = encode(func(e *Encoder) {
		require.NoError(t, e.BeginNewtypeVariant("Newtype"))
		require.NoError(t, e.WriteUint(1))
		require.NoError(t, e.EndNewtypeVariant())
	})
	require.Equal(t, "={\"Newtype\":1}\n", got)

	got = encode(func(e *Encoder) {
		require.NoError(t, e.BeginTupleVariant("Tuple"))
		require.NoError(t, e.WriteUint(1))
		require.NoError(t, e.WriteUint(2))
		require.NoError(t, e.EndTupleVariant())
	})
	require.Equal(t, "={\"Tuple\":[1,2]}\n", got)

	got = encode(func(e *Encoder) {
		require.NoError(t, e.BeginStructVariant("Struct"))
		require.NoError(t, e.WriteUint(1))
		require.NoError(t, e.WriteString("x"))
		require.NoError(t, e.EndStructVariant())
	})
	require.Equal(t, "={\"Struct\":{:1,:\"x\"}}\n", got)
}

func TestVisitMap(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)

	require.NoError(t, e.BeginMap())
	require.NoError(t, e.WriteString("k"))
	require.NoError(t, e.WriteInt(1))
	require.NoError(t, e.WriteString("l"))
	require.NoError(t, e.WriteInt(2))
	require.NoError(t, e.EndMap())
	require.NoError(t, e.Flush())

	require.Equal(t, "=\"k\":1,\"l\":2}\n", buf.String())
}

func TestVisitSeqInsideTupleVariant(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)

	require.NoError(t, e.BeginTupleVariant("V"))
	require.NoError(t, e.BeginSeq())
	require.NoError(t, e.WriteInt(1))
	require.NoError(t, e.EndSeq())
	require.NoError(t, e.WriteInt(2))
	require.NoError(t, e.EndTupleVariant())
	require.NoError(t, e.Flush())

	// The inner sequence closes without ending the variant's element
	// mode or emitting a stray newline.
	require.Equal(t, "={\"V\":['1',2]}\n", buf.String())
}

func TestVisitBytes(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)

	require.NoError(t, e.WriteBytes([]byte{0xDE, 0xAD}))
	require.NoError(t, e.Flush())

	require.Equal(t, "='222,173'\n", buf.String())
}

func TestVisitNone(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)

	e.PushField("gone")
	require.NoError(t, e.WriteNone())
	e.PopField()
	require.NoError(t, e.Flush())

	require.Equal(t, "", buf.String())
}

func TestVisitUnbalanced(t *testing.T) {
	e := NewEncoder(&bytes.Buffer{})

	err := e.EndSeq()
	require.Error(t, err)
	var encErr *Error
	require.ErrorAs(t, err, &encErr)
	require.Equal(t, ErrUnbalancedCall, encErr.Kind)

	require.NoError(t, e.BeginSeq())
	err = e.EndTuple()
	require.Error(t, err)
}

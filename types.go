package envline

// Unit is the unit value. It encodes as the two-character literal "".
// Any empty struct encodes the same way.
type Unit struct{}

// Char encodes as a one-character string rather than as an integer.
// Reflection cannot tell a plain rune apart from int32, so character
// encoding is only reachable through this type (or Encoder.WriteChar).
type Char rune

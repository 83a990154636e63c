package table

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// undefinedValue stands in for a field the record does not have.
type undefinedValue struct{}

// Undefined is returned by accessors for keys no column knows about.
var Undefined = undefinedValue{}

type primKind int

const (
	kindUndefined primKind = iota
	kindNull
	kindBool
	kindNumber
	kindString
)

// primitive is a value reduced to the handful of kinds the loose comparison
// and stringification rules operate on.
type primitive struct {
	kind primKind
	b    bool
	n    float64
	s    string
}

func toPrimitive(v any) primitive {
	switch x := v.(type) {
	case nil:
		return primitive{kind: kindNull}
	case undefinedValue:
		return primitive{kind: kindUndefined}
	case string:
		return primitive{kind: kindString, s: x}
	case bool:
		return primitive{kind: kindBool, b: x}
	case time.Time:
		// Dates compare by their millisecond value.
		return primitive{kind: kindNumber, n: float64(x.UnixMilli())}
	case *time.Time:
		if x == nil {
			return primitive{kind: kindNull}
		}
		return primitive{kind: kindNumber, n: float64(x.UnixMilli())}
	case fmt.Stringer:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return primitive{kind: kindNull}
		}
		return primitive{kind: kindString, s: x.String()}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return primitive{kind: kindNull}
		}
		return toPrimitive(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return primitive{kind: kindNumber, n: float64(rv.Int())}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return primitive{kind: kindNumber, n: float64(rv.Uint())}
	case reflect.Float32, reflect.Float64:
		return primitive{kind: kindNumber, n: rv.Float()}
	case reflect.String:
		return primitive{kind: kindString, s: rv.String()}
	case reflect.Bool:
		return primitive{kind: kindBool, b: rv.Bool()}
	}
	return primitive{kind: kindString, s: fmt.Sprint(v)}
}

var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// toNumber converts a primitive the way a dynamic language coerces operands
// of a relational comparison. Unparseable strings become NaN.
func (p primitive) toNumber() float64 {
	switch p.kind {
	case kindNull:
		return 0
	case kindBool:
		if p.b {
			return 1
		}
		return 0
	case kindNumber:
		return p.n
	case kindString:
		return stringToNumber(p.s)
	}
	return math.NaN()
}

func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}
	if !decimalLiteral.MatchString(s) {
		return math.NaN()
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out of range literals still carry a sign.
		if strings.HasPrefix(s, "-") {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	return n
}

// strictEqual reports identity of kind and value. NaN never equals itself.
func strictEqual(a, b primitive) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case kindUndefined, kindNull:
		return true
	case kindBool:
		return a.b == b.b
	case kindNumber:
		return a.n == b.n
	default:
		return a.s == b.s
	}
}

// looseLess is the "<" operator of a dynamically typed language: two strings
// compare lexicographically, anything else is coerced to numbers and a NaN on
// either side makes the result false.
func looseLess(a, b primitive) bool {
	if a.kind == kindString && b.kind == kindString {
		return a.s < b.s
	}
	x, y := a.toNumber(), b.toNumber()
	if math.IsNaN(x) || math.IsNaN(y) {
		return false
	}
	return x < y
}

// Compare orders two cell values with loose semantics: 0 when strictly equal,
// -1 when a < b and 1 otherwise. Mixed kinds are not normalised, so values
// that cannot be ordered (a NaN after coercion) report 1 in both directions.
func Compare(a, b any) int {
	pa, pb := toPrimitive(a), toPrimitive(b)
	if strictEqual(pa, pb) {
		return 0
	}
	if looseLess(pa, pb) {
		return -1
	}
	return 1
}

// Stringify renders a value the way String(v) would: null and undefined are
// spelled out and numbers use the shortest round-trip form.
func Stringify(v any) string {
	switch x := v.(type) {
	case time.Time:
		return x.Format(time.RFC3339)
	case *time.Time:
		if x == nil {
			return "null"
		}
		return x.Format(time.RFC3339)
	}
	p := toPrimitive(v)
	switch p.kind {
	case kindUndefined:
		return "undefined"
	case kindNull:
		return "null"
	case kindBool:
		return strconv.FormatBool(p.b)
	case kindNumber:
		return formatNumber(p.n)
	default:
		return p.s
	}
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}
	abs := math.Abs(n)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	s := strconv.FormatFloat(n, 'e', -1, 64)
	// 1e-07 -> 1e-7
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}

// Falsy reports whether a value would be treated as false in a boolean
// context: null, undefined, false, 0, NaN and the empty string.
func Falsy(v any) bool {
	p := toPrimitive(v)
	switch p.kind {
	case kindUndefined, kindNull:
		return true
	case kindBool:
		return !p.b
	case kindNumber:
		return p.n == 0 || math.IsNaN(p.n)
	case kindString:
		return p.s == ""
	}
	return false
}

// Placeholder is shown for missing or empty cell values.
const Placeholder = "-"

// Display is the default cell rendering: falsy values collapse to the
// placeholder, everything else is stringified.
func Display(v any) string {
	if Falsy(v) {
		return Placeholder
	}
	return Stringify(v)
}

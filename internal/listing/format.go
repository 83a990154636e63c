// Package listing defines the columns each resource list shows, shared by
// the web dashboard and the terminal browser.
package listing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"condo/internal/model"
	"condo/internal/table"
)

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04"
)

// Date formats t as dd/mm/yyyy. The zero time renders as the placeholder.
func Date(t time.Time) string {
	if t.IsZero() {
		return table.Placeholder
	}
	return t.Format(dateLayout)
}

// DateTime formats t as dd/mm/yyyy hh:mm.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return table.Placeholder
	}
	return t.Format(dateTimeLayout)
}

// Money formats v as Brazilian reais, e.g. "R$ 1.500,75".
func Money(v float64) string {
	neg := v < 0
	cents := int64(math.Round(math.Abs(v) * 100))
	whole := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("R$ ")
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	frac := cents % 100
	b.WriteByte(',')
	if frac < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(frac, 10))
	return b.String()
}

// Percent formats a 0–100 share with one decimal and a comma.
func Percent(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 1, 64), ".", ",", 1) + "%"
}

// labelOf renders a stored enum value with its label, or the placeholder
// when unset.
func labelOf(opts []model.Option, v string) string {
	if v == "" {
		return table.Placeholder
	}
	return model.Label(opts, v)
}

func filterOptions(opts []model.Option) []table.FilterOption {
	out := make([]table.FilterOption, len(opts))
	for i, o := range opts {
		out[i] = table.FilterOption{Label: o.Label, Value: o.Value}
	}
	return out
}

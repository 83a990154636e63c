package web

import (
	"net/http"
	"strconv"
	"strings"

	"condo/internal/table"
)

// ViewportCookie is written by static/viewport.js on load and resize.
const ViewportCookie = "viewport-width"

// viewportWidth reads the client's viewport width in CSS pixels, trying an
// explicit ?vw= first, then client hints, then the cookie. Zero means
// unknown.
func viewportWidth(r *http.Request) int {
	if w := pinnedWidth(r); w > 0 {
		return w
	}
	for _, h := range []string{"Sec-CH-Viewport-Width", "Viewport-Width"} {
		if w := parseWidth(r.Header.Get(h)); w > 0 {
			return w
		}
	}
	if c, err := r.Cookie(ViewportCookie); err == nil {
		return parseWidth(c.Value)
	}
	return 0
}

// pinnedWidth is the width forced with ?vw=, or zero.
func pinnedWidth(r *http.Request) int {
	return parseWidth(r.URL.Query().Get("vw"))
}

func parseWidth(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// client hints may carry a fractional width
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 && f < 1e6 {
		return int(f)
	}
	return 0
}

func (s *Server) layoutFor(r *http.Request) table.Layout {
	return table.LayoutFor(viewportWidth(r), s.opts.Breakpoint)
}

// requestClientHints asks the browser to send its viewport width on
// subsequent requests.
func requestClientHints(w http.ResponseWriter) {
	w.Header().Set("Accept-CH", "Sec-CH-Viewport-Width, Viewport-Width")
	w.Header().Add("Vary", "Sec-CH-Viewport-Width, Viewport-Width, Cookie")
}

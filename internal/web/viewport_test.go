package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"condo/internal/table"
)

func TestViewportWidth(t *testing.T) {
	tests := []struct {
		name   string
		target string
		header map[string]string
		cookie string
		want   int
	}{
		{name: "unknown", target: "/", want: 0},
		{name: "query", target: "/?vw=500", header: map[string]string{"Sec-CH-Viewport-Width": "1200"}, want: 500},
		{name: "client hint", target: "/", header: map[string]string{"Sec-CH-Viewport-Width": "1200"}, cookie: "375", want: 1200},
		{name: "legacy hint", target: "/", header: map[string]string{"Viewport-Width": "820.5"}, want: 820},
		{name: "cookie", target: "/", cookie: "375", want: 375},
		{name: "garbage", target: "/?vw=wide", cookie: "-3", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: ViewportCookie, Value: tt.cookie})
			}
			assert.Equal(t, tt.want, viewportWidth(r))
		})
	}
}

func TestLayoutFor_UsesBreakpoint(t *testing.T) {
	s := &Server{opts: Options{Breakpoint: 1024}}

	r := httptest.NewRequest(http.MethodGet, "/?vw=900", nil)
	assert.Equal(t, table.Mobile, s.layoutFor(r))

	r = httptest.NewRequest(http.MethodGet, "/?vw=1024", nil)
	assert.Equal(t, table.Desktop, s.layoutFor(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, table.Desktop, s.layoutFor(r))
}

func TestRequestClientHints(t *testing.T) {
	rr := httptest.NewRecorder()
	requestClientHints(rr)
	assert.Contains(t, rr.Header().Get("Accept-CH"), "Sec-CH-Viewport-Width")
	assert.Contains(t, rr.Header().Get("Vary"), "Cookie")
}

func TestSafeRedirect(t *testing.T) {
	assert.Equal(t, "/gastos?q=luz", safeRedirect("/gastos?q=luz", "/dashboard"))
	assert.Equal(t, "/dashboard", safeRedirect("", "/dashboard"))
	assert.Equal(t, "/dashboard", safeRedirect("https://evil.example", "/dashboard"))
	assert.Equal(t, "/dashboard", safeRedirect("//evil.example", "/dashboard"))
	assert.Equal(t, "/dashboard", safeRedirect("/login?from=/x", "/dashboard"))
}

func TestRenderMarkdown_EscapesRawHTML(t *testing.T) {
	s := &Server{md: newMarkdown()}
	out := string(s.renderMarkdown("**oi**\n\n<script>alert(1)</script>"))
	assert.Contains(t, out, "<strong>oi</strong>")
	assert.NotContains(t, out, "<script>")
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/innovation-hub/internal/model"
)

func TestRequireRole(t *testing.T) {
	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	h := RequireRole(model.RoleAdmin)(ok)

	for role, want := range map[string]int{
		string(model.RoleAdmin):    http.StatusNoContent,
		string(model.RoleEmployee): http.StatusForbidden,
		"":                         http.StatusForbidden,
	} {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/v1/admin/users", nil), rec)
		if role != "" {
			c.Set(CtxRole, role)
		}
		if err := h(c); err != nil {
			t.Fatalf("role %q: %v", role, err)
		}
		if rec.Code != want {
			t.Errorf("role %q: status %d, want %d", role, rec.Code, want)
		}
	}
}

func TestRateKeyPrefersUsername(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/ideas", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	c := e.NewContext(req, httptest.NewRecorder())
	if got := rateKey("rl", "read", c); got != "rl:read:ip:10.0.0.7" {
		t.Fatalf("anonymous key = %q", got)
	}
	c.Set(CtxUsername, "employee")
	if got := rateKey("rl", "write", c); got != "rl:write:user:employee" {
		t.Fatalf("user key = %q", got)
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	status, gotHdr, body, ok := decodePayload(bs)
	if !ok || status != http.StatusOK || gotHdr.Get("Content-Type") != "application/json" || string(body) != `{"ok":true}` {
		t.Fatalf("decoded %d %v %q %v", status, gotHdr, body, ok)
	}
	if _, _, _, ok := decodePayload([]byte{0, 1}); ok {
		t.Fatal("short payload accepted")
	}
}

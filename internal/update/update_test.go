package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func releaseServer(t *testing.T, tag string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"tag_name":"` + tag + `"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheck(t *testing.T) {
	var hits atomic.Int32
	srv := releaseServer(t, "v1.4.0", &hits)
	c := NewChecker(WithURL(srv.URL))

	if res := c.Check(context.Background(), "v1.3.0"); res == nil || res.LatestVersion != "1.4.0" {
		t.Errorf("Check(1.3.0) = %+v, want 1.4.0", res)
	}
	if res := c.Check(context.Background(), "1.4.0"); res != nil {
		t.Errorf("Check(current) = %+v, want nil", res)
	}
}

func TestCheckFailureIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if res := NewChecker(WithURL(srv.URL)).Check(context.Background(), "1.0.0"); res != nil {
		t.Errorf("expected nil on error status, got %+v", res)
	}
}

type memThrottle struct {
	last map[string]time.Time
}

func (m *memThrottle) Due(key string, interval time.Duration) bool {
	t, ok := m.last[key]
	return !ok || time.Since(t) >= interval
}

func (m *memThrottle) Touch(key string) error {
	m.last[key] = time.Now()
	return nil
}

func TestAutoIsThrottled(t *testing.T) {
	var hits atomic.Int32
	srv := releaseServer(t, "v2.0.0", &hits)
	c := NewChecker(WithURL(srv.URL), WithThrottle(&memThrottle{last: map[string]time.Time{}}, time.Hour))

	if res := c.Auto(context.Background(), "1.0.0"); res == nil {
		t.Fatal("first automatic check should run")
	}
	if res := c.Auto(context.Background(), "1.0.0"); res != nil {
		t.Error("second automatic check within the interval should be skipped")
	}
	if c.Auto(context.Background(), "dev") != nil {
		t.Error("dev builds should not be checked")
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("hits = %d, want 1", got)
	}
}

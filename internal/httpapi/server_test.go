package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/certwatch/internal/cache"
	"github.com/hamed0406/certwatch/internal/domain"
	apimw "github.com/hamed0406/certwatch/internal/httpapi/middleware"
	"github.com/hamed0406/certwatch/internal/probe"
)

// ---- test helpers ----

type fakeProber struct {
	calls int64
}

func (f *fakeProber) Probe(_ context.Context, host string, _ int) (time.Time, error) {
	atomic.AddInt64(&f.calls, 1)
	switch host {
	case "down.example.com":
		return time.Time{}, &probe.ConnectError{Addr: host + ":443", Err: context.DeadlineExceeded}
	case "soon.example.com":
		return time.Now().UTC().Add(3 * 24 * time.Hour), nil
	default:
		return time.Now().UTC().Add(200 * 24 * time.Hour), nil
	}
}

func setupServer(t *testing.T, p probe.Prober) *httptest.Server {
	t.Helper()
	srv := NewServer(
		zap.NewNop(),
		p,
		cache.NewMemory(0),
		nil,
		Defaults{Port: 443, WarnDays: 15, Workers: 10},
	)
	keys := apimw.Keys{
		Public: []string{"pub_test"},
		Admin:  []string{"adm_test"},
	}

	// very high rate limits to avoid flakiness in tests
	ts := httptest.NewServer(srv.Router(keys, 10_000, 10_000, 10_000, 10_000))
	t.Cleanup(ts.Close)
	return ts
}

func postChecks(t *testing.T, ts *httptest.Server, key, body, query string) *http.Response {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/checks"+query, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	return resp
}

// ---- tests ----

func TestRunChecks_ClassifiesBatch(t *testing.T) {
	ts := setupServer(t, &fakeProber{})

	body := `{"hosts":["ok.example.com","soon.example.com","down.example.com"],"warn_days":15}`
	resp := postChecks(t, ts, "pub_test", body, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	var res domain.BatchResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := domain.Summary{Total: 3, OK: 1, Warning: 1, Error: 1}
	if res.Summary != want {
		t.Fatalf("summary mismatch: got %+v want %+v", res.Summary, want)
	}
	if len(res.Buckets) != len(domain.BucketLabels) {
		t.Fatalf("bucket list truncated: %+v", res.Buckets)
	}
}

func TestRunChecks_ServesFromCache(t *testing.T) {
	p := &fakeProber{}
	ts := setupServer(t, p)
	body := `{"hosts":["ok.example.com"],"warn_days":15}`

	resp1 := postChecks(t, ts, "pub_test", body, "")
	resp1.Body.Close()
	first := atomic.LoadInt64(&p.calls)
	if first != 1 {
		t.Fatalf("want 1 probe call, got %d", first)
	}

	resp2 := postChecks(t, ts, "pub_test", body, "")
	defer resp2.Body.Close()
	if got := atomic.LoadInt64(&p.calls); got != first {
		t.Fatalf("second identical request must come from cache, probes went %d -> %d", first, got)
	}
	if resp2.Header.Get("X-Cache") != "HIT" {
		t.Fatalf("expected X-Cache: HIT header")
	}
}

func TestRunChecks_CSVFormat(t *testing.T) {
	ts := setupServer(t, &fakeProber{})

	resp := postChecks(t, ts, "pub_test", `{"hosts":["ok.example.com"]}`, "?format=csv")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("want text/csv, got %q", ct)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "host,port,expiry,days_left,status,error") {
		t.Fatalf("csv header missing: %q", buf.String())
	}
}

func TestRunChecks_BadInputs(t *testing.T) {
	ts := setupServer(t, &fakeProber{})

	cases := []struct {
		name string
		body string
	}{
		{"malformed", `{not json`},
		{"empty hosts", `{"hosts":[]}`},
		{"blank hosts", `{"hosts":["  ",""]}`},
		{"bad port", `{"hosts":["a.com"],"port":70000}`},
		{"negative warn", `{"hosts":["a.com"],"warn_days":-1}`},
	}
	for _, c := range cases {
		resp := postChecks(t, ts, "pub_test", c.body, "")
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: want 400, got %d", c.name, resp.StatusCode)
		}
	}
}

func TestRunChecks_RequiresKey(t *testing.T) {
	ts := setupServer(t, &fakeProber{})

	resp := postChecks(t, ts, "", `{"hosts":["a.com"]}`, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401 without key, got %d", resp.StatusCode)
	}
}

func TestPurgeCache_AdminOnly(t *testing.T) {
	p := &fakeProber{}
	ts := setupServer(t, p)
	body := `{"hosts":["ok.example.com"]}`

	resp := postChecks(t, ts, "pub_test", body, "")
	resp.Body.Close()

	// public key cannot purge
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/checks/cache", nil)
	req.Header.Set("X-API-Key", "pub_test")
	r1, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE error: %v", err)
	}
	r1.Body.Close()
	if r1.StatusCode != http.StatusForbidden {
		t.Fatalf("want 403 for public key, got %d", r1.StatusCode)
	}

	// admin purge, then the next run must probe again
	req2, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/checks/cache", nil)
	req2.Header.Set("X-API-Key", "adm_test")
	r2, err := http.DefaultClient.Do(req2)
	if err != nil {
		t.Fatalf("DELETE error: %v", err)
	}
	r2.Body.Close()
	if r2.StatusCode != http.StatusNoContent {
		t.Fatalf("want 204, got %d", r2.StatusCode)
	}

	before := atomic.LoadInt64(&p.calls)
	resp2 := postChecks(t, ts, "pub_test", body, "")
	resp2.Body.Close()
	if atomic.LoadInt64(&p.calls) != before+1 {
		t.Fatalf("purged cache should force a fresh probe")
	}
}

func TestHealthz(t *testing.T) {
	ts := setupServer(t, &fakeProber{})
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
}

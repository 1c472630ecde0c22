package update

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewer(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"1.2.0", "1.1.9", true},
		{"v1.10.0", "1.9.0", true},
		{"1.2.0", "1.2.0", false},
		{"1.2", "1.2.0", false},
		{"1.2.1", "1.2", true},
		{"1.1.0", "1.2.0", false},
		{"2.0.0-rc1", "1.9.9", true},
		{"9.9.9", "dev", false},
	}
	for _, tt := range tests {
		if got := Newer(tt.a, tt.b); got != tt.want {
			t.Errorf("Newer(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func releaseServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckNewerRelease(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, `{"tag_name":"v1.3.0","html_url":"https://github.com/x/releases/v1.3.0"}`)
	res, err := check(context.Background(), srv.Client(), srv.URL, "1.2.0")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res == nil || res.LatestVersion != "1.3.0" || res.URL == "" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestCheckUpToDate(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, `{"tag_name":"v1.2.0"}`)
	res, err := check(context.Background(), srv.Client(), srv.URL, "v1.2.0")
	if err != nil || res != nil {
		t.Errorf("expected nil, nil; got %+v, %v", res, err)
	}
}

func TestCheckErrors(t *testing.T) {
	srv := releaseServer(t, http.StatusForbidden, `rate limited`)
	if _, err := check(context.Background(), srv.Client(), srv.URL, "1.0.0"); err == nil {
		t.Error("expected error for non-200")
	}

	srv = releaseServer(t, http.StatusOK, `not json`)
	if _, err := check(context.Background(), srv.Client(), srv.URL, "1.0.0"); err == nil {
		t.Error("expected error for bad body")
	}
}

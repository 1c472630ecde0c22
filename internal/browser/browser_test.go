package browser

import (
	"errors"
	"slices"
	"testing"
)

func TestCommandRejectsUnsafeURLs(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://www.economicsobservatory.com/how-is-inflation-measured", false},
		{"http://example.com", false},
		{"file:///etc/passwd", true},
		{"javascript:alert(1)", true},
		{"ftp://example.com", true},
		{"https://", true},
		{"", true},
	}
	for _, tt := range tests {
		_, _, err := Command("linux", tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("Command(%q) err = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}

func TestCommandPerOS(t *testing.T) {
	const u = "https://example.com/a"
	tests := []struct {
		goos string
		name string
		args []string
	}{
		{"darwin", "open", []string{u}},
		{"linux", "xdg-open", []string{u}},
		{"freebsd", "xdg-open", []string{u}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", u}},
	}
	for _, tt := range tests {
		name, args, err := Command(tt.goos, u)
		if err != nil {
			t.Fatalf("%s: %v", tt.goos, err)
		}
		if name != tt.name || !slices.Equal(args, tt.args) {
			t.Errorf("%s: got %s %v, want %s %v", tt.goos, name, args, tt.name, tt.args)
		}
	}
}

func TestOpenUsesLauncher(t *testing.T) {
	orig := start
	t.Cleanup(func() { start = orig })

	var launched []string
	start = func(name string, args ...string) error {
		launched = append([]string{name}, args...)
		return nil
	}
	if err := Open("https://example.com"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(launched) == 0 || launched[len(launched)-1] != "https://example.com" {
		t.Errorf("launcher not called with URL: %v", launched)
	}

	start = func(string, ...string) error { return errors.New("no display") }
	if err := Open("https://example.com"); err == nil {
		t.Error("expected launcher error to surface")
	}

	start = func(string, ...string) error {
		t.Error("launcher must not run for rejected URLs")
		return nil
	}
	if err := Open("file:///etc/passwd"); err == nil {
		t.Error("expected error for file URL")
	}
}

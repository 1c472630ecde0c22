package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// start launches the opener. Tests replace it to avoid spawning a browser.
var start = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Command returns the opener invocation for rawURL on the given OS. Only
// absolute http and https URLs are accepted; result URLs come from the
// search backend and are not trusted.
func Command(goos, rawURL string) (string, []string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", nil, fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}
	if u.Host == "" {
		return "", nil, fmt.Errorf("refusing to open URL without host: %q", rawURL)
	}

	switch goos {
	case "darwin":
		return "open", []string{rawURL}, nil
	case "windows":
		// rundll32 rather than cmd /c start keeps the shell out of it
		return "rundll32", []string{"url.dll,FileProtocolHandler", rawURL}, nil
	default:
		return "xdg-open", []string{rawURL}, nil
	}
}

func Open(rawURL string) error {
	name, args, err := Command(runtime.GOOS, rawURL)
	if err != nil {
		return err
	}
	if err := start(name, args...); err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}
	return nil
}

package visualization

import (
	"fmt"
	"os/exec"
	"runtime"
)

// browserCommand returns the platform launcher invocation for url.
func browserCommand(goos, url string) (*exec.Cmd, error) {
	switch goos {
	case "linux":
		return exec.Command("xdg-open", url), nil
	case "darwin":
		return exec.Command("open", url), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", url), nil
	}
	return nil, fmt.Errorf("unsupported platform: %s", goos)
}

// OpenBrowser opens url in the user's default browser using the platform
// launcher (xdg-open, open, or cmd start). The launcher is started without
// waiting for it to exit.
func OpenBrowser(url string) error {
	cmd, err := browserCommand(runtime.GOOS, url)
	if err != nil {
		return err
	}
	return cmd.Start()
}

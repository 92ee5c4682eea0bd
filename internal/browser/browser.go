// Package browser hands URLs and text to the desktop: the default browser
// and the system clipboard.
package browser

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Open opens url in the default browser without waiting for it
func Open(url string) error {
	name, args := openCommand(runtime.GOOS, isWSL(), url)
	return exec.Command(name, args...).Start()
}

func openCommand(goos string, wsl bool, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "cmd", []string{"/c", "start", "", url}
	default: // Linux and others
		if wsl {
			// Hand off to the Windows side so the user's real browser opens
			return "explorer.exe", []string{url}
		}
		return "xdg-open", []string{url}
	}
}

// CopyToClipboard copies text to the system clipboard
func CopyToClipboard(text string) error {
	_, xclipErr := exec.LookPath("xclip")
	name, args := clipboardCommand(runtime.GOOS, isWSL(), xclipErr == nil)

	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

func clipboardCommand(goos string, wsl, haveXclip bool) (string, []string) {
	switch goos {
	case "darwin":
		return "pbcopy", nil
	case "windows":
		return "clip", nil
	default: // Linux
		switch {
		case wsl:
			return "clip.exe", nil
		case haveXclip:
			return "xclip", []string{"-selection", "clipboard"}
		default:
			return "xsel", []string{"--clipboard", "--input"}
		}
	}
}

// isWSL checks if running under Windows Subsystem for Linux
func isWSL() bool {
	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	return isWSLVersion(string(data))
}

func isWSLVersion(procVersion string) bool {
	version := strings.ToLower(procVersion)
	return strings.Contains(version, "microsoft") || strings.Contains(version, "wsl")
}

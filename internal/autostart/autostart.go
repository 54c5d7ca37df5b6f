// Package autostart registers the app to launch at login through an XDG
// autostart entry. It is an optional nicety: every failure here is
// reported and ignored, and task data is never touched.
package autostart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const entryName = "calendo.desktop"

func entryPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "autostart", entryName), nil
}

// Enabled reports whether an autostart entry currently exists.
func Enabled() bool {
	path, err := entryPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Enable writes the autostart entry pointing at the running executable.
func Enable() error {
	path, err := entryPath()
	if err != nil {
		return err
	}
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	entry := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=CalenDo
Exec=%s
X-GNOME-Autostart-enabled=true
`, exe)
	return os.WriteFile(path, []byte(entry), 0o644)
}

// Disable removes the autostart entry. A missing entry is not an error.
func Disable() error {
	path, err := entryPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

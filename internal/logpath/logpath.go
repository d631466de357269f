// Package logpath resolves the default log file location using OS
// log-directory conventions, falling back to a directory under the current
// working directory.
package logpath

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const (
	// FallbackDirName is the CWD subdirectory used when no platform
	// directory is writable.
	FallbackDirName = "logs"

	// FilenamePrefix starts every auto-generated log file name. The suffix
	// is a second-resolution timestamp; rapid repeated setups within the
	// same second may target the same file, matching documented behavior.
	FilenamePrefix = "standard_log_"
)

// Overridable in tests.
var (
	timeNow     = time.Now
	platformDir = defaultPlatformDir
)

// Resolve returns the directory-joined filename stem (no extension) for the
// application's log file. The caller appends ".jsonl" or ".log". It errors
// only when neither the platform directory nor ./logs is writable.
func Resolve(appName, appAuthor string) (string, error) {
	dir, platformErr := writablePlatformDir(appName, appAuthor)
	if platformErr != nil {
		fallback := filepath.Join(".", FallbackDirName)
		if err := ensureWritable(fallback); err != nil {
			return "", fmt.Errorf("no writable log directory: platform: %v, fallback: %w", platformErr, err)
		}
		dir = fallback
	}

	stem := FilenamePrefix + timeNow().Format("20060102_150405")

	return filepath.Join(dir, stem), nil
}

func writablePlatformDir(appName, appAuthor string) (string, error) {
	dir, err := platformDir(appName, appAuthor)
	if err != nil {
		return "", err
	}

	if err := ensureWritable(dir); err != nil {
		return "", err
	}

	return dir, nil
}

// defaultPlatformDir composes the per-OS user log directory: ~/Library/Logs
// on macOS, the user cache root with a Logs segment on Windows, and the XDG
// cache directory with a log segment elsewhere.
func defaultPlatformDir(appName, appAuthor string) (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}

		return filepath.Join(home, "Library", "Logs", authorSegment(appAuthor), appName), nil
	case "windows":
		base, err := os.UserCacheDir()
		if err != nil {
			return "", err
		}

		return filepath.Join(base, authorSegment(appAuthor), appName, "Logs"), nil
	default:
		base, err := os.UserCacheDir()
		if err != nil {
			return "", err
		}

		return filepath.Join(base, appName, "log"), nil
	}
}

// authorSegment drops the author directory level when no author was given.
func authorSegment(appAuthor string) string {
	return appAuthor
}

// ensureWritable creates the directory if needed and probes write access by
// creating and removing a temporary file; os.W_OK-style checks are not
// portable.
func ensureWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write_probe_*")
	if err != nil {
		return fmt.Errorf("no write permission for log directory %s: %w", dir, err)
	}

	name := probe.Name()
	if err := probe.Close(); err != nil {
		return err
	}

	return os.Remove(name)
}

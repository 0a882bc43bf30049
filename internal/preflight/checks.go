package preflight

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"gifbake/internal/config"
	"gifbake/internal/deps"
)

const engineCheckTimeout = 5 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckEngineVersion runs `<binary> -version` and reports the banner line.
// It uses a short timeout and a single attempt.
func CheckEngineVersion(ctx context.Context, name, binary string) Result {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return Result{Name: name, Detail: "binary not configured"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, engineCheckTimeout)
	defer cancel()

	output, err := exec.CommandContext(checkCtx, binary, "-version").Output()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s -version failed (%v)", binary, err)}
	}
	banner := firstLine(output)
	if banner == "" {
		return Result{Name: name, Detail: fmt.Sprintf("%s -version printed nothing", binary)}
	}
	return Result{Name: name, Passed: true, Detail: banner}
}

// CheckSystemDeps evaluates the external binaries for the given config.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	if cfg == nil {
		return nil
	}
	return deps.CheckEngine(cfg.FFmpegBinary(), cfg.FFprobeBinary())
}

func firstLine(output []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line
		}
	}
	return ""
}

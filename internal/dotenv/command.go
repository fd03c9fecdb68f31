package dotenv

import (
	"bytes"
	"os/exec"
	"runtime"
	"strings"
)

// shellAvailable reports whether a POSIX shell is available for command
// substitution. Per spec §4.1, platforms without one must disable command
// substitution rather than attempt it.
func shellAvailable() bool {
	return runtime.GOOS != "windows"
}

// runShellCommand executes cmdText under /bin/sh -c with the given child
// environment. ok is false on any execution failure or non-zero exit, in
// which case the caller preserves the literal "$(...)" text (spec §4.1,
// §7: command-substitution failure is the one error the parser swallows).
func runShellCommand(cmdText string, env []string) (out string, ok bool) {
	cmd := exec.Command("/bin/sh", "-c", cmdText)
	cmd.Env = env

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return "", false
	}

	return strings.TrimRight(stdout.String(), "\n"), true
}

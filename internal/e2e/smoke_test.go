package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeHelp(t *testing.T) {
	binaryPath := buildBinary(t)

	stdout, stderr, code := runEventwatch(t, binaryPath, "--help")
	assert.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Usage:")
}

func TestSmokeDataFlagPairExitsOne(t *testing.T) {
	binaryPath := buildBinary(t)

	_, stderr, code := runEventwatch(t, binaryPath, "--old-data", "x.json")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--new-data")
}

func TestSmokeUnknownFlagExitsTwo(t *testing.T) {
	binaryPath := buildBinary(t)

	_, _, code := runEventwatch(t, binaryPath, "--bogus")
	assert.Equal(t, 2, code)
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "eventwatch-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/eventwatch")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build eventwatch binary: %s", string(output))
	return binaryPath
}

func runEventwatch(t *testing.T, binaryPath string, args ...string) (string, string, int) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "EVENTWATCH_CONFIG="+filepath.Join(t.TempDir(), "absent.toml"))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		code = exitErr.ExitCode()
	} else {
		require.NoError(t, err)
	}
	return stdout.String(), stderr.String(), code
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

package cmd

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webskin/iiot-go-cli/internal/platform"
)

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "", "version")
	require.NoError(t, err)

	assert.Contains(t, stdout, "iiot version dev")
	assert.Contains(t, stdout, "Platform:")
}

func TestPersistentPreRun_MergesFlags(t *testing.T) {
	server, config := mockPlatform(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id": "u1"}`)
	})

	_, _, err := executeCommand(t, "", "--config", config, "--timeout", "9", "-o", "json", "users", "me")
	require.NoError(t, err)

	merged := GetConfig()
	require.NotNil(t, merged)
	assert.Equal(t, server.URL, merged.BaseURL, "from file")
	assert.Equal(t, 9, merged.Timeout, "flag beats file")
	assert.Equal(t, "json", merged.OutputFormat)
	assert.Equal(t, "never", merged.Color)
}

func TestPersistentPreRun_MissingConfigFile(t *testing.T) {
	_, _, err := executeCommand(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "assets", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "iiot config init")
}

func TestPersistentPreRun_InvalidConfig(t *testing.T) {
	config := writeTestConfig(t, "not-a-url")

	_, _, err := executeCommand(t, "", "--config", config, "assets", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "base-url")
}

func TestVerbose_RedactsToken(t *testing.T) {
	t.Setenv("IIOT_TOKEN", "env-secret")
	_, config := mockPlatform(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer flag-secret", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `{"id": "u1"}`)
	})

	_, stderr, err := executeCommand(t, "", "--config", config, "--verbose", "--token", "flag-secret", "users", "me", "-o", "json")
	require.NoError(t, err)

	assert.Contains(t, stderr, "[verbose] Environment: IIOT_TOKEN=[REDACTED]")
	assert.Contains(t, stderr, "[verbose] Config: token=[REDACTED] (source: flag)")
	assert.Contains(t, stderr, "[verbose] Config: project=plant-a (source: file/default)")
	assert.NotContains(t, stderr, "secret")
}

func TestLogEffectiveConfig_InsecureFalseSkipped(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{Use: "test"}
	cmd.SetErr(&buf)

	logEffectiveConfig(cmd, &platform.Config{Timeout: 30})

	output := buf.String()
	assert.Contains(t, output, "timeout=30")
	assert.NotContains(t, output, "insecure-skip-verify=false", "insecure=false should be hidden (uninteresting default)")
	assert.NotContains(t, output, "base-url", "unset fields are skipped")
}

func TestLogEffectiveConfig_SourceFromFlag(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Bool("insecure", false, "")
	require.NoError(t, cmd.Flags().Set("insecure", "true"))
	cmd.SetErr(&buf)

	logEffectiveConfig(cmd, &platform.Config{InsecureSkipVerify: true})

	assert.Contains(t, buf.String(), "insecure-skip-verify=true (source: flag)")
}

func TestLogEnvironmentVariables_NoneSet(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{Use: "test"}
	cmd.SetErr(&buf)

	for _, env := range os.Environ() {
		if name, _, _ := strings.Cut(env, "="); strings.HasPrefix(name, "IIOT_") {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}

	logEnvironmentVariables(cmd)

	assert.Equal(t, "[verbose] Environment: no IIOT_* variables set\n", buf.String())
}

func TestConfigureColorOutput(t *testing.T) {
	orig := color.NoColor
	t.Cleanup(func() { color.NoColor = orig })

	configureColorOutput("never")
	assert.True(t, color.NoColor)

	configureColorOutput("always")
	assert.False(t, color.NoColor)
}

func TestGetOutputFormat(t *testing.T) {
	t.Cleanup(func() { cfg = nil })

	cfg = nil
	assert.Equal(t, "table", string(getOutputFormat()))

	cfg = &platform.Config{OutputFormat: "yaml"}
	assert.Equal(t, "yaml", string(getOutputFormat()))
}

func TestCompletionCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "iiot")

	_, _, err = executeCommand(t, "", "completion", "tcsh")
	assert.Error(t, err)
}

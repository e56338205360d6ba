package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysglance/internal/scheduler"
)

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "dev", formatVersion("dev"))
	assert.Equal(t, "", formatVersion(""))
	assert.Equal(t, "v1.2.3", formatVersion("1.2.3"))
	assert.Equal(t, "v1.2.3", formatVersion("v1.2.3"))
}

func TestSetVersionInfo(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, date
	defer SetVersionInfo(origVersion, origCommit, origDate)

	SetVersionInfo("9.9.9", "deadbee", "2026-08-25")
	assert.Equal(t, "9.9.9", GetVersion())
	assert.Equal(t, "deadbee", commit)
	assert.Equal(t, "2026-08-25", date)
}

func TestSplitServices(t *testing.T) {
	assert.Equal(t,
		[]string{"ssh.service", "cron.service"},
		splitServices("ssh.service, cron.service"))
	assert.Equal(t,
		[]string{"nginx.service"},
		splitServices("  nginx.service ,, "))
	assert.Nil(t, splitServices("  ,  ,"))
}

func TestRegisteredCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"watch", "serve", "init", "version"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestBuildAppUsesDefaultsWithoutConfig(t *testing.T) {
	tmp := t.TempDir()
	t.Chdir(tmp)
	t.Setenv("HOME", tmp)

	a, err := buildApp(0)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, a.cfg.Interval())
	assert.NotNil(t, a.holder)
	assert.NotNil(t, a.themes)
	assert.Equal(t, scheduler.Idle, a.scheduler.State())

	_, ok := a.holder.Latest()
	assert.False(t, ok, "no snapshot may exist before the scheduler starts")
}

func TestBuildAppIntervalOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Chdir(tmp)
	t.Setenv("HOME", tmp)

	a, err := buildApp(250 * time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, a.scheduler.Start(t.Context()))
	a.scheduler.Stop()
	assert.Equal(t, scheduler.Stopped, a.scheduler.State())
}

func TestConfigFlagAccessor(t *testing.T) {
	orig := configFlag
	defer func() { configFlag = orig }()

	configFlag = "/tmp/custom.yaml"
	assert.Equal(t, "/tmp/custom.yaml", Config())
}

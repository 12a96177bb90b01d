package pidfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireWritesCurrentPID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.pid")
	p := New(path)

	require.NoError(t, p.Acquire())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	require.NoError(t, p.Release())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestAcquireReplacesStaleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid\n"), 0o644))

	require.NoError(t, New(path).Acquire())
}

func TestAcquireRefusesLiveProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.pid")
	// The parent of the test binary is alive for the whole run
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("%d\n", os.Getppid())), 0o644))

	err := New(path).Acquire()
	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestReleaseMissingFile(t *testing.T) {
	assert.NoError(t, New(filepath.Join(t.TempDir(), "absent.pid")).Release())
}

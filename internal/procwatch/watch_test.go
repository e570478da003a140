package procwatch

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_callsOnExitAfterProcessDies(t *testing.T) {
	cmd := exec.Command("sleep", "0.05")
	require.NoError(t, cmd.Start())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan struct{})
	orig := pollInterval
	t.Cleanup(func() { pollInterval = orig })
	pollInterval = 10 * time.Millisecond

	Watch(ctx, cmd.Process, func() { close(done) })

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("onExit was never called")
	}

	_ = cmd.Wait()
}

func TestWatch_doesNotFireWhileAlive(t *testing.T) {
	proc, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	fired := false
	orig := pollInterval
	t.Cleanup(func() { pollInterval = orig })
	pollInterval = 10 * time.Millisecond

	Watch(ctx, proc, func() { fired = true })

	time.Sleep(50 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	assert.False(t, fired)
}

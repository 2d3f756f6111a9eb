//go:build !windows

package server

import (
	"context"
	"io"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRunInterruptSignal はSIGINTで終了コード0と停止メッセージを返し、ポートを解放することをテストする
func TestRunInterruptSignal(t *testing.T) {
	cfg := testConfig(writeWebRoot(t))
	cfg.Server.Port = freePort(t)

	out := &syncBuffer{}
	codeCh := make(chan int, 1)
	go func() {
		codeCh <- Run(context.Background(), cfg, out, WithLogWriter(io.Discard))
	}()

	// 起動メッセージはシグナル登録後に出力される
	waitForBanner(t, out)
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))

	assert.Equal(t, ExitOK, waitExitCode(t, codeCh))
	assert.Contains(t, out.String(), "🛑 Server stopped")
	assert.NotContains(t, out.String(), "Error starting server")

	// 次のインスタンスが同じポートで起動できること
	ln, err := net.Listen("tcp", cfg.ServerAddress())
	require.NoError(t, err)
	_ = ln.Close()
}

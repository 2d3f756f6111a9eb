package server

import (
	"bytes"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"sortyourmusic/internal/config"

	"github.com/stretchr/testify/require"
)

const testIndexHTML = "<!DOCTYPE html><html><body><h1>Sort Your Music</h1></body></html>"

// writeWebRoot はテスト用の配信ディレクトリを作成する
func writeWebRoot(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"index.html":     testIndexHTML,
		"script.js":      "console.log('sort');",
		"css/style.css":  "body { margin: 0; }",
		"js/auth.js":     "export const token = null;",
		"notes/todo.txt": "tempo\nenergy\n",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// testConfig はループバックの空きポートで待ち受ける設定を返す
func testConfig(root string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:   "127.0.0.1",
			Port:   0,
			WebDir: root,
		},
		Browser: config.BrowserConfig{
			Enabled: false,
			Delay:   50 * time.Millisecond,
		},
	}
}

// newTestServer はブラウザを開かないServerを作成する
func newTestServer(t *testing.T, cfg *config.Config, opts ...Option) *Server {
	t.Helper()

	opts = append([]Option{
		WithOutput(io.Discard),
		WithLogWriter(io.Discard),
		WithOpener(func(string) error { return nil }),
	}, opts...)
	return New(cfg, opts...)
}

// syncBuffer はゴルーチン間で共有できる出力先
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// freePort は空いているループバックのポート番号を返す
func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

// waitForBanner は起動メッセージが出力されるまで待つ
func waitForBanner(t *testing.T, out *syncBuffer) {
	t.Helper()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Press Ctrl+C to stop the server")
	}, 2*time.Second, 10*time.Millisecond)
}

// waitExitCode は Run の終了コードを待つ
func waitExitCode(t *testing.T, codeCh <-chan int) int {
	t.Helper()

	select {
	case code := <-codeCh:
		return code
	case <-time.After(3 * time.Second):
		t.Fatal("サーバーの停止がタイムアウトしました")
		return -1
	}
}

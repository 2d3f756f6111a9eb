package server

import (
	"context"
	"errors"
	"fmt"
	"io"

	"sortyourmusic/internal/config"
)

// プロセスの終了コード
const (
	ExitOK      = 0
	ExitFailure = 1
)

// Run はサーバーを起動して停止までブロックし、プロセスの終了コードを返す
// 利用者向けのメッセージは out に出力する
func Run(ctx context.Context, cfg *config.Config, out io.Writer, opts ...Option) int {
	srv := New(cfg, append([]Option{WithOutput(out)}, opts...)...)

	if err := srv.Start(ctx); err != nil {
		var bindErr *BindError
		if errors.As(err, &bindErr) && bindErr.AddrInUse() {
			fmt.Fprintf(out, "❌ Port %d is already in use. Please close other applications using this port.\n", cfg.Server.Port)
		} else {
			fmt.Fprintf(out, "❌ Error starting server: %v\n", err)
		}
		return ExitFailure
	}

	fmt.Fprintln(out, "\n🛑 Server stopped")
	return ExitOK
}

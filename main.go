package main

import (
	"context"
	"log"
	"os"

	"sortyourmusic/internal/config"
	"sortyourmusic/internal/server"
)

func main() {
	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// サーバーを起動し、停止まで待つ
	os.Exit(server.Run(context.Background(), cfg, os.Stdout))
}

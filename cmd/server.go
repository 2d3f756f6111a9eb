// Package main は開発用のサーバーコマンドの実装です
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"sortyourmusic/internal/config"
	"sortyourmusic/internal/server"
)

func main() {
	// コマンドラインオプション
	var (
		host       = flag.String("host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
		port       = flag.Int("port", 0, "サーバーのポート (デフォルト: 8000)")
		webDir     = flag.String("web", "", "配信するディレクトリ (デフォルト: web)")
		configPath = flag.String("config", "", "YAML設定ファイルのパス")
		noBrowser  = flag.Bool("no-browser", false, "起動時にブラウザを開かない")
		help       = flag.Bool("help", false, "ヘルプを表示")
	)

	flag.Parse()

	// ヘルプ表示
	if *help {
		fmt.Println("Sort Your Music")
		fmt.Println()
		fmt.Println("使用方法:")
		fmt.Println("  server [オプション]")
		fmt.Println()
		fmt.Println("オプション:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	// 設定を読み込む
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// コマンドラインオプションで設定を上書き
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *webDir != "" {
		cfg.Server.WebDir = *webDir
	}
	if *noBrowser {
		cfg.Browser.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("設定が不正です: %v", err)
	}

	log.Printf("Sort Your Music サーバーを起動します: %s", cfg.ServerAddress())
	os.Exit(server.Run(context.Background(), cfg, os.Stdout))
}

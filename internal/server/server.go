package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"sortyourmusic/internal/config"
	"sortyourmusic/internal/launcher"

	"github.com/gin-gonic/gin"
)

// defaultShutdownTimeout はグレースフルシャットダウンの待ち時間
const defaultShutdownTimeout = 5 * time.Second

// State はサーバーのライフサイクル状態
type State int

// State の定数定義
const (
	StateStarting State = iota // リスナー準備中
	StateServing               // 接続受付中
	StateStopped               // 停止済み
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "STARTING"
	case StateServing:
		return "SERVING"
	case StateStopped:
		return "STOPPED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	root       string
	engine     *gin.Engine
	httpServer *http.Server

	opener          launcher.Opener
	out             io.Writer
	logWriter       io.Writer
	shutdownTimeout time.Duration

	mu       sync.Mutex
	state    State
	listener net.Listener
}

// Option はServerの生成オプション
type Option func(*Server)

// WithOpener はブラウザを開く関数を差し替える
func WithOpener(open launcher.Opener) Option {
	return func(s *Server) {
		s.opener = open
	}
}

// WithOutput は起動メッセージの出力先を指定する
func WithOutput(w io.Writer) Option {
	return func(s *Server) {
		s.out = w
	}
}

// WithLogWriter はアクセスログの出力先を指定する
func WithLogWriter(w io.Writer) Option {
	return func(s *Server) {
		s.logWriter = w
	}
}

// WithShutdownTimeout はグレースフルシャットダウンの待ち時間を指定する
// 超えた場合は残りの接続を強制的に閉じる
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.shutdownTimeout = d
	}
}

// New は新しいServerインスタンスを作成する
func New(cfg *config.Config, opts ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		config:          cfg,
		root:            resolveRoot(cfg.Server.WebDir),
		opener:          launcher.DefaultOpener,
		out:             os.Stdout,
		logWriter:       os.Stderr,
		shutdownTimeout: defaultShutdownTimeout,
		state:           StateStarting,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine = newEngine(s.root, s.logWriter)
	s.httpServer = &http.Server{
		Addr:    cfg.ServerAddress(),
		Handler: s.engine,
	}

	return s
}

// resolveRoot は配信ディレクトリを絶対パスに解決する
func resolveRoot(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		log.Printf("配信ディレクトリの解決に失敗しました: %v", err)
		return dir
	}
	if _, err := os.Stat(abs); err != nil {
		log.Printf("配信ディレクトリが見つかりません: %s", abs)
	}
	return abs
}

// Handler はリクエストハンドラを返す
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Root は解決済みの配信ディレクトリを返す
func (s *Server) Root() string {
	return s.root
}

// State は現在の状態を返す
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Server) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Listen は設定されたアドレスにリスナーをバインドする
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return errors.New("リスナーは既にバインドされています")
	}

	addr := s.config.ServerAddress()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.state = StateStopped
		return &BindError{Addr: addr, Err: err}
	}

	s.listener = ln
	return nil
}

// Addr はバインド済みのアドレスを返す。未バインドなら nil
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// URL はブラウザで開くURLを返す
// バインド済みなら実際のポートを使う
func (s *Server) URL() string {
	if tcpAddr, ok := s.Addr().(*net.TCPAddr); ok {
		return fmt.Sprintf("http://localhost:%d", tcpAddr.Port)
	}
	return s.config.BrowserURL()
}

// Start はサーバーを起動し、停止するまでブロックする
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Serve はバインド済みのリスナーで接続を受け付ける
// 割り込みシグナルか ctx のキャンセルで停止し、その場合は nil を返す
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return errors.New("リスナーがバインドされていません")
	}

	// SERVING になった時点で Ctrl+C を確実に受け取れるよう先に登録する
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	s.setState(StateServing)
	s.printBanner()

	// ブラウザは待ち合わせずに開く
	if s.config.Browser.Enabled {
		launcher.New(s.config.Browser.Delay, s.opener).Launch(s.URL())
	}

	serveCh := make(chan error, 1)
	go func() {
		log.Printf("HTTPサーバーを起動しています: %s (配信ディレクトリ: %s)", ln.Addr(), s.root)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveCh <- fmt.Errorf("サーバーの実行に失敗: %w", err)
		}
	}()

	// コンテキストかシグナルを待つ
	select {
	case <-ctx.Done():
		log.Println("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		// 2回目の Ctrl+C はデフォルト動作（即時終了）に戻す
		signal.Stop(sigCh)
		log.Printf("シグナルを受信しました: %v", sig)
	case err := <-serveCh:
		_ = s.closeListener()
		s.setState(StateStopped)
		return err
	}

	// グレースフルシャットダウン
	return s.Shutdown()
}

// printBanner は起動メッセージを出力する
func (s *Server) printBanner() {
	fmt.Fprintf(s.out, "🎵 Sort Your Music is running at %s\n", s.URL())
	if s.config.Browser.Enabled {
		fmt.Fprintln(s.out, "Opening browser...")
	}
	fmt.Fprintln(s.out, "Press Ctrl+C to stop the server")
}

// Shutdown はサーバーをグレースフルにシャットダウンする
// 待ち時間内に終わらない接続は強制的に閉じる。停止自体は失敗扱いにしない
func (s *Server) Shutdown() error {
	defer s.setState(StateStopped)

	log.Println("サーバーをシャットダウンしています...")

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("グレースフルシャットダウンに失敗したため接続を強制的に閉じます: %v", err)
		if err := s.httpServer.Close(); err != nil {
			log.Printf("サーバーのクローズに失敗: %v", err)
		}
	}
	// Serve が始まる前に停止した場合もポートを解放する
	_ = s.closeListener()

	log.Println("サーバーを停止しました")
	return nil
}

// closeListener はリスナーを閉じる
func (s *Server) closeListener() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	err := s.listener.Close()
	s.listener = nil
	return err
}

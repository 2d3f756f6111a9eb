package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSヘッダーの値（開発用に全オリジンを許可する）
const (
	corsAllowOrigin  = "*"
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization"
)

// accessLogTimeFormat はアクセスログの日時フォーマット
const accessLogTimeFormat = "02/Jan/2006 15:04:05"

// newEngine は配信用のginエンジンを組み立てる
func newEngine(root string, logWriter io.Writer) *gin.Engine {
	engine := gin.New()
	// X-Forwarded-For を信用せず接続元アドレスをそのまま記録する
	_ = engine.SetTrustedProxies(nil)

	// CORSを最初に積むことで、404やpanic時のレスポンスにもヘッダーが付く
	engine.Use(
		corsMiddleware(),
		gin.LoggerWithConfig(gin.LoggerConfig{
			Formatter: accessLogFormatter,
			Output:    logWriter,
		}),
		gin.RecoveryWithWriter(logWriter),
	)

	static := newStaticHandler(root)
	engine.Any("/*filepath", static.handle)
	// Any に含まれないメソッド（PROPFIND など）
	engine.NoRoute(static.handle)

	return engine
}

// corsMiddleware は全レスポンスにCORSヘッダーを付与する
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", corsAllowOrigin)
		c.Header("Access-Control-Allow-Methods", corsAllowMethods)
		c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
		c.Next()
	}
}

// accessLogFormatter はコモンログ形式に近い1行を返す
func accessLogFormatter(param gin.LogFormatterParams) string {
	proto := "HTTP/1.1"
	if param.Request != nil {
		proto = param.Request.Proto
	}
	return fmt.Sprintf("%s - - [%s] \"%s %s %s\" %d -\n",
		param.ClientIP,
		param.TimeStamp.Format(accessLogTimeFormat),
		param.Method,
		param.Path,
		proto,
		param.StatusCode,
	)
}

// staticHandler は配信ディレクトリ配下のファイルを返す
type staticHandler struct {
	root  http.FileSystem
	files http.Handler
}

func newStaticHandler(root string) *staticHandler {
	dir := http.Dir(root)
	return &staticHandler{
		root:  dir,
		files: http.FileServer(dir),
	}
}

// handle はGET/HEADのみファイルを返し、それ以外は501とする
func (h *staticHandler) handle(c *gin.Context) {
	r := c.Request
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		c.String(http.StatusNotImplemented, "Unsupported method ('%s')", r.Method)
		return
	}

	// http.FileServer は /index.html を存在確認せずディレクトリへリダイレクトするため直接返す
	if strings.HasSuffix(r.URL.Path, "/index.html") {
		if !h.serveFile(c, r.URL.Path) {
			http.NotFound(c.Writer, r)
		}
		return
	}

	// ファイルへの末尾スラッシュ付きアクセスはリダイレクトせず404とする
	if r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/") && h.isRegularFile(r.URL.Path) {
		http.NotFound(c.Writer, r)
		return
	}

	h.files.ServeHTTP(c.Writer, r)
}

// isRegularFile は name が通常ファイルかを返す
func (h *staticHandler) isRegularFile(name string) bool {
	f, err := h.root.Open(name)
	if err != nil {
		return false
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	return err == nil && !info.IsDir()
}

// serveFile は name が通常ファイルであれば内容を返して true を返す
func (h *staticHandler) serveFile(c *gin.Context, name string) bool {
	f, err := h.root.Open(name)
	if err != nil {
		return false
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}

	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
	return true
}

package launcher

import (
	"io"
	"sync"
	"time"

	"github.com/pkg/browser"
)

// Opener はURLを開く関数
type Opener func(url string) error

var silenceBrowser sync.Once

// DefaultOpener はOS既定のブラウザでURLを開く
// xdg-open などの出力は端末に流さない
func DefaultOpener(url string) error {
	quietBrowser()
	return browser.OpenURL(url)
}

// quietBrowser は pkg/browser の出力先を一度だけ差し替える
func quietBrowser() {
	silenceBrowser.Do(func() {
		browser.Stdout = io.Discard
		browser.Stderr = io.Discard
	})
}

// Launcher は遅延付きでブラウザを開く
type Launcher struct {
	delay time.Duration
	open  Opener
}

// New は新しいLauncherを作成する
// open が nil の場合は DefaultOpener を使う
func New(delay time.Duration, open Opener) *Launcher {
	if open == nil {
		open = DefaultOpener
	}
	return &Launcher{
		delay: delay,
		open:  open,
	}
}

// Launch は delay 経過後に url を一度だけ開く
// 完了は待たない
func (l *Launcher) Launch(url string) {
	go l.run(url)
}

func (l *Launcher) run(url string) {
	// Opener のエラーも panic も利用者には伝えない
	defer func() {
		_ = recover()
	}()

	time.Sleep(l.delay)

	_ = l.open(url)
}

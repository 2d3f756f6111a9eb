// Package launcher は起動直後のブラウザオープンを担う
//
// # 責務
// - 指定した待ち時間の後に既定のブラウザでURLを開く
//
// # 仕様
//   - 1回だけ実行され、再試行もキャンセルもしない
//   - 呼び出し元をブロックしない（fire-and-forget）
//   - ブラウザを開けなくてもサーバーには影響しない。エラーは利用者に通知しない
package launcher

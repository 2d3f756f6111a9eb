// Package server は、ローカル開発用の静的ファイルサーバーを管理します。
//
// このパッケージは、HTTPサーバーの起動と停止、静的ファイルの配信、
// 全レスポンスへのCORSヘッダー付与、起動直後のブラウザオープンを担当します。
//
// 責務:
//   - TCPリスナーのバインドとバインド失敗の分類（ポート使用中かどうか）
//   - 配信ディレクトリ配下の静的ファイル（HTML/CSS/JS）の配信
//   - 成功・リダイレクト・エラーを問わず全レスポンスへのCORSヘッダー付与
//   - アクセスログの出力
//   - 割り込みシグナルによる停止
//
// 仕様:
//   - ルーティングとミドルウェアはgin-gonic/ginを使用
//   - 配信ディレクトリは起動時に一度だけ絶対パスへ解決し、作業ディレクトリは変更しない
//   - GET/HEAD以外のメソッドは501を返す
//   - グレースフルシャットダウンに対応
//   - 状態は STARTING → SERVING → STOPPED の一方向のみ
package server

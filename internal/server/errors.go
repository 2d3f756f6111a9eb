package server

import "fmt"

// BindError はリスナーのバインドに失敗したことを表す
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("%s へのバインドに失敗: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// AddrInUse はポートが既に使用中であることが原因かを返す
func (e *BindError) AddrInUse() bool {
	return isAddrInUse(e.Err)
}

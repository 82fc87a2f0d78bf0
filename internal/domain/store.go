package domain

import "context"

// StoreInspector 诊断接口用：只读，不做任何写入
type StoreInspector interface {
	Driver() string
	DatabaseName(ctx context.Context) string
	Ping(ctx context.Context) error
	Collections(ctx context.Context) ([]string, error)
}

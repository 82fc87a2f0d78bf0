package service

import (
	"context"
	"time"

	"fruito-api/internal/domain"
)

const (
	maxDiagCollections = 10
	maxDiagErrRunes    = 50
)

type DiagReport struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// DiagService /test 用的只读自检，任何错误都只体现在报告里
type DiagService struct {
	inspector   domain.StoreInspector
	dsnSet      bool
	nameSet     bool
	pingTimeout time.Duration
}

func NewDiagService(inspector domain.StoreInspector, dsnSet, nameSet bool) *DiagService {
	return &DiagService{inspector: inspector, dsnSet: dsnSet, nameSet: nameSet, pingTimeout: 3 * time.Second}
}

func (s *DiagService) Report(ctx context.Context) DiagReport {
	r := DiagReport{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
		DatabaseURL:      setOrNot(s.dsnSet),
		DatabaseName:     setOrNot(s.nameSet),
	}
	if s.inspector == nil {
		return r
	}

	ctx, cancel := context.WithTimeout(ctx, s.pingTimeout)
	defer cancel()
	if err := s.inspector.Ping(ctx); err != nil {
		r.Database = "❌ Error: " + truncate(err.Error(), maxDiagErrRunes)
		return r
	}
	r.Database = "✅ Available"
	r.ConnectionStatus = "Connected"

	cols, err := s.inspector.Collections(ctx)
	if err != nil {
		r.Database = "⚠️  Connected but Error: " + truncate(err.Error(), maxDiagErrRunes)
		return r
	}
	if len(cols) > maxDiagCollections {
		cols = cols[:maxDiagCollections]
	}
	if cols != nil {
		r.Collections = cols
	}
	r.Database = "✅ Connected & Working"
	return r
}

func setOrNot(ok bool) string {
	if ok {
		return "✅ Set"
	}
	return "❌ Not Set"
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}

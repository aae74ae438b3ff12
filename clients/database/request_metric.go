package database

import (
	"time"

	"github.com/uptrace/bun"
)

// RequestMetric contains request metrics for a single
// request handled by the bundle proxy service
type RequestMetric struct {
	bun.BaseModel `bun:"table:request_metrics,alias:rm"`

	ID                          int64  `bun:",pk,autoincrement"`
	RequestID                   string // uuid assigned by the request logging middleware
	Method                      string
	ModulePath                  string
	RequestedBundle             bool // whether a callback parameter triggered bundling
	BundleMemberCount           int
	ResponseStatus              int
	ResponseLatencyMilliseconds float64
	UserAgent                   string
	RequestTime                 time.Time
}

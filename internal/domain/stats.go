package domain

import "context"

// Stats feeds the administrator dashboard
type Stats struct {
	TotalSops       int64 `json:"totalSops"`
	TotalCategories int64 `json:"totalCategories"`
	TotalChats      int64 `json:"totalChats"`
	ActiveUsers     int64 `json:"activeUsers"`
}

// StatsRepository computes dashboard counters
type StatsRepository interface {
	Get(ctx context.Context) (*Stats, error)
}

package monitor

import "time"

type Status struct {
	PostgreSQL   bool      `json:"postgresql"`
	Redis        bool      `json:"redis"`
	CleanupQueue bool      `json:"cleanup_queue"`
	QueueDepth   int       `json:"queue_depth"`
	LastCheck    time.Time `json:"last_check"`
}

package store

import "time"

// Result is one persisted benchmark row. Rows of the same run share the
// RunID.
type Result struct {
	ID                 string `gorm:"primaryKey;size:36"`
	RunID              string `gorm:"index;size:36;not null"`
	Seq                int    `gorm:"not null"`
	Seed               uint64
	Structure          string `gorm:"size:16;not null"`
	N                  int    `gorm:"not null"`
	SearchRemovalNanos int64
	RebalanceNanos     int64
	TotalNanos         int64
	CreatedAt          time.Time
}

func (Result) TableName() string {
	return "bench_results"
}

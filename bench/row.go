package bench

import (
	"strconv"
)

const (
	StructureAVL      = "AVL"
	StructureRB       = "RB"
	StructureSkipList = "SkipList"
)

var csvHeader = []string{
	"Structure",
	"N",
	"SearchRemovalTime(ns)",
	"BalanceTime(ns)",
	"TotalTime(ns)",
}

// Row is the aggregate deletion cost of one structure for one size.
type Row struct {
	Structure          string
	N                  int
	SearchRemovalNanos int64
	RebalanceNanos     int64
	TotalNanos         int64
}

func (row Row) strings() []string {
	return []string{
		row.Structure,
		strconv.Itoa(row.N),
		strconv.FormatInt(row.SearchRemovalNanos, 10),
		strconv.FormatInt(row.RebalanceNanos, 10),
		strconv.FormatInt(row.TotalNanos, 10),
	}
}

// Sink receives the rows of every size once all its trials are done.
// A Write error aborts the run.
type Sink interface {
	Write(rows []Row) error
	Close() error
}

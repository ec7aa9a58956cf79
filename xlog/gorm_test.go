package xlog

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

type testGormRow struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func TestGormXLogger_Sqlite(t *testing.T) {
	buf := &bytes.Buffer{}
	parent := NewXLogger(
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerWriter(buf),
	)
	logger := NewGormXLogger(parent,
		WithGormXLoggerIgnoreRecord404Err(),
		WithGormXLoggerLogLevel(glogger.Info),
		WithGormXLoggerSlowThreshold(time.Minute),
	)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&testGormRow{}))
	require.NoError(t, db.Create(&testGormRow{Name: "AVL"}).Error)

	var row testGormRow
	err = db.Where("name = ?", "RB").First(&row).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	lines := testLogLines(t, buf)
	require.NotEmpty(t, lines)
	for _, line := range lines {
		require.Equal(t, "Gorm", line["component"])
		require.NotEqual(t, "ERROR", line["lvl"])
	}
	require.Contains(t, buf.String(), "sql trace")
}

func TestGormXLogger_LogMode(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewGormXLogger(NewXLogger(
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerWriter(buf),
	))
	ctx := context.Background()

	// Default level is warn.
	logger.Info(ctx, "hidden %d", 1)
	logger.Warn(ctx, "warned %d", 2)
	require.Len(t, testLogLines(t, buf), 1)

	buf.Reset()
	logger.LogMode(glogger.Silent)
	logger.Error(ctx, "silent")
	logger.Trace(ctx, time.Now(), func() (string, int64) { return "select 1", 1 }, errors.New("boom"))
	require.Empty(t, buf.String())

	logger.LogMode(glogger.Error)
	logger.Trace(ctx, time.Now(), func() (string, int64) { return "select 1", 1 }, errors.New("boom"))
	lines := testLogLines(t, buf)
	require.Len(t, lines, 1)
	require.Equal(t, "boom", lines[0]["error"])
	require.Equal(t, "select 1", lines[0]["sql"])
}

package bench

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/google/safeopen"
	"go.uber.org/multierr"

	"github.com/benz9527/idxbench/lib/infra"
)

var _ Sink = (*CSVSink)(nil)

type CSVSink struct {
	w      *csv.Writer
	closer io.Closer
}

// OpenCSVSink truncates (or creates) the file and writes the header.
// The file must stay beneath its own directory, no symlink escaping.
func OpenCSVSink(path string) (*CSVSink, error) {
	dir, name := filepath.Split(filepath.Clean(path))
	if len(dir) == 0 {
		dir = "."
	}
	f, err := safeopen.OpenFileBeneath(dir, name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, infra.WrapErrorStack(err, "[bench] open csv output "+path)
	}
	sink, err := newCSVSink(f, f)
	if err != nil {
		return nil, multierr.Append(err, f.Close())
	}
	return sink, nil
}

// NewCSVSink writes to w. The caller owns w.
func NewCSVSink(w io.Writer) (*CSVSink, error) {
	return newCSVSink(w, nil)
}

func newCSVSink(w io.Writer, closer io.Closer) (*CSVSink, error) {
	sink := &CSVSink{
		w:      csv.NewWriter(w),
		closer: closer,
	}
	if err := sink.w.Write(csvHeader); err != nil {
		return nil, infra.WrapErrorStack(err, "[bench] write csv header")
	}
	return sink, sink.flush()
}

func (sink *CSVSink) flush() error {
	sink.w.Flush()
	return infra.WrapErrorStack(sink.w.Error(), "[bench] flush csv")
}

func (sink *CSVSink) Write(rows []Row) error {
	for _, row := range rows {
		if err := sink.w.Write(row.strings()); err != nil {
			return infra.WrapErrorStack(err, "[bench] write csv row")
		}
	}
	return sink.flush()
}

func (sink *CSVSink) Close() error {
	err := sink.flush()
	if sink.closer != nil {
		err = multierr.Append(err, sink.closer.Close())
	}
	return err
}

package writer

import (
	"encoding/csv"
	"os"
)

// csvEncoder 带表头CSV格式的批量写盘器
// 说明：打开即写表头；行缓冲在csv.Writer内部，批大小只决定Flush频率，
// 与Arrow编码保持同一落盘节奏
type csvEncoder[T any] struct {
	f     *os.File
	w     *csv.Writer
	toRow func(rec T) []string

	rows      int
	batchSize int
}

func newCSVEncoder[T any](
	path string,
	header []string,
	toRow func(rec T) []string,
	batchSize int,
) (*csvEncoder[T], error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}
	return &csvEncoder[T]{
		f:         f,
		w:         w,
		toRow:     toRow,
		batchSize: batchSize,
	}, nil
}

func (e *csvEncoder[T]) Write(rec T) error {
	if err := e.w.Write(e.toRow(rec)); err != nil {
		return err
	}
	e.rows++
	if e.rows >= e.batchSize {
		e.rows = 0
		e.w.Flush()
		return e.w.Error()
	}
	return nil
}

func (e *csvEncoder[T]) Close() error {
	e.w.Flush()
	err := e.w.Error()
	if err2 := e.f.Close(); err == nil {
		err = err2
	}
	return err
}

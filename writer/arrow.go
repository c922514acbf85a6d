package writer

import (
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// arrowEncoder Arrow IPC流格式的批量写盘器
// 算法说明：
// 1. 行先写入固定模式的RecordBuilder列缓冲
// 2. 缓冲行数达到批大小时构造一个record batch整体写入IPC流并重置缓冲
// 3. Close时写出残批、结束IPC流并关闭文件
type arrowEncoder[T any] struct {
	f       *os.File
	builder *array.RecordBuilder
	w       *ipc.Writer
	addRow  func(b *array.RecordBuilder, rec T)

	rows      int
	batchSize int
}

func newArrowEncoder[T any](
	path string,
	schema *arrow.Schema,
	addRow func(b *array.RecordBuilder, rec T),
	batchSize int,
) (*arrowEncoder[T], error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &arrowEncoder[T]{
		f:         f,
		builder:   array.NewRecordBuilder(memory.DefaultAllocator, schema),
		w:         ipc.NewWriter(f, ipc.WithSchema(schema)),
		addRow:    addRow,
		batchSize: batchSize,
	}, nil
}

func (e *arrowEncoder[T]) Write(rec T) error {
	e.addRow(e.builder, rec)
	e.rows++
	if e.rows >= e.batchSize {
		return e.flush()
	}
	return nil
}

func (e *arrowEncoder[T]) flush() error {
	if e.rows == 0 {
		return nil
	}
	rec := e.builder.NewRecord() // 同时重置列缓冲
	defer rec.Release()
	e.rows = 0
	return e.w.Write(rec)
}

func (e *arrowEncoder[T]) Close() error {
	err := e.flush()
	if err2 := e.w.Close(); err == nil {
		err = err2
	}
	e.builder.Release()
	if err2 := e.f.Close(); err == nil {
		err = err2
	}
	return err
}

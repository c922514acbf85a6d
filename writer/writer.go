package writer

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/tsinghua-fib-lab/busnet-eval/record"
	"github.com/tsinghua-fib-lab/busnet-eval/utils/config"
)

// sink 单记录类型的有界通道+专属写盘协程
// 说明：单消费者，push与close之间依赖生产线程先停再关的调用模型；
// push只做非阻塞尝试，满或已关闭返回false
type sink[T any] struct {
	kind   string
	ch     chan T
	enc    encoder[T]
	done   chan struct{}
	closed atomic.Bool

	workerErr error // 写盘协程遇到的首个错误
}

func newSink[T any](kind string, capacity int, enc encoder[T]) *sink[T] {
	s := &sink[T]{
		kind: kind,
		ch:   make(chan T, capacity),
		enc:  enc,
		done: make(chan struct{}),
	}
	go s.run()
	return s
}

// run 写盘协程：排空通道内的每条记录后退出
// 说明：写盘出错后继续排空通道以保证close不被阻塞，错误在close时上浮
func (s *sink[T]) run() {
	defer close(s.done)
	for rec := range s.ch {
		if err := s.enc.Write(rec); err != nil {
			if s.workerErr == nil {
				s.workerErr = err
			}
		}
	}
}

func (s *sink[T]) push(rec T) bool {
	if s.closed.Load() {
		return false
	}
	select {
	case s.ch <- rec:
		return true
	default:
		return false
	}
}

// closeCh 关闭通道，拒绝后续push
func (s *sink[T]) closeCh() {
	if s.closed.Swap(true) {
		return
	}
	close(s.ch)
}

// join 等待写盘协程排空全部已入队记录
func (s *sink[T]) join() {
	<-s.done
}

// closeEnc 落盘残批并释放文件
func (s *sink[T]) closeEnc() error {
	err := s.enc.Close()
	if s.workerErr != nil {
		return s.workerErr
	}
	return err
}

// closer 关停三阶段的统一视图，供Writer按序推进
type closer interface {
	closeCh()
	join()
	closeEnc() error
}

// Writer 并发记录持久化器
// 功能：把记录生产（仿真调用栈驱动，不得阻塞）与记录落盘解耦
// 说明：每类记录一条有界通道+一个写盘协程，同类记录保持push顺序落盘，
// 跨类型不保证顺序。关停顺序固定：关通道→等协程排空→关编码器
type Writer struct {
	format Format

	busPassenger *sink[record.BusPassenger]
	busDelay     *sink[record.BusDelay]
	trip         *sink[record.Trip]
	busTrip      *sink[record.BusTrip]
	link         *sink[record.Link]

	closeOnce sync.Once
	closeErr  error
}

// New 创建持久化器
// 参数：files-各记录文件基础路径，batchSize-批大小，capacity-通道容量，
// format-输出格式
// 算法说明：
// 1. 为每个输出文件补全扩展名并确保父目录存在
// 2. 按格式创建五个批量编码器
// 3. 每类记录启动一条有界通道与写盘协程
func New(files config.DataFiles, batchSize, capacity int, format Format) (*Writer, error) {
	paths := []string{
		files.BusPaxRecords, files.BusDelayRecords,
		files.BusTripRecords, files.TripRecords, files.LinkRecords,
	}
	for _, p := range paths {
		if err := os.MkdirAll(filepath.Dir(format.ResolveExtension(p)), 0o755); err != nil {
			return nil, err
		}
	}

	w := &Writer{format: format}
	switch format {
	case FormatArrow:
		busPaxEnc, err := newArrowEncoder(format.ResolveExtension(files.BusPaxRecords), busPassengerSchema, busPassengerAddRow, batchSize)
		if err != nil {
			return nil, err
		}
		busDelayEnc, err := newArrowEncoder(format.ResolveExtension(files.BusDelayRecords), busDelaySchema, busDelayAddRow, batchSize)
		if err != nil {
			return nil, err
		}
		tripEnc, err := newArrowEncoder(format.ResolveExtension(files.TripRecords), tripSchema, tripAddRow, batchSize)
		if err != nil {
			return nil, err
		}
		busTripEnc, err := newArrowEncoder(format.ResolveExtension(files.BusTripRecords), busTripSchema, busTripAddRow, batchSize)
		if err != nil {
			return nil, err
		}
		linkEnc, err := newArrowEncoder(format.ResolveExtension(files.LinkRecords), linkSchema, linkAddRow, batchSize)
		if err != nil {
			return nil, err
		}
		w.busPassenger = newSink[record.BusPassenger]("bus_passenger", capacity, busPaxEnc)
		w.busDelay = newSink[record.BusDelay]("bus_delay", capacity, busDelayEnc)
		w.trip = newSink[record.Trip]("trip", capacity, tripEnc)
		w.busTrip = newSink[record.BusTrip]("bus_trip", capacity, busTripEnc)
		w.link = newSink[record.Link]("link", capacity, linkEnc)
	case FormatCSV:
		busPaxEnc, err := newCSVEncoder(format.ResolveExtension(files.BusPaxRecords), busPassengerHeader, busPassengerToRow, batchSize)
		if err != nil {
			return nil, err
		}
		busDelayEnc, err := newCSVEncoder(format.ResolveExtension(files.BusDelayRecords), busDelayHeader, busDelayToRow, batchSize)
		if err != nil {
			return nil, err
		}
		tripEnc, err := newCSVEncoder(format.ResolveExtension(files.TripRecords), tripHeader, tripToRow, batchSize)
		if err != nil {
			return nil, err
		}
		busTripEnc, err := newCSVEncoder(format.ResolveExtension(files.BusTripRecords), busTripHeader, busTripToRow, batchSize)
		if err != nil {
			return nil, err
		}
		linkEnc, err := newCSVEncoder(format.ResolveExtension(files.LinkRecords), linkHeader, linkToRow, batchSize)
		if err != nil {
			return nil, err
		}
		w.busPassenger = newSink[record.BusPassenger]("bus_passenger", capacity, busPaxEnc)
		w.busDelay = newSink[record.BusDelay]("bus_delay", capacity, busDelayEnc)
		w.trip = newSink[record.Trip]("trip", capacity, tripEnc)
		w.busTrip = newSink[record.BusTrip]("bus_trip", capacity, busTripEnc)
		w.link = newSink[record.Link]("link", capacity, linkEnc)
	default:
		log.Panicf("unknown writer format %q", format)
	}
	return w, nil
}

// PushBusPassenger 非阻塞入队，满或已关闭返回false
func (w *Writer) PushBusPassenger(r record.BusPassenger) bool {
	return w.busPassenger.push(r)
}

// PushBusDelay 非阻塞入队，满或已关闭返回false
func (w *Writer) PushBusDelay(r record.BusDelay) bool {
	return w.busDelay.push(r)
}

// PushTrip 非阻塞入队，满或已关闭返回false
func (w *Writer) PushTrip(r record.Trip) bool {
	return w.trip.push(r)
}

// PushBusTrip 非阻塞入队，满或已关闭返回false
func (w *Writer) PushBusTrip(r record.BusTrip) bool {
	return w.busTrip.push(r)
}

// PushLink 非阻塞入队，满或已关闭返回false
func (w *Writer) PushLink(r record.Link) bool {
	return w.link.push(r)
}

// Close 关停持久化器，幂等
// 算法说明：严格按 关全部通道→等全部协程排空→关全部编码器 的顺序推进，
// 保证所有已入队记录连同残批全部落盘后才释放文件
func (w *Writer) Close() error {
	w.closeOnce.Do(func() {
		sinks := []closer{w.busPassenger, w.busDelay, w.trip, w.busTrip, w.link}
		for _, s := range sinks {
			s.closeCh()
		}
		for _, s := range sinks {
			s.join()
		}
		for _, s := range sinks {
			if err := s.closeEnc(); err != nil && w.closeErr == nil {
				w.closeErr = err
			}
		}
	})
	return w.closeErr
}

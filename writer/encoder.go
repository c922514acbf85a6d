package writer

// encoder 批量写盘器
// 契约：Write缓冲一行，缓冲达到批大小时整批落盘并重置缓冲；
// Close落盘未满的残批并释放文件资源。单协程调用，无需加锁
type encoder[T any] interface {
	Write(rec T) error
	Close() error
}

// Package extractor 事件流抽取器，把原始事件流转换为结构化记录
// 说明：每个抽取器按实体ID维护私有状态机，只在目标迭代内采集，
// 每次迭代边界整体清空状态。事件回调在单一调用线程上同步执行
package extractor

import "github.com/tsinghua-fib-lab/busnet-eval/record"

// Extractor 抽取器的公共生命周期
// 说明：事件回调按具体类型断言注册，此处只约束迭代边界的重置钩子
type Extractor interface {
	Reset(iteration int)
}

// Sink 记录接收端
// 功能：非阻塞接收抽取产出的记录，满或已关闭时返回false
// 说明：容量按正常负载下不会写满来配置，push失败视为不变量被破坏，
// 抽取器以panic中止整次运行
type Sink interface {
	PushBusDelay(r record.BusDelay) bool
	PushBusPassenger(r record.BusPassenger) bool
	PushTrip(r record.Trip) bool
	PushBusTrip(r record.BusTrip) bool
	PushLink(r record.Link) bool
}

// mustPush 校验push结果，失败即为持久化不变量被破坏
func mustPush(ok bool, kind string) {
	if !ok {
		log.Panicf("record push rejected for %s: channel full or closed", kind)
	}
}

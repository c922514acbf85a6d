package extractor

import (
	"strings"

	"github.com/tsinghua-fib-lab/busnet-eval/event"
	"github.com/tsinghua-fib-lab/busnet-eval/metadata"
	"github.com/tsinghua-fib-lab/busnet-eval/record"
)

// 出行抽取中排除的人员ID前缀（运营出行，含pt_司机）
const tripOperatorPrefix = "pt"

// 公交换乘的内部活动标记，不视为出行终点
const ptInteractionAct = "pt interaction"

// Trip 出行抽取器
// 功能：每个完成的非运营出行产出一条出行记录
// 算法说明：
//  1. 人员首次出发且带路由方式属性时开启出行（属性缺失则忽略，
//     事件流对每个实体不保证完整，这不是错误）
//  2. 开启期间每次上车把车辆ID追加进乘坐列表；
//     一旦乘坐黑名单车辆，立即丢弃整个出行
//  3. 活动开始（非换乘标记）时收尾：从未乘车的纯步行出行静默丢弃，
//     否则以活动开始时间-出发时间为出行耗时产出记录
//  4. 所有终止路径都会移除出行状态
type Trip struct {
	targetIter int
	md         *metadata.Metadata
	sink       Sink

	startCollect bool
	tripMap      map[string]*record.Trip
}

// NewTrip 创建出行抽取器
func NewTrip(targetIter int, md *metadata.Metadata, sink Sink) *Trip {
	return &Trip{
		targetIter: targetIter,
		md:         md,
		sink:       sink,
		tripMap:    map[string]*record.Trip{},
	}
}

// HandlePersonDeparture 出发，开启出行
func (h *Trip) HandlePersonDeparture(e *event.PersonDeparture) {
	if !h.startCollect {
		return
	}
	if strings.HasPrefix(e.PersonID, tripOperatorPrefix) {
		return
	}
	if _, ok := h.tripMap[e.PersonID]; ok {
		return
	}
	if e.RoutingMode == "" {
		// 路由方式属性是必需的出行方式信号，缺失则没有可度量的出行
		return
	}

	h.tripMap[e.PersonID] = &record.Trip{
		PersonID:  e.PersonID,
		StartTime: e.Time,
		MainMode:  e.RoutingMode,
	}
}

// HandlePersonEntersVehicle 上车，追加乘坐车辆；黑名单车辆丢弃整个出行
func (h *Trip) HandlePersonEntersVehicle(e *event.PersonEntersVehicle) {
	if !h.startCollect {
		return
	}
	if strings.HasPrefix(e.PersonID, tripOperatorPrefix) {
		return
	}
	trip, ok := h.tripMap[e.PersonID]
	if !ok {
		return
	}

	if h.md.IsBlacklisted(e.VehicleID) {
		delete(h.tripMap, e.PersonID)
		return
	}

	trip.VehList = append(trip.VehList, e.VehicleID)
}

// HandleActivityStart 活动开始，收尾出行
func (h *Trip) HandleActivityStart(e *event.ActivityStart) {
	if !h.startCollect {
		return
	}
	if strings.HasPrefix(e.PersonID, tripOperatorPrefix) {
		return
	}
	if e.ActType == ptInteractionAct {
		return
	}
	trip, ok := h.tripMap[e.PersonID]
	if !ok {
		return
	}
	delete(h.tripMap, e.PersonID)

	if len(trip.VehList) == 0 {
		// 纯步行出行不记录
		return
	}

	trip.TravelTime = e.Time - trip.StartTime
	mustPush(h.sink.PushTrip(*trip), "trip")
}

// Reset 迭代边界：按目标迭代开关采集并整体清空状态
func (h *Trip) Reset(iteration int) {
	h.startCollect = iteration == h.targetIter
	h.tripMap = map[string]*record.Trip{}
}

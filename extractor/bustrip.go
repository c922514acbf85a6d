package extractor

import (
	"strings"

	"github.com/tsinghua-fib-lab/busnet-eval/event"
	"github.com/tsinghua-fib-lab/busnet-eval/metadata"
	"github.com/tsinghua-fib-lab/busnet-eval/record"
)

// busTripState 单辆公交车的路段通过状态
// 说明：passengers是当前路段的已确认载客数，pending是上下客的待确认增量；
// 乘客变化只能归属到车辆实际驶入的下一条路段，驶入时才把pending提升为确认值
type busTripState struct {
	currentLinkID string  // 正在通过的路段
	enterTime     float64 // 驶入该路段的时间
	passengers    int     // 当前路段确认载客数
	pending       int     // 待确认载客数
}

// BusTrip 公交路段通过抽取器
// 功能：公交车每通过一条路段产出一条记录，标记该路段是否载客
// 算法说明：
//  1. 公交车驶入交通网时建立状态
//  2. 上下车事件只增减pending（司机与运营人员除外）
//  3. 驶入路段：pending提升为passengers，记新路段的驶入时间
//  4. 驶出路段：以passengers>0为载客标记产出记录，
//     通过耗时=当前时间-驶入时间；路段长度未知则跳过
//  5. 驶出交通网：产出末段记录后删除状态；此时pending必须为0
//     （车辆终止时不允许有未归属的上下客），违反即为致命错误
type BusTrip struct {
	targetIter int
	md         *metadata.Metadata
	sink       Sink

	startCollect bool
	busTrips     map[string]*busTripState
	vehDriverMap map[string]string
}

// NewBusTrip 创建公交路段抽取器
func NewBusTrip(targetIter int, md *metadata.Metadata, sink Sink) *BusTrip {
	return &BusTrip{
		targetIter:   targetIter,
		md:           md,
		sink:         sink,
		busTrips:     map[string]*busTripState{},
		vehDriverMap: map[string]string{},
	}
}

// HandleTransitDriverStarts 登记公交车司机
func (h *BusTrip) HandleTransitDriverStarts(e *event.TransitDriverStarts) {
	if !h.startCollect {
		return
	}
	if !h.md.IsBus(e.VehicleID) {
		return
	}
	h.vehDriverMap[e.VehicleID] = e.DriverID
}

// HandleVehicleEntersTraffic 公交车驶入交通网，建立状态
func (h *BusTrip) HandleVehicleEntersTraffic(e *event.VehicleEntersTraffic) {
	if !h.startCollect {
		return
	}
	if !h.md.IsBus(e.VehicleID) {
		return
	}
	h.busTrips[e.VehicleID] = &busTripState{
		currentLinkID: e.LinkID,
		enterTime:     e.Time,
	}
}

// HandleLinkEnter 驶入新路段：待确认载客数在此刻生效
func (h *BusTrip) HandleLinkEnter(e *event.LinkEnter) {
	if !h.startCollect {
		return
	}
	trip, ok := h.busTrips[e.VehicleID]
	if !ok {
		return
	}
	trip.currentLinkID = e.LinkID
	trip.enterTime = e.Time
	trip.passengers = trip.pending
}

// HandlePersonEntersVehicle 上客计入待确认数
func (h *BusTrip) HandlePersonEntersVehicle(e *event.PersonEntersVehicle) {
	if !h.startCollect {
		return
	}
	if e.PersonID == h.vehDriverMap[e.VehicleID] {
		return
	}
	if strings.HasPrefix(e.PersonID, transitOperatorPrefix) {
		return
	}
	trip, ok := h.busTrips[e.VehicleID]
	if !ok {
		return
	}
	trip.pending++
}

// HandlePersonLeavesVehicle 下客计入待确认数
func (h *BusTrip) HandlePersonLeavesVehicle(e *event.PersonLeavesVehicle) {
	if !h.startCollect {
		return
	}
	if e.PersonID == h.vehDriverMap[e.VehicleID] {
		return
	}
	if strings.HasPrefix(e.PersonID, transitOperatorPrefix) {
		return
	}
	trip, ok := h.busTrips[e.VehicleID]
	if !ok {
		return
	}
	trip.pending--
}

// emit 产出当前路段的通过记录，路段长度未知则跳过
func (h *BusTrip) emit(trip *busTripState, busID string, exitTime float64) {
	linkLen, ok := h.md.LinkLength[trip.currentLinkID]
	if !ok {
		return
	}
	mustPush(h.sink.PushBusTrip(record.BusTrip{
		BusID:         busID,
		LinkID:        trip.currentLinkID,
		LinkLength:    linkLen,
		TravelTime:    exitTime - trip.enterTime,
		HavePassenger: trip.passengers > 0,
	}), "bus trip")
}

// HandleLinkLeave 驶出路段，产出记录
func (h *BusTrip) HandleLinkLeave(e *event.LinkLeave) {
	if !h.startCollect {
		return
	}
	trip, ok := h.busTrips[e.VehicleID]
	if !ok {
		return
	}
	h.emit(trip, e.VehicleID, e.Time)
}

// HandleVehicleLeavesTraffic 驶出交通网，产出末段记录并校验不变量
func (h *BusTrip) HandleVehicleLeavesTraffic(e *event.VehicleLeavesTraffic) {
	if !h.startCollect {
		return
	}
	trip, ok := h.busTrips[e.VehicleID]
	if !ok {
		return
	}
	delete(h.busTrips, e.VehicleID)

	if trip.pending != 0 {
		log.Panicf("bus %s has %d pending passengers upon leaving traffic", e.VehicleID, trip.pending)
	}

	h.emit(trip, e.VehicleID, e.Time)
	delete(h.vehDriverMap, e.VehicleID)
}

// Reset 迭代边界：按目标迭代开关采集并整体清空状态
func (h *BusTrip) Reset(iteration int) {
	h.startCollect = iteration == h.targetIter
	h.busTrips = map[string]*busTripState{}
	h.vehDriverMap = map[string]string{}
}

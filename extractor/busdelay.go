package extractor

import (
	"strings"

	"github.com/tsinghua-fib-lab/busnet-eval/event"
	"github.com/tsinghua-fib-lab/busnet-eval/metadata"
	"github.com/tsinghua-fib-lab/busnet-eval/record"
)

// 公交司机人员ID前缀，带此前缀的人员不计入乘客侧记录
const transitOperatorPrefix = "pt_"

// delayStopState 单辆公交车的停站状态
// 说明：到站事件进入at-stop态，离站事件产出记录并回到idle态
type delayStopState struct {
	currentLink  string  // 当前所在路段
	lineID       string  // 所属公交线路
	stopID       string  // 当前停靠站点，空串表示不在站内
	arrivalTime  float64 // 到站时间
	arrivalDelay float64 // 到站延误（秒，带符号）
	departDelay  float64 // 离站延误（秒）
	boarding     int     // 本次停站上客数
	alighting    int     // 本次停站下客数
	atStop       bool    // 是否处于at-stop态
}

// BusDelay 公交到离站延误抽取器
// 功能：跟踪公交车的站点停靠，每完成一次到站+离站产出一条延误记录
// 算法说明：
//  1. 仅为公交车建立状态（司机发车、驶入路段事件触发建立）
//  2. 到站：记录站点、到站时间与延误，清零上下客计数
//  3. 停站期间的上下车事件只更新计数
//  4. 离站：站点、到站时间、线路齐备且线路有已知发车间隔时产出记录；
//     到站延误低于-早到容忍度*60时以计划发车间隔替代（把"不可能的早到"
//     视为时刻表复位噪声而非真实早到，这是沿用的策略而非推导常量）
//  5. 未经到站事件建立状态的车辆，其离站事件静默忽略
type BusDelay struct {
	targetIter int
	md         *metadata.Metadata
	sink       Sink

	startCollect  bool
	vehicleStates map[string]*delayStopState
}

// NewBusDelay 创建公交延误抽取器
func NewBusDelay(targetIter int, md *metadata.Metadata, sink Sink) *BusDelay {
	return &BusDelay{
		targetIter:    targetIter,
		md:            md,
		sink:          sink,
		vehicleStates: map[string]*delayStopState{},
	}
}

// getOrCreateState 取/建公交车状态，非公交车返回nil
func (h *BusDelay) getOrCreateState(vehicleID string) *delayStopState {
	if !h.md.IsBus(vehicleID) {
		return nil
	}
	state, ok := h.vehicleStates[vehicleID]
	if !ok {
		state = &delayStopState{}
		h.vehicleStates[vehicleID] = state
	}
	return state
}

// HandleTransitDriverStarts 记录车辆所属线路
func (h *BusDelay) HandleTransitDriverStarts(e *event.TransitDriverStarts) {
	if !h.startCollect {
		return
	}
	state := h.getOrCreateState(e.VehicleID)
	if state == nil {
		return
	}
	state.lineID = e.TransitLineID
}

// HandleLinkEnter 跟踪车辆当前路段
func (h *BusDelay) HandleLinkEnter(e *event.LinkEnter) {
	if !h.startCollect {
		return
	}
	state := h.getOrCreateState(e.VehicleID)
	if state == nil {
		return
	}
	state.currentLink = e.LinkID
}

// HandleVehicleArrivesAtFacility 到站，进入at-stop态
func (h *BusDelay) HandleVehicleArrivesAtFacility(e *event.VehicleArrivesAtFacility) {
	if !h.startCollect {
		return
	}
	state, ok := h.vehicleStates[e.VehicleID]
	if !ok {
		return
	}

	state.stopID = e.FacilityID
	if state.currentLink == "" {
		state.currentLink = "undefined"
	}
	state.arrivalTime = e.Time
	state.boarding = 0
	state.alighting = 0
	state.arrivalDelay = e.Delay
	state.atStop = true
}

// HandleVehicleDepartsAtFacility 离站，产出延误记录并回到idle态
func (h *BusDelay) HandleVehicleDepartsAtFacility(e *event.VehicleDepartsAtFacility) {
	if !h.startCollect {
		return
	}
	state, ok := h.vehicleStates[e.VehicleID]
	if !ok {
		return
	}
	if !state.atStop || state.stopID == "" || state.lineID == "" || state.currentLink == "" {
		return
	}

	headway, ok := h.md.LineHeadway[state.lineID]
	if !ok {
		return
	}
	// 早到钳位：NaN比较同样不命中，落入替代分支
	arrivalDelay := state.arrivalDelay
	if !(arrivalDelay >= -h.md.EarlyHeadwayTolerance*60.0) {
		arrivalDelay = headway
	}

	mustPush(h.sink.PushBusDelay(record.BusDelay{
		StopID:       state.stopID,
		ArrivalDelay: arrivalDelay,
		DepartDelay:  e.Delay,
	}), "bus delay")

	state.stopID = ""
	state.arrivalTime = 0
	state.arrivalDelay = 0
	state.departDelay = 0
	state.boarding = 0
	state.alighting = 0
	state.atStop = false
}

// HandlePersonEntersVehicle 停站期间计上客数
func (h *BusDelay) HandlePersonEntersVehicle(e *event.PersonEntersVehicle) {
	if !h.startCollect {
		return
	}
	if strings.HasPrefix(e.PersonID, transitOperatorPrefix) {
		return
	}
	state, ok := h.vehicleStates[e.VehicleID]
	if !ok {
		return
	}
	if state.atStop {
		state.boarding++
	}
}

// HandlePersonLeavesVehicle 停站期间计下客数
func (h *BusDelay) HandlePersonLeavesVehicle(e *event.PersonLeavesVehicle) {
	if !h.startCollect {
		return
	}
	if strings.HasPrefix(e.PersonID, transitOperatorPrefix) {
		return
	}
	state, ok := h.vehicleStates[e.VehicleID]
	if !ok {
		return
	}
	if state.atStop {
		state.alighting++
	}
}

// Reset 迭代边界：按目标迭代开关采集并整体清空状态
func (h *BusDelay) Reset(iteration int) {
	h.startCollect = iteration == h.targetIter
	h.vehicleStates = map[string]*delayStopState{}
}

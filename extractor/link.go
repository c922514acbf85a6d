package extractor

import (
	"strings"

	"github.com/tsinghua-fib-lab/busnet-eval/event"
	"github.com/tsinghua-fib-lab/busnet-eval/metadata"
	"github.com/tsinghua-fib-lab/busnet-eval/record"
)

// 短于该时长的路段通过视为测量噪声，不记录
const minTraversalSec = 1.0

// linkVehicleState 单辆车的路段通过状态（不限公交）
type linkVehicleState struct {
	currentLink    string  // 当前路段，空串表示不在路段上
	enterTime      float64 // 驶入时间
	hasEnter       bool    // 是否有有效的驶入时间
	lineID         string  // 公交线路ID（非公交为空）
	passengerCount int     // 当前载客数（仅公交有意义）
	isBus          bool    // 是否公交车
}

// Link 通用路段通过抽取器
// 功能：跟踪所有车辆的路段通过，产出带时间戳的通过记录
// 说明：与公交路段抽取器同构但不限公交，额外携带驶入/驶出时间、
// 线路ID与车辆每次驶入交通网的序号；黑名单车辆整体跳过；
// 通过时长低于噪声阈值的记录丢弃
type Link struct {
	targetIter int
	md         *metadata.Metadata
	sink       Sink

	startCollect  bool
	vehicleStates map[string]*linkVehicleState
	tripCount     map[string]int
}

// NewLink 创建通用路段抽取器
func NewLink(targetIter int, md *metadata.Metadata, sink Sink) *Link {
	return &Link{
		targetIter:    targetIter,
		md:            md,
		sink:          sink,
		vehicleStates: map[string]*linkVehicleState{},
		tripCount:     map[string]int{},
	}
}

func (h *Link) getOrCreateState(vehicleID string) *linkVehicleState {
	state, ok := h.vehicleStates[vehicleID]
	if !ok {
		state = &linkVehicleState{isBus: h.md.IsBus(vehicleID)}
		h.vehicleStates[vehicleID] = state
	}
	return state
}

// HandleTransitDriverStarts 登记公交线路
func (h *Link) HandleTransitDriverStarts(e *event.TransitDriverStarts) {
	if !h.startCollect {
		return
	}
	if h.md.IsBlacklisted(e.VehicleID) {
		return
	}
	state := h.getOrCreateState(e.VehicleID)
	state.lineID = e.TransitLineID
	state.isBus = h.md.IsBus(e.VehicleID)
}

// HandleVehicleEntersTraffic 驶入交通网，累加车辆出车序号
func (h *Link) HandleVehicleEntersTraffic(e *event.VehicleEntersTraffic) {
	if !h.startCollect {
		return
	}
	if h.md.IsBlacklisted(e.VehicleID) {
		return
	}
	state := h.getOrCreateState(e.VehicleID)
	state.currentLink = e.LinkID
	state.enterTime = e.Time
	state.hasEnter = true
	h.tripCount[e.VehicleID]++
}

// HandleLinkEnter 驶入路段
func (h *Link) HandleLinkEnter(e *event.LinkEnter) {
	if !h.startCollect {
		return
	}
	if h.md.IsBlacklisted(e.VehicleID) {
		return
	}
	state := h.getOrCreateState(e.VehicleID)
	state.currentLink = e.LinkID
	state.enterTime = e.Time
	state.hasEnter = true
}

// emit 产出通过记录；路段长度未知或时长低于阈值时丢弃
func (h *Link) emit(state *linkVehicleState, vehicleID string, exitTime float64) {
	linkLen, ok := h.md.LinkLength[state.currentLink]
	if !ok {
		return
	}
	if exitTime-state.enterTime < minTraversalSec {
		return
	}

	load := -1
	if state.isBus {
		load = state.passengerCount
	}
	mustPush(h.sink.PushLink(record.Link{
		VehicleID:      vehicleID,
		LinkID:         state.currentLink,
		LineID:         state.lineID,
		TripID:         h.tripCount[vehicleID],
		EnterTime:      state.enterTime,
		ExitTime:       exitTime,
		TravelDistance: linkLen,
		PassengerLoad:  load,
		IsBus:          state.isBus,
	}), "link")
}

// HandleLinkLeave 驶出路段，产出记录
func (h *Link) HandleLinkLeave(e *event.LinkLeave) {
	if !h.startCollect {
		return
	}
	state, ok := h.vehicleStates[e.VehicleID]
	if !ok {
		return
	}
	if state.currentLink == "" || !state.hasEnter {
		return
	}

	h.emit(state, e.VehicleID, e.Time)

	state.currentLink = ""
	state.hasEnter = false
}

// HandleVehicleLeavesTraffic 驶出交通网，产出末段记录并删除状态
func (h *Link) HandleVehicleLeavesTraffic(e *event.VehicleLeavesTraffic) {
	if !h.startCollect {
		return
	}
	state, ok := h.vehicleStates[e.VehicleID]
	if !ok {
		return
	}
	if state.currentLink != "" && state.hasEnter {
		h.emit(state, e.VehicleID, e.Time)
	}
	delete(h.vehicleStates, e.VehicleID)
}

// HandlePersonEntersVehicle 载客数+1
func (h *Link) HandlePersonEntersVehicle(e *event.PersonEntersVehicle) {
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
	state.passengerCount++
}

// HandlePersonLeavesVehicle 载客数-1
func (h *Link) HandlePersonLeavesVehicle(e *event.PersonLeavesVehicle) {
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
	state.passengerCount--
}

// Reset 迭代边界：按目标迭代开关采集并整体清空状态
func (h *Link) Reset(iteration int) {
	h.startCollect = iteration == h.targetIter
	h.vehicleStates = map[string]*linkVehicleState{}
	h.tripCount = map[string]int{}
}

package extractor

import (
	"strings"

	"github.com/tsinghua-fib-lab/busnet-eval/event"
	"github.com/tsinghua-fib-lab/busnet-eval/metadata"
	"github.com/tsinghua-fib-lab/busnet-eval/record"
)

// BusPassenger 公交乘客抽取器
// 功能：每次非司机乘客登上公交车产出一条乘客记录
// 算法说明：
// 1. 司机发车事件建立公交车→司机的映射（仅限公交车）
// 2. 已知车辆的上车事件中，上车人既非该车司机也非运营人员时产出记录
// 3. 车辆驶出交通网时删除映射（状态边界，非错误）
type BusPassenger struct {
	targetIter int
	md         *metadata.Metadata
	sink       Sink

	startCollect bool
	vehDriverMap map[string]string
}

// NewBusPassenger 创建公交乘客抽取器
func NewBusPassenger(targetIter int, md *metadata.Metadata, sink Sink) *BusPassenger {
	return &BusPassenger{
		targetIter:   targetIter,
		md:           md,
		sink:         sink,
		vehDriverMap: map[string]string{},
	}
}

// HandleTransitDriverStarts 登记公交车司机
func (h *BusPassenger) HandleTransitDriverStarts(e *event.TransitDriverStarts) {
	if !h.startCollect {
		return
	}
	if !h.md.IsBus(e.VehicleID) {
		return
	}
	h.vehDriverMap[e.VehicleID] = e.DriverID
}

// HandlePersonEntersVehicle 非司机乘客上车，产出记录
func (h *BusPassenger) HandlePersonEntersVehicle(e *event.PersonEntersVehicle) {
	if !h.startCollect {
		return
	}
	driver, ok := h.vehDriverMap[e.VehicleID]
	if !ok {
		return
	}
	if e.PersonID == driver {
		return
	}
	if strings.HasPrefix(e.PersonID, transitOperatorPrefix) {
		return
	}

	mustPush(h.sink.PushBusPassenger(record.BusPassenger{
		PersonID: e.PersonID,
		BusID:    e.VehicleID,
	}), "bus passenger")
}

// HandleVehicleLeavesTraffic 车辆驶出交通网，删除司机映射
func (h *BusPassenger) HandleVehicleLeavesTraffic(e *event.VehicleLeavesTraffic) {
	if !h.startCollect {
		return
	}
	delete(h.vehDriverMap, e.VehicleID)
}

// Reset 迭代边界：按目标迭代开关采集并整体清空状态
func (h *BusPassenger) Reset(iteration int) {
	h.startCollect = iteration == h.targetIter
	h.vehDriverMap = map[string]string{}
}

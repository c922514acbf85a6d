package event

// 按事件类型划分的订阅能力接口
// 说明：每个抽取器实现其关心的若干接口，派发器据此路由；
// 多个抽取器可独立订阅同一事件类型

// ResetHandler 迭代边界回调
// 说明：每个仿真迭代开始前调用一次，实现方须整体清空实体状态
type ResetHandler interface {
	Reset(iteration int)
}

// LinkEnterHandler 订阅车辆驶入路段事件
type LinkEnterHandler interface {
	HandleLinkEnter(e *LinkEnter)
}

// LinkLeaveHandler 订阅车辆驶出路段事件
type LinkLeaveHandler interface {
	HandleLinkLeave(e *LinkLeave)
}

// VehicleEntersTrafficHandler 订阅车辆驶入交通网事件
type VehicleEntersTrafficHandler interface {
	HandleVehicleEntersTraffic(e *VehicleEntersTraffic)
}

// VehicleLeavesTrafficHandler 订阅车辆驶出交通网事件
type VehicleLeavesTrafficHandler interface {
	HandleVehicleLeavesTraffic(e *VehicleLeavesTraffic)
}

// PersonEntersVehicleHandler 订阅人员上车事件
type PersonEntersVehicleHandler interface {
	HandlePersonEntersVehicle(e *PersonEntersVehicle)
}

// PersonLeavesVehicleHandler 订阅人员下车事件
type PersonLeavesVehicleHandler interface {
	HandlePersonLeavesVehicle(e *PersonLeavesVehicle)
}

// PersonDepartureHandler 订阅人员出发事件
type PersonDepartureHandler interface {
	HandlePersonDeparture(e *PersonDeparture)
}

// ActivityStartHandler 订阅活动开始事件
type ActivityStartHandler interface {
	HandleActivityStart(e *ActivityStart)
}

// TransitDriverStartsHandler 订阅公交司机发车事件
type TransitDriverStartsHandler interface {
	HandleTransitDriverStarts(e *TransitDriverStarts)
}

// VehicleArrivesAtFacilityHandler 订阅车辆到站事件
type VehicleArrivesAtFacilityHandler interface {
	HandleVehicleArrivesAtFacility(e *VehicleArrivesAtFacility)
}

// VehicleDepartsAtFacilityHandler 订阅车辆离站事件
type VehicleDepartsAtFacilityHandler interface {
	HandleVehicleDepartsAtFacility(e *VehicleDepartsAtFacility)
}

package event

import "math"

func nan() float64 { return math.NaN() }

// Dispatcher 事件派发器
// 功能：把一条事件路由给所有声明了对应订阅接口的处理器
// 说明：注册时按处理器实现的接口归类；派发在单一调用线程上同步进行，
// 处理器内部状态无需加锁。未知事件类型直接忽略
type Dispatcher struct {
	reset []ResetHandler

	linkEnter            []LinkEnterHandler
	linkLeave            []LinkLeaveHandler
	vehicleEntersTraffic []VehicleEntersTrafficHandler
	vehicleLeavesTraffic []VehicleLeavesTrafficHandler
	personEntersVehicle  []PersonEntersVehicleHandler
	personLeavesVehicle  []PersonLeavesVehicleHandler
	personDeparture      []PersonDepartureHandler
	activityStart        []ActivityStartHandler
	transitDriverStarts  []TransitDriverStartsHandler
	vehicleArrives       []VehicleArrivesAtFacilityHandler
	vehicleDeparts       []VehicleDepartsAtFacilityHandler
}

// NewDispatcher 创建派发器并注册处理器
func NewDispatcher(handlers ...any) *Dispatcher {
	d := &Dispatcher{}
	for _, h := range handlers {
		d.Register(h)
	}
	return d
}

// Register 注册处理器
// 算法说明：对处理器逐一做接口断言，命中的接口加入对应订阅列表
func (d *Dispatcher) Register(handler any) {
	if h, ok := handler.(ResetHandler); ok {
		d.reset = append(d.reset, h)
	}
	if h, ok := handler.(LinkEnterHandler); ok {
		d.linkEnter = append(d.linkEnter, h)
	}
	if h, ok := handler.(LinkLeaveHandler); ok {
		d.linkLeave = append(d.linkLeave, h)
	}
	if h, ok := handler.(VehicleEntersTrafficHandler); ok {
		d.vehicleEntersTraffic = append(d.vehicleEntersTraffic, h)
	}
	if h, ok := handler.(VehicleLeavesTrafficHandler); ok {
		d.vehicleLeavesTraffic = append(d.vehicleLeavesTraffic, h)
	}
	if h, ok := handler.(PersonEntersVehicleHandler); ok {
		d.personEntersVehicle = append(d.personEntersVehicle, h)
	}
	if h, ok := handler.(PersonLeavesVehicleHandler); ok {
		d.personLeavesVehicle = append(d.personLeavesVehicle, h)
	}
	if h, ok := handler.(PersonDepartureHandler); ok {
		d.personDeparture = append(d.personDeparture, h)
	}
	if h, ok := handler.(ActivityStartHandler); ok {
		d.activityStart = append(d.activityStart, h)
	}
	if h, ok := handler.(TransitDriverStartsHandler); ok {
		d.transitDriverStarts = append(d.transitDriverStarts, h)
	}
	if h, ok := handler.(VehicleArrivesAtFacilityHandler); ok {
		d.vehicleArrives = append(d.vehicleArrives, h)
	}
	if h, ok := handler.(VehicleDepartsAtFacilityHandler); ok {
		d.vehicleDeparts = append(d.vehicleDeparts, h)
	}
}

// Reset 迭代边界，通知所有处理器
func (d *Dispatcher) Reset(iteration int) {
	for _, h := range d.reset {
		h.Reset(iteration)
	}
}

// Dispatch 解码通用事件并派发给订阅者
// 算法说明：按事件类型构造类型化事件，逐一调用订阅列表；
// 延误等浮点属性缺失时以NaN占位（math.NaN不可比较，后续比较天然不命中）
func (d *Dispatcher) Dispatch(p *Parsed) {
	switch p.Type {
	case TypeLinkEnter:
		e := LinkEnter{Time: p.Time, VehicleID: p.Attr(AttrVehicle), LinkID: p.Attr(AttrLink)}
		for _, h := range d.linkEnter {
			h.HandleLinkEnter(&e)
		}
	case TypeLinkLeave:
		e := LinkLeave{Time: p.Time, VehicleID: p.Attr(AttrVehicle), LinkID: p.Attr(AttrLink)}
		for _, h := range d.linkLeave {
			h.HandleLinkLeave(&e)
		}
	case TypeVehicleEntersTraffic:
		e := VehicleEntersTraffic{
			Time:      p.Time,
			VehicleID: p.Attr(AttrVehicle),
			LinkID:    p.Attr(AttrLink),
			PersonID:  p.Attr(AttrPerson),
		}
		for _, h := range d.vehicleEntersTraffic {
			h.HandleVehicleEntersTraffic(&e)
		}
	case TypeVehicleLeavesTraffic:
		e := VehicleLeavesTraffic{
			Time:      p.Time,
			VehicleID: p.Attr(AttrVehicle),
			LinkID:    p.Attr(AttrLink),
			PersonID:  p.Attr(AttrPerson),
		}
		for _, h := range d.vehicleLeavesTraffic {
			h.HandleVehicleLeavesTraffic(&e)
		}
	case TypePersonEntersVehicle:
		e := PersonEntersVehicle{Time: p.Time, PersonID: p.Attr(AttrPerson), VehicleID: p.Attr(AttrVehicle)}
		for _, h := range d.personEntersVehicle {
			h.HandlePersonEntersVehicle(&e)
		}
	case TypePersonLeavesVehicle:
		e := PersonLeavesVehicle{Time: p.Time, PersonID: p.Attr(AttrPerson), VehicleID: p.Attr(AttrVehicle)}
		for _, h := range d.personLeavesVehicle {
			h.HandlePersonLeavesVehicle(&e)
		}
	case TypePersonDeparture:
		e := PersonDeparture{
			Time:        p.Time,
			PersonID:    p.Attr(AttrPerson),
			LinkID:      p.Attr(AttrLink),
			LegMode:     p.Attr(AttrLegMode),
			RoutingMode: p.Attr(AttrRoutingMode),
		}
		for _, h := range d.personDeparture {
			h.HandlePersonDeparture(&e)
		}
	case TypeActivityStart:
		e := ActivityStart{
			Time:     p.Time,
			PersonID: p.Attr(AttrPerson),
			LinkID:   p.Attr(AttrLink),
			ActType:  p.Attr(AttrActType),
		}
		for _, h := range d.activityStart {
			h.HandleActivityStart(&e)
		}
	case TypeTransitDriverStarts:
		e := TransitDriverStarts{
			Time:          p.Time,
			DriverID:      p.Attr(AttrDriverID),
			VehicleID:     p.Attr(AttrVehicleID),
			TransitLineID: p.Attr(AttrTransitLine),
		}
		for _, h := range d.transitDriverStarts {
			h.HandleTransitDriverStarts(&e)
		}
	case TypeVehicleArrivesAtFacility:
		e := VehicleArrivesAtFacility{
			Time:       p.Time,
			VehicleID:  p.Attr(AttrVehicle),
			FacilityID: p.Attr(AttrFacility),
			Delay:      p.FloatAttr(AttrDelay, nan()),
		}
		for _, h := range d.vehicleArrives {
			h.HandleVehicleArrivesAtFacility(&e)
		}
	case TypeVehicleDepartsAtFacility:
		e := VehicleDepartsAtFacility{
			Time:       p.Time,
			VehicleID:  p.Attr(AttrVehicle),
			FacilityID: p.Attr(AttrFacility),
			Delay:      p.FloatAttr(AttrDelay, nan()),
		}
		for _, h := range d.vehicleDeparts {
			h.HandleVehicleDepartsAtFacility(&e)
		}
	}
}

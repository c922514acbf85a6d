// Package event 仿真事件表示与按类型派发
// 说明：仿真引擎按实体内因果序逐条产出事件，跨实体不保证全局有序；
// 离线回放以字符串属性表（Parsed）表示事件，在线接入直接构造类型化事件
package event

import "strconv"

// 事件类型字符串，与MATSim事件文件保持一致
const (
	TypeLinkEnter                = "entered link"
	TypeLinkLeave                = "left link"
	TypeVehicleEntersTraffic     = "vehicle enters traffic"
	TypeVehicleLeavesTraffic     = "vehicle leaves traffic"
	TypePersonEntersVehicle      = "PersonEntersVehicle"
	TypePersonLeavesVehicle      = "PersonLeavesVehicle"
	TypePersonDeparture          = "departure"
	TypeActivityStart            = "actstart"
	TypeTransitDriverStarts      = "TransitDriverStarts"
	TypeVehicleArrivesAtFacility = "VehicleArrivesAtFacility"
	TypeVehicleDepartsAtFacility = "VehicleDepartsAtFacility"
)

// 事件属性键
const (
	AttrTime        = "time"
	AttrType        = "type"
	AttrVehicle     = "vehicle"
	AttrLink        = "link"
	AttrPerson      = "person"
	AttrFacility    = "facility"
	AttrDelay       = "delay"
	AttrActType     = "actType"
	AttrLegMode     = "legMode"
	AttrRoutingMode = "computationalRoutingMode"
	AttrVehicleID   = "vehicleId"
	AttrDriverID    = "driverId"
	AttrTransitLine = "transitLineId"
)

// Parsed 离线回放的通用事件表示
// 说明：时间戳+类型+字符串属性表，属性表不保证对每个实体完整
type Parsed struct {
	Time  float64           // 事件时间（秒）
	Type  string            // 事件类型
	Attrs map[string]string // 属性表
}

// Attr 取属性值，缺失返回空串
func (p *Parsed) Attr(key string) string {
	return p.Attrs[key]
}

// FloatAttr 取浮点属性值，缺失或不可解析返回回退值
func (p *Parsed) FloatAttr(key string, fallback float64) float64 {
	raw, ok := p.Attrs[key]
	if !ok {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

// LinkEnter 车辆驶入路段
type LinkEnter struct {
	Time      float64
	VehicleID string
	LinkID    string
}

// LinkLeave 车辆驶出路段
type LinkLeave struct {
	Time      float64
	VehicleID string
	LinkID    string
}

// VehicleEntersTraffic 车辆驶入交通网
type VehicleEntersTraffic struct {
	Time      float64
	VehicleID string
	LinkID    string
	PersonID  string
}

// VehicleLeavesTraffic 车辆驶出交通网
type VehicleLeavesTraffic struct {
	Time      float64
	VehicleID string
	LinkID    string
	PersonID  string
}

// PersonEntersVehicle 人员上车
type PersonEntersVehicle struct {
	Time      float64
	PersonID  string
	VehicleID string
}

// PersonLeavesVehicle 人员下车
type PersonLeavesVehicle struct {
	Time      float64
	PersonID  string
	VehicleID string
}

// PersonDeparture 人员出发
type PersonDeparture struct {
	Time        float64
	PersonID    string
	LinkID      string
	LegMode     string
	RoutingMode string // 路由方式属性，可能缺失（空串）
}

// ActivityStart 活动开始
type ActivityStart struct {
	Time     float64
	PersonID string
	LinkID   string
	ActType  string
}

// TransitDriverStarts 公交司机发车
type TransitDriverStarts struct {
	Time          float64
	DriverID      string
	VehicleID     string
	TransitLineID string
}

// VehicleArrivesAtFacility 车辆到达站点
type VehicleArrivesAtFacility struct {
	Time       float64
	VehicleID  string
	FacilityID string
	Delay      float64 // 相对计划时刻的带符号延误（秒）
}

// VehicleDepartsAtFacility 车辆驶离站点
type VehicleDepartsAtFacility struct {
	Time       float64
	VehicleID  string
	FacilityID string
	Delay      float64
}

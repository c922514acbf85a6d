// Package record 定义抽取管线产出的结构化记录类型
// 说明：记录为不可变值对象，由各抽取器构造、由持久化层消费一次，
// 各类型的列名即落盘文件（Arrow/CSV）中的列名
package record

// BusDelay 公交到离站延误记录
// 列：stop_id, arrival_delay, depart_delay
// 说明：公交车完成一次站点停靠（到站事件+离站事件）后产出一条
type BusDelay struct {
	StopID       string  // 站点ID
	ArrivalDelay float64 // 到站延误（秒，已按早到容忍度钳位）
	DepartDelay  float64 // 离站延误（秒）
}

// BusPassenger 公交乘客上车记录
// 列：person_id, bus_id
// 说明：非司机乘客登上公交车时产出一条
type BusPassenger struct {
	PersonID string // 乘客ID
	BusID    string // 公交车ID
}

// Trip 出行记录
// 列：person_id, start_time, travel_time, main_mode, veh_list
// 说明：每个完成的非运营出行产出一条，veh_list为按乘坐顺序排列的车辆ID
type Trip struct {
	PersonID   string   // 出行人ID
	StartTime  float64  // 出发时间（秒）
	TravelTime float64  // 出行耗时（秒）
	MainMode   string   // 主要出行方式（出发事件的路由方式属性）
	VehList    []string // 乘坐过的车辆ID列表（有序）
}

// BusTrip 公交路段通过记录
// 列：bus_id, link_id, link_length, travel_time, have_passenger
// 说明：公交车每通过一条路段产出一条，have_passenger标记该路段上是否载客
type BusTrip struct {
	BusID         string  // 公交车ID
	LinkID        string  // 路段ID
	LinkLength    float64 // 路段长度（米）
	TravelTime    float64 // 通过耗时（秒）
	HavePassenger bool    // 通过该路段时是否载有乘客
}

// Link 通用车辆路段通过记录
// 列：vehicle_id, link_id, line_id, trip_id, enter_time, exit_time,
// travel_distance, passenger_load, is_bus
// 说明：不限公交，LineID为空表示非公交线路车辆，
// PassengerLoad为-1表示非公交车（不统计载客量）
type Link struct {
	VehicleID      string  // 车辆ID
	LinkID         string  // 路段ID
	LineID         string  // 公交线路ID（非公交为空）
	TripID         int     // 车辆本次驶入交通网的序号
	EnterTime      float64 // 驶入时间（秒）
	ExitTime       float64 // 驶出时间（秒）
	TravelDistance float64 // 通过距离（米，取路段长度）
	PassengerLoad  int     // 载客量（非公交为-1）
	IsBus          bool    // 是否公交车
}

package writer

import (
	"encoding/json"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/tsinghua-fib-lab/busnet-eval/record"
)

// 各记录类型的列模式与行编码
// 说明：Arrow与CSV共用同一逻辑模式；Trip.VehList在Arrow中为list<utf8>列，
// 在CSV中序列化为JSON数组字符串

var busDelaySchema = arrow.NewSchema([]arrow.Field{
	{Name: "stop_id", Type: arrow.BinaryTypes.String},
	{Name: "arrival_delay", Type: arrow.PrimitiveTypes.Float64},
	{Name: "depart_delay", Type: arrow.PrimitiveTypes.Float64},
}, nil)

var busDelayHeader = []string{"stop_id", "arrival_delay", "depart_delay"}

func busDelayAddRow(b *array.RecordBuilder, r record.BusDelay) {
	b.Field(0).(*array.StringBuilder).Append(r.StopID)
	b.Field(1).(*array.Float64Builder).Append(r.ArrivalDelay)
	b.Field(2).(*array.Float64Builder).Append(r.DepartDelay)
}

func busDelayToRow(r record.BusDelay) []string {
	return []string{r.StopID, formatFloat(r.ArrivalDelay), formatFloat(r.DepartDelay)}
}

var busPassengerSchema = arrow.NewSchema([]arrow.Field{
	{Name: "person_id", Type: arrow.BinaryTypes.String},
	{Name: "bus_id", Type: arrow.BinaryTypes.String},
}, nil)

var busPassengerHeader = []string{"person_id", "bus_id"}

func busPassengerAddRow(b *array.RecordBuilder, r record.BusPassenger) {
	b.Field(0).(*array.StringBuilder).Append(r.PersonID)
	b.Field(1).(*array.StringBuilder).Append(r.BusID)
}

func busPassengerToRow(r record.BusPassenger) []string {
	return []string{r.PersonID, r.BusID}
}

var tripSchema = arrow.NewSchema([]arrow.Field{
	{Name: "person_id", Type: arrow.BinaryTypes.String},
	{Name: "start_time", Type: arrow.PrimitiveTypes.Float64},
	{Name: "travel_time", Type: arrow.PrimitiveTypes.Float64},
	{Name: "main_mode", Type: arrow.BinaryTypes.String},
	{Name: "veh_list", Type: arrow.ListOf(arrow.BinaryTypes.String)},
}, nil)

var tripHeader = []string{"person_id", "start_time", "travel_time", "main_mode", "veh_list"}

func tripAddRow(b *array.RecordBuilder, r record.Trip) {
	b.Field(0).(*array.StringBuilder).Append(r.PersonID)
	b.Field(1).(*array.Float64Builder).Append(r.StartTime)
	b.Field(2).(*array.Float64Builder).Append(r.TravelTime)
	b.Field(3).(*array.StringBuilder).Append(r.MainMode)
	lb := b.Field(4).(*array.ListBuilder)
	lb.Append(true)
	vb := lb.ValueBuilder().(*array.StringBuilder)
	for _, v := range r.VehList {
		vb.Append(v)
	}
}

func tripToRow(r record.Trip) []string {
	return []string{
		r.PersonID,
		formatFloat(r.StartTime),
		formatFloat(r.TravelTime),
		r.MainMode,
		marshalVehList(r.VehList),
	}
}

var busTripSchema = arrow.NewSchema([]arrow.Field{
	{Name: "bus_id", Type: arrow.BinaryTypes.String},
	{Name: "link_id", Type: arrow.BinaryTypes.String},
	{Name: "link_length", Type: arrow.PrimitiveTypes.Float64},
	{Name: "travel_time", Type: arrow.PrimitiveTypes.Float64},
	{Name: "have_passenger", Type: arrow.FixedWidthTypes.Boolean},
}, nil)

var busTripHeader = []string{"bus_id", "link_id", "link_length", "travel_time", "have_passenger"}

func busTripAddRow(b *array.RecordBuilder, r record.BusTrip) {
	b.Field(0).(*array.StringBuilder).Append(r.BusID)
	b.Field(1).(*array.StringBuilder).Append(r.LinkID)
	b.Field(2).(*array.Float64Builder).Append(r.LinkLength)
	b.Field(3).(*array.Float64Builder).Append(r.TravelTime)
	b.Field(4).(*array.BooleanBuilder).Append(r.HavePassenger)
}

func busTripToRow(r record.BusTrip) []string {
	return []string{
		r.BusID,
		r.LinkID,
		formatFloat(r.LinkLength),
		formatFloat(r.TravelTime),
		strconv.FormatBool(r.HavePassenger),
	}
}

var linkSchema = arrow.NewSchema([]arrow.Field{
	{Name: "vehicle_id", Type: arrow.BinaryTypes.String},
	{Name: "link_id", Type: arrow.BinaryTypes.String},
	{Name: "line_id", Type: arrow.BinaryTypes.String},
	{Name: "trip_id", Type: arrow.PrimitiveTypes.Int32},
	{Name: "enter_time", Type: arrow.PrimitiveTypes.Float64},
	{Name: "exit_time", Type: arrow.PrimitiveTypes.Float64},
	{Name: "travel_distance", Type: arrow.PrimitiveTypes.Float64},
	{Name: "passenger_load", Type: arrow.PrimitiveTypes.Int32},
	{Name: "is_bus", Type: arrow.FixedWidthTypes.Boolean},
}, nil)

var linkHeader = []string{
	"vehicle_id", "link_id", "line_id", "trip_id",
	"enter_time", "exit_time", "travel_distance", "passenger_load", "is_bus",
}

func linkAddRow(b *array.RecordBuilder, r record.Link) {
	b.Field(0).(*array.StringBuilder).Append(r.VehicleID)
	b.Field(1).(*array.StringBuilder).Append(r.LinkID)
	b.Field(2).(*array.StringBuilder).Append(r.LineID)
	b.Field(3).(*array.Int32Builder).Append(int32(r.TripID))
	b.Field(4).(*array.Float64Builder).Append(r.EnterTime)
	b.Field(5).(*array.Float64Builder).Append(r.ExitTime)
	b.Field(6).(*array.Float64Builder).Append(r.TravelDistance)
	b.Field(7).(*array.Int32Builder).Append(int32(r.PassengerLoad))
	b.Field(8).(*array.BooleanBuilder).Append(r.IsBus)
}

func linkToRow(r record.Link) []string {
	return []string{
		r.VehicleID,
		r.LinkID,
		r.LineID,
		strconv.Itoa(r.TripID),
		formatFloat(r.EnterTime),
		formatFloat(r.ExitTime),
		formatFloat(r.TravelDistance),
		strconv.Itoa(r.PassengerLoad),
		strconv.FormatBool(r.IsBus),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func marshalVehList(vehList []string) string {
	if vehList == nil {
		vehList = []string{}
	}
	raw, err := json.Marshal(vehList)
	if err != nil {
		// []string的JSON序列化不会失败
		log.Panicf("veh_list marshal err: %v", err)
	}
	return string(raw)
}

package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tsinghua-fib-lab/busnet-eval/event"
	"github.com/tsinghua-fib-lab/busnet-eval/extractor"
)

func newLink(sink *memorySink) *extractor.Link {
	h := extractor.NewLink(0, newTestMetadata(), sink)
	h.Reset(0)
	return h
}

func TestLinkTraversal(t *testing.T) {
	sink := &memorySink{}
	h := newLink(sink)

	h.HandleVehicleEntersTraffic(&event.VehicleEntersTraffic{
		Time: 0, VehicleID: "car1", LinkID: "l1", PersonID: "p1",
	})
	h.HandleLinkLeave(&event.LinkLeave{Time: 10, VehicleID: "car1", LinkID: "l1"})
	h.HandleLinkEnter(&event.LinkEnter{Time: 10, VehicleID: "car1", LinkID: "l2"})
	h.HandleLinkLeave(&event.LinkLeave{Time: 40, VehicleID: "car1", LinkID: "l2"})

	assert.Len(t, sink.links, 2)
	r := sink.links[1]
	assert.Equal(t, "car1", r.VehicleID)
	assert.Equal(t, "l2", r.LinkID)
	assert.Equal(t, 10.0, r.EnterTime)
	assert.Equal(t, 40.0, r.ExitTime)
	assert.Equal(t, 250.0, r.TravelDistance)
	assert.Equal(t, -1, r.PassengerLoad)
	assert.False(t, r.IsBus)
}

func TestLinkShortTraversalDropped(t *testing.T) {
	sink := &memorySink{}
	h := newLink(sink)

	h.HandleVehicleEntersTraffic(&event.VehicleEntersTraffic{
		Time: 0, VehicleID: "car1", LinkID: "l1", PersonID: "p1",
	})
	h.HandleLinkLeave(&event.LinkLeave{Time: 0.5, VehicleID: "car1", LinkID: "l1"})

	assert.Empty(t, sink.links)
}

func TestLinkBusCarriesLineAndLoad(t *testing.T) {
	sink := &memorySink{}
	h := newLink(sink)

	h.HandleTransitDriverStarts(&event.TransitDriverStarts{
		Time: 0, DriverID: "pt_d1", VehicleID: "bus1", TransitLineID: "line1",
	})
	h.HandleVehicleEntersTraffic(&event.VehicleEntersTraffic{
		Time: 0, VehicleID: "bus1", LinkID: "l1", PersonID: "pt_d1",
	})
	h.HandlePersonEntersVehicle(&event.PersonEntersVehicle{
		Time: 2, PersonID: "p1", VehicleID: "bus1",
	})
	h.HandlePersonEntersVehicle(&event.PersonEntersVehicle{
		Time: 3, PersonID: "p2", VehicleID: "bus1",
	})
	h.HandlePersonLeavesVehicle(&event.PersonLeavesVehicle{
		Time: 4, PersonID: "p2", VehicleID: "bus1",
	})
	h.HandleLinkLeave(&event.LinkLeave{Time: 10, VehicleID: "bus1", LinkID: "l1"})

	assert.Len(t, sink.links, 1)
	r := sink.links[0]
	assert.Equal(t, "line1", r.LineID)
	assert.Equal(t, 1, r.PassengerLoad)
	assert.True(t, r.IsBus)
}

func TestLinkTripCounter(t *testing.T) {
	sink := &memorySink{}
	h := newLink(sink)

	for i := 0; i < 2; i++ {
		h.HandleVehicleEntersTraffic(&event.VehicleEntersTraffic{
			Time: float64(100 * i), VehicleID: "car1", LinkID: "l1", PersonID: "p1",
		})
		h.HandleVehicleLeavesTraffic(&event.VehicleLeavesTraffic{
			Time: float64(100*i + 50), VehicleID: "car1", LinkID: "l1", PersonID: "p1",
		})
	}

	assert.Len(t, sink.links, 2)
	assert.Equal(t, 1, sink.links[0].TripID)
	assert.Equal(t, 2, sink.links[1].TripID)
}

func TestLinkBlacklistedVehicleSkipped(t *testing.T) {
	sink := &memorySink{}
	h := newLink(sink)

	h.HandleVehicleEntersTraffic(&event.VehicleEntersTraffic{
		Time: 0, VehicleID: "tram1", LinkID: "l1", PersonID: "pt_d2",
	})
	h.HandleLinkLeave(&event.LinkLeave{Time: 10, VehicleID: "tram1", LinkID: "l1"})

	assert.Empty(t, sink.links)
}

func TestLinkLeaveWithoutEnterIgnored(t *testing.T) {
	sink := &memorySink{}
	h := newLink(sink)

	h.HandleLinkLeave(&event.LinkLeave{Time: 10, VehicleID: "car1", LinkID: "l1"})

	assert.Empty(t, sink.links)
}

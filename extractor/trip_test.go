package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tsinghua-fib-lab/busnet-eval/event"
	"github.com/tsinghua-fib-lab/busnet-eval/extractor"
)

func newTrip(sink *memorySink) *extractor.Trip {
	h := extractor.NewTrip(0, newTestMetadata(), sink)
	h.Reset(0)
	return h
}

func TestTripComplete(t *testing.T) {
	sink := &memorySink{}
	h := newTrip(sink)

	h.HandlePersonDeparture(&event.PersonDeparture{
		Time: 100, PersonID: "p1", LegMode: "walk", RoutingMode: "pt",
	})
	h.HandlePersonEntersVehicle(&event.PersonEntersVehicle{
		Time: 200, PersonID: "p1", VehicleID: "bus1",
	})
	// a pt interaction is an internal transfer point, not a trip end
	h.HandleActivityStart(&event.ActivityStart{
		Time: 300, PersonID: "p1", ActType: "pt interaction",
	})
	h.HandlePersonEntersVehicle(&event.PersonEntersVehicle{
		Time: 350, PersonID: "p1", VehicleID: "bus2",
	})
	h.HandleActivityStart(&event.ActivityStart{
		Time: 500, PersonID: "p1", ActType: "work",
	})

	assert.Len(t, sink.trips, 1)
	trip := sink.trips[0]
	assert.Equal(t, "p1", trip.PersonID)
	assert.Equal(t, 100.0, trip.StartTime)
	assert.Equal(t, 400.0, trip.TravelTime)
	assert.Equal(t, "pt", trip.MainMode)
	assert.Equal(t, []string{"bus1", "bus2"}, trip.VehList)
}

func TestTripBlacklistedVehicleDiscardsTrip(t *testing.T) {
	sink := &memorySink{}
	h := newTrip(sink)

	h.HandlePersonDeparture(&event.PersonDeparture{
		Time: 100, PersonID: "p1", RoutingMode: "pt",
	})
	h.HandlePersonEntersVehicle(&event.PersonEntersVehicle{
		Time: 200, PersonID: "p1", VehicleID: "bus1",
	})
	h.HandlePersonEntersVehicle(&event.PersonEntersVehicle{
		Time: 300, PersonID: "p1", VehicleID: "tram1",
	})
	h.HandleActivityStart(&event.ActivityStart{
		Time: 500, PersonID: "p1", ActType: "work",
	})

	assert.Empty(t, sink.trips)
}

func TestTripWalkOnlyDiscarded(t *testing.T) {
	sink := &memorySink{}
	h := newTrip(sink)

	h.HandlePersonDeparture(&event.PersonDeparture{
		Time: 100, PersonID: "p1", RoutingMode: "walk",
	})
	h.HandleActivityStart(&event.ActivityStart{
		Time: 500, PersonID: "p1", ActType: "home",
	})

	assert.Empty(t, sink.trips)
}

func TestTripMissingRoutingModeIgnored(t *testing.T) {
	sink := &memorySink{}
	h := newTrip(sink)

	h.HandlePersonDeparture(&event.PersonDeparture{
		Time: 100, PersonID: "p1", LegMode: "walk",
	})
	h.HandlePersonEntersVehicle(&event.PersonEntersVehicle{
		Time: 200, PersonID: "p1", VehicleID: "bus1",
	})
	h.HandleActivityStart(&event.ActivityStart{
		Time: 500, PersonID: "p1", ActType: "work",
	})

	assert.Empty(t, sink.trips)
}

func TestTripOperatorExcluded(t *testing.T) {
	sink := &memorySink{}
	h := newTrip(sink)

	h.HandlePersonDeparture(&event.PersonDeparture{
		Time: 100, PersonID: "pt_driver1", RoutingMode: "car",
	})
	h.HandlePersonEntersVehicle(&event.PersonEntersVehicle{
		Time: 200, PersonID: "pt_driver1", VehicleID: "bus1",
	})
	h.HandleActivityStart(&event.ActivityStart{
		Time: 500, PersonID: "pt_driver1", ActType: "work",
	})

	assert.Empty(t, sink.trips)
}

func TestTripSecondDepartureKeepsFirstStart(t *testing.T) {
	sink := &memorySink{}
	h := newTrip(sink)

	h.HandlePersonDeparture(&event.PersonDeparture{
		Time: 100, PersonID: "p1", RoutingMode: "pt",
	})
	// a leg-level departure within the same trip must not restart it
	h.HandlePersonDeparture(&event.PersonDeparture{
		Time: 250, PersonID: "p1", RoutingMode: "pt",
	})
	h.HandlePersonEntersVehicle(&event.PersonEntersVehicle{
		Time: 300, PersonID: "p1", VehicleID: "bus1",
	})
	h.HandleActivityStart(&event.ActivityStart{
		Time: 500, PersonID: "p1", ActType: "work",
	})

	assert.Len(t, sink.trips, 1)
	assert.Equal(t, 100.0, sink.trips[0].StartTime)
}

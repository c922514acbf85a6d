package extractor_test

import (
	"github.com/tsinghua-fib-lab/busnet-eval/metadata"
	"github.com/tsinghua-fib-lab/busnet-eval/record"
)

// memorySink collects pushed records in memory; reject simulates a
// saturated or closed destination.
type memorySink struct {
	busDelays []record.BusDelay
	busPax    []record.BusPassenger
	trips     []record.Trip
	busTrips  []record.BusTrip
	links     []record.Link
	reject    bool
}

func (s *memorySink) PushBusDelay(r record.BusDelay) bool {
	if s.reject {
		return false
	}
	s.busDelays = append(s.busDelays, r)
	return true
}

func (s *memorySink) PushBusPassenger(r record.BusPassenger) bool {
	if s.reject {
		return false
	}
	s.busPax = append(s.busPax, r)
	return true
}

func (s *memorySink) PushTrip(r record.Trip) bool {
	if s.reject {
		return false
	}
	s.trips = append(s.trips, r)
	return true
}

func (s *memorySink) PushBusTrip(r record.BusTrip) bool {
	if s.reject {
		return false
	}
	s.busTrips = append(s.busTrips, r)
	return true
}

func (s *memorySink) PushLink(r record.Link) bool {
	if s.reject {
		return false
	}
	s.links = append(s.links, r)
	return true
}

func newTestMetadata() *metadata.Metadata {
	return &metadata.Metadata{
		Bus: map[string]struct{}{
			"bus1": {},
			"bus2": {},
		},
		Blacklist: map[string]struct{}{
			"tram1": {},
		},
		LinkLength: map[string]float64{
			"l1": 100,
			"l2": 250,
		},
		LineHeadway: map[string]float64{
			"line1": 600,
		},
		TotalPopulation:       1000,
		EarlyHeadwayTolerance: 2,
		LateHeadwayTolerance:  3,
		TravelTimeBaseline:    30,
		ProductivityBaseline:  0.1,
	}
}

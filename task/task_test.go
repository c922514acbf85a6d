package task_test

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsinghua-fib-lab/busnet-eval/task"
	"github.com/tsinghua-fib-lab/busnet-eval/utils/config"
	"github.com/tsinghua-fib-lab/busnet-eval/writer"
)

const scenarioYAML = `total_population: 10
service_coverage: 0.8
transit_route_ratio: 0.4
transit_vehicles:
  bus1: CityBus12m
links:
  l1: 100
  l2: 250
line_headways:
  line1: 600
`

const eventsXML = `<?xml version="1.0" encoding="utf-8"?>
<events version="1.0">
	<event time="90.0" type="departure" person="p1" link="l0" legMode="walk" computationalRoutingMode="pt"/>
	<event time="100.0" type="TransitDriverStarts" driverId="pt_d1" vehicleId="bus1" transitLineId="line1"/>
	<event time="105.0" type="vehicle enters traffic" vehicle="bus1" link="l1" person="pt_d1"/>
	<event time="106.0" type="PersonEntersVehicle" person="pt_d1" vehicle="bus1"/>
	<event time="120.0" type="VehicleArrivesAtFacility" vehicle="bus1" facility="stop1" delay="30.0"/>
	<event time="125.0" type="PersonEntersVehicle" person="p1" vehicle="bus1"/>
	<event time="130.0" type="VehicleDepartsAtFacility" vehicle="bus1" facility="stop1" delay="35.0"/>
	<event time="135.0" type="left link" vehicle="bus1" link="l1"/>
	<event time="135.0" type="entered link" vehicle="bus1" link="l2"/>
	<event time="160.0" type="VehicleArrivesAtFacility" vehicle="bus1" facility="stop2" delay="10.0"/>
	<event time="165.0" type="PersonLeavesVehicle" person="p1" vehicle="bus1"/>
	<event time="166.0" type="VehicleDepartsAtFacility" vehicle="bus1" facility="stop2" delay="12.0"/>
	<event time="170.0" type="actstart" person="p1" link="l2" actType="work"/>
	<event time="175.0" type="vehicle leaves traffic" vehicle="bus1" link="l2" person="pt_d1"/>
</events>
`

func testConfig(t *testing.T, dir string) config.Config {
	t.Helper()
	scenarioPath := filepath.Join(dir, "scenario.yml")
	require.NoError(t, os.WriteFile(scenarioPath, []byte(scenarioYAML), 0644))

	return config.Config{
		Scenario:        scenarioPath,
		TargetIteration: 0,
		BatchSize:       2,
		ChannelCapacity: 1024,
		Files: config.Files{
			Data: config.DataFiles{
				BusPaxRecords:   filepath.Join(dir, "out", "bus_pax"),
				BusDelayRecords: filepath.Join(dir, "out", "bus_delay"),
				BusTripRecords:  filepath.Join(dir, "out", "bus_trip"),
				TripRecords:     filepath.Join(dir, "out", "trip"),
				LinkRecords:     filepath.Join(dir, "out", "link"),
			},
		},
		Classification: config.Classification{BusMarkers: []string{"bus"}},
		Scoring: config.Scoring{
			Params: config.ScoringParams{
				EarlyHeadwayTolerance: 2,
				LateHeadwayTolerance:  3,
				TravelTimeBaseline:    30,
				ProductivityBaseline:  0.1,
			},
			Weights: config.ScoringWeights{
				Ridership:  0.5,
				OnTimePerf: 0.5,
			},
		},
	}
}

func TestEndToEnd(t *testing.T) {
	for _, format := range []writer.Format{writer.FormatArrow, writer.FormatCSV} {
		t.Run(string(format), func(t *testing.T) {
			dir := t.TempDir()
			eventsPath := filepath.Join(dir, "events.xml")
			require.NoError(t, os.WriteFile(eventsPath, []byte(eventsXML), 0644))
			scorePath := filepath.Join(dir, "score.bin")
			breakdownPath := filepath.Join(dir, "breakdown.json")

			ctx, err := task.NewContext(testConfig(t, dir), format)
			require.NoError(t, err)
			defer ctx.Close()
			require.NoError(t, ctx.Run(eventsPath, scorePath, breakdownPath))

			// one rider out of a population of 10, both stop visits on time
			raw, err := os.ReadFile(scorePath)
			require.NoError(t, err)
			require.Len(t, raw, 8)
			score := math.Float64frombits(binary.BigEndian.Uint64(raw))
			assert.InDelta(t, 0.5*0.1+0.5*1.0, score, 1e-12)

			var breakdown map[string]float64
			blob, err := os.ReadFile(breakdownPath)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(blob, &breakdown))
			assert.InDelta(t, 0.1, breakdown["ridership"], 1e-12)
			assert.InDelta(t, 1.0, breakdown["on_time_perf"], 1e-12)
			assert.Equal(t, score, breakdown["final_score"])
			// breakdown also carries every zero-weight metric
			assert.Contains(t, breakdown, "bus_transfer_rate")
			assert.Equal(t, 0.8, breakdown["service_coverage"])
		})
	}
}

func TestContextRejectsBadWeights(t *testing.T) {
	dir := t.TempDir()
	c := testConfig(t, dir)
	c.Scoring.Weights.OnTimePerf = 0.6

	_, err := task.NewContext(c, writer.FormatCSV)
	assert.Error(t, err)
}

func TestContextMissingScenario(t *testing.T) {
	dir := t.TempDir()
	c := testConfig(t, dir)
	c.Scenario = filepath.Join(dir, "absent.yml")

	_, err := task.NewContext(c, writer.FormatCSV)
	assert.Error(t, err)
}

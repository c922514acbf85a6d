package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/tsinghua-fib-lab/busnet-eval/utils/config"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	rc := config.NewRuntimeConfig(config.Config{})
	assert.Equal(t, config.DefaultBatchSize, rc.All.BatchSize)
	assert.Equal(t, config.DefaultChannelCapacity, rc.All.ChannelCapacity)

	rc = config.NewRuntimeConfig(config.Config{BatchSize: 500, ChannelCapacity: 1000})
	assert.Equal(t, 500, rc.All.BatchSize)
	assert.Equal(t, 1000, rc.All.ChannelCapacity)
}

func TestConfigYAML(t *testing.T) {
	raw := `
scenario: data/scenario.yml
target_iteration: 10
batch_size: 2000
files:
  data:
    bus_pax_records: out/bus_pax
    bus_delay_records: out/bus_delay
    bus_trip_records: out/bus_trip
    trip_records: out/trip
    link_records: out/link
classification:
  bus_markers: [bus, coach]
scoring:
  params:
    early_headway_tolerance: 2
    late_headway_tolerance: 3
    travel_time_baseline: 30
    productivity_baseline: 0.1
  weights:
    service_coverage: 0.1
    transit_route_ratio: 0.1
    ridership: 0.2
    on_time_perf: 0.2
    travel_time: 0.1
    transit_auto_time_ratio: 0.1
    productivity: 0.05
    bus_efficiency: 0.05
    bus_effective_travel_distance: 0.05
    bus_transfer_rate: 0.05
`
	var c config.Config
	require.NoError(t, yaml.UnmarshalStrict([]byte(raw), &c))
	assert.Equal(t, "data/scenario.yml", c.Scenario)
	assert.Equal(t, 10, c.TargetIteration)
	assert.Equal(t, "out/bus_delay", c.Files.Data.BusDelayRecords)
	assert.Equal(t, []string{"bus", "coach"}, c.Classification.BusMarkers)
	assert.Equal(t, 0.2, c.Scoring.Weights.Ridership)
	assert.Equal(t, 3.0, c.Scoring.Params.LateHeadwayTolerance)
}

func TestConfigYAMLUnknownKeyFails(t *testing.T) {
	var c config.Config
	assert.Error(t, yaml.UnmarshalStrict([]byte("not_a_key: 1\n"), &c))
}

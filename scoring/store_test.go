package scoring_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsinghua-fib-lab/busnet-eval/record"
	"github.com/tsinghua-fib-lab/busnet-eval/scoring"
	"github.com/tsinghua-fib-lab/busnet-eval/utils/config"
	"github.com/tsinghua-fib-lab/busnet-eval/writer"
)

// Arrow and CSV carry the same logical rows, so loading either format
// must produce identical query results.
func TestStoreLoadBothFormats(t *testing.T) {
	for _, format := range []writer.Format{writer.FormatArrow, writer.FormatCSV} {
		t.Run(string(format), func(t *testing.T) {
			dir := t.TempDir()
			files := config.DataFiles{
				BusPaxRecords:   filepath.Join(dir, "bus_pax"),
				BusDelayRecords: filepath.Join(dir, "bus_delay"),
				BusTripRecords:  filepath.Join(dir, "bus_trip"),
				TripRecords:     filepath.Join(dir, "trip"),
				LinkRecords:     filepath.Join(dir, "link"),
			}
			w, err := writer.New(files, 2, 64, format)
			require.NoError(t, err)
			assert.True(t, w.PushBusPassenger(record.BusPassenger{PersonID: "p1", BusID: "bus1"}))
			assert.True(t, w.PushBusPassenger(record.BusPassenger{PersonID: "p2", BusID: "bus1"}))
			assert.True(t, w.PushBusPassenger(record.BusPassenger{PersonID: "p1", BusID: "bus2"}))
			assert.True(t, w.PushTrip(record.Trip{
				PersonID: "p1", StartTime: 100, TravelTime: 300,
				MainMode: "pt", VehList: []string{"bus1", "bus2"},
			}))
			assert.True(t, w.PushTrip(record.Trip{
				PersonID: "p2", StartTime: 110, TravelTime: 200, MainMode: "walk",
			}))
			require.NoError(t, w.Close())

			store, err := scoring.NewStore()
			require.NoError(t, err)
			defer store.Close()
			require.NoError(t, store.Load(scoring.TableBusPax, files.BusPaxRecords, format))
			require.NoError(t, store.Load(scoring.TableTrip, files.TripRecords, format))

			n, err := store.Count(scoring.TableBusPax)
			require.NoError(t, err)
			assert.Equal(t, int64(3), n)

			distinct, err := store.Scalar(
				"SELECT COUNT(DISTINCT person_id) FROM " + scoring.TableBusPax)
			require.NoError(t, err)
			assert.Equal(t, 2.0, distinct)

			lists, err := store.TripVehLists("pt")
			require.NoError(t, err)
			require.Len(t, lists, 1)
			assert.Equal(t, []string{"bus1", "bus2"}, lists[0])
		})
	}
}

func TestStoreScalarNullIsZero(t *testing.T) {
	store, err := scoring.NewStore()
	require.NoError(t, err)
	defer store.Close()

	v, err := store.Scalar("SELECT SUM(1) WHERE 1 = 0")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestStoreUnknownTableFails(t *testing.T) {
	store, err := scoring.NewStore()
	require.NoError(t, err)
	defer store.Close()

	assert.Error(t, store.Load("no_such_table", "nowhere", writer.FormatCSV))
}

package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun(id string, created time.Time) *RunRecord {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &RunRecord{
		RunID:               id,
		CreatedAt:           created,
		Symbol:              "AAPL",
		Source:              "yahoo",
		Start:               start,
		End:                 start.AddDate(0, 0, 2),
		Bars:                3,
		FastWindow:          5,
		SlowWindow:          20,
		FinalMarketReturn:   0.2,
		FinalStrategyReturn: 0.05,
		MaxDrawdownMarket:   0.1,
		Exposure:            0.5,
		BuySignals:          2,
		SellSignals:         1,
		RoundTrips:          1,
		Equity: []EquityPoint{
			{Date: start, Close: 10, Market: 1, Strategy: 1, Position: "FLAT"},
			{Date: start.AddDate(0, 0, 1), Close: 11, Market: 1.1, Strategy: 1, Position: "HOLDING"},
			{Date: start.AddDate(0, 0, 2), Close: 12, Market: 1.2, Strategy: 1.05, Position: "HOLDING"},
		},
	}
}

func TestSQLiteRecorder_RecordAndLastRun(t *testing.T) {
	r, err := NewSQLiteRecorder(":memory:")
	require.NoError(t, err)
	defer r.Close()

	_, err = r.LastRun()
	assert.ErrorIs(t, err, ErrNoRuns)

	t0 := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, r.RecordRun(sampleRun("run-1", t0)))
	second := sampleRun("run-2", t0.Add(time.Hour))
	second.Synthetic = true
	second.Source = "synthetic"
	require.NoError(t, r.RecordRun(second))

	last, err := r.LastRun()
	require.NoError(t, err)
	assert.Equal(t, "run-2", last.RunID)
	assert.True(t, last.Synthetic)
	assert.Equal(t, "synthetic", last.Source)
	assert.Equal(t, 20, last.SlowWindow)
	assert.Equal(t, 0.2, last.FinalMarketReturn)
	assert.Equal(t, 1, last.RoundTrips)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), last.End)
	assert.Equal(t, t0.Add(time.Hour).Unix(), last.CreatedAt.Unix())

	curve, err := r.EquityCurve("run-1")
	require.NoError(t, err)
	require.Len(t, curve, 3)
	assert.Equal(t, 1.2, curve[2].Market)
	assert.Equal(t, "HOLDING", curve[2].Position)
}

func TestSQLiteRecorder_DuplicateRunIDRollsBack(t *testing.T) {
	r, err := NewSQLiteRecorder(":memory:")
	require.NoError(t, err)
	defer r.Close()

	run := sampleRun("dup", time.Now())
	require.NoError(t, r.RecordRun(run))
	assert.Error(t, r.RecordRun(run))

	curve, err := r.EquityCurve("dup")
	require.NoError(t, err)
	assert.Len(t, curve, 3)
}

func TestSQLiteRecorder_FileWithWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.RecordRun(sampleRun("a", time.Now())))
	require.NoError(t, r.Close())

	// reopening keeps history
	r, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()
	last, err := r.LastRun()
	require.NoError(t, err)
	assert.Equal(t, "a", last.RunID)
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NewNoopRecorder()
	assert.NoError(t, rec.RecordRun(sampleRun("x", time.Now())))
	_, err := rec.LastRun()
	assert.ErrorIs(t, err, ErrNoRuns)
	assert.NoError(t, rec.Close())
}

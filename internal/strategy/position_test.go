package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"GoldenCross/internal/model"
)

func TestTrackPositions(t *testing.T) {
	const (
		N = model.SignalNone
		B = model.SignalBuy
		S = model.SignalSell
		F = model.Flat
		H = model.Holding
	)
	tests := []struct {
		name    string
		signals []model.CrossoverSignal
		want    []model.PositionState
	}{
		{"empty", nil, []model.PositionState{}},
		{"no signals stays flat", []model.CrossoverSignal{N, N, N}, []model.PositionState{F, F, F}},
		{"buy carries forward", []model.CrossoverSignal{N, B, N, N}, []model.PositionState{F, H, H, H}},
		{"sell is flat at same index", []model.CrossoverSignal{B, N, S, N}, []model.PositionState{H, H, F, F}},
		{"double buy is idempotent", []model.CrossoverSignal{B, B, N}, []model.PositionState{H, H, H}},
		{"sell while flat stays flat", []model.CrossoverSignal{S, N, S}, []model.PositionState{F, F, F}},
		{"round trips", []model.CrossoverSignal{N, B, S, B, N, S}, []model.PositionState{F, H, F, H, H, F}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrackPositions(tt.signals))
		})
	}
}

func TestTrackPositions_SameLength(t *testing.T) {
	signals := make([]model.CrossoverSignal, 250)
	signals[10] = model.SignalBuy
	signals[100] = model.SignalSell
	got := TrackPositions(signals)
	assert.Len(t, got, len(signals))
	assert.Equal(t, model.Flat, got[9])
	assert.Equal(t, model.Holding, got[99])
	assert.Equal(t, model.Flat, got[100])
}

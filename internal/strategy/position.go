package strategy

import "GoldenCross/internal/model"

// TrackPositions turns sparse crossover signals into a held/flat state per
// index. Buy moves to Holding, Sell moves to Flat at that same index, and
// None carries the previous state forward. The state before index 0 is Flat.
func TrackPositions(signals []model.CrossoverSignal) []model.PositionState {
	positions := make([]model.PositionState, len(signals))
	state := model.Flat
	for i, sig := range signals {
		switch sig {
		case model.SignalBuy:
			state = model.Holding
		case model.SignalSell:
			state = model.Flat
		}
		positions[i] = state
	}
	return positions
}

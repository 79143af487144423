package model

// CrossoverSignal marks a moving-average crossing at a time index.
type CrossoverSignal int

const (
	SignalNone CrossoverSignal = iota
	SignalBuy                  // golden cross
	SignalSell                 // death cross
)

func (s CrossoverSignal) String() string {
	switch s {
	case SignalBuy:
		return "BUY"
	case SignalSell:
		return "SELL"
	default:
		return "NONE"
	}
}

// PositionState is whether the strategy holds the asset at a time index.
type PositionState int

const (
	Flat PositionState = iota
	Holding
)

func (p PositionState) String() string {
	if p == Holding {
		return "HOLDING"
	}
	return "FLAT"
}

// Exposure is the fraction of capital in the market: 1 when holding, 0 when flat.
func (p PositionState) Exposure() float64 {
	if p == Holding {
		return 1
	}
	return 0
}

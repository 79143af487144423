package strategy

import (
	"fmt"

	"GoldenCross/internal/calculator"
	"GoldenCross/internal/model"
)

// SignalSet is the output of the crossover engine for one series.
type SignalSet struct {
	FastMA  []float64
	SlowMA  []float64
	Signals []model.CrossoverSignal
	// InsufficientHistory is set when the slow average is undefined everywhere.
	InsufficientHistory bool
}

// ValidateWindows checks the fast/slow window pair.
func ValidateWindows(fast, slow int) error {
	if fast < 1 || slow < 1 {
		return fmt.Errorf("%w: windows must be positive (fast=%d, slow=%d)", model.ErrInvalidConfiguration, fast, slow)
	}
	if fast >= slow {
		return fmt.Errorf("%w: fast window %d must be smaller than slow window %d", model.ErrInvalidConfiguration, fast, slow)
	}
	return nil
}

// Crossover computes both moving averages over the series closes and the
// golden/death cross signal at every index.
func Crossover(series *model.PriceSeries, fast, slow int) (*SignalSet, error) {
	if err := ValidateWindows(fast, slow); err != nil {
		return nil, err
	}
	closes := series.Closes()

	fastMA, err := calculator.SMASeries(closes, fast)
	if err != nil {
		return nil, fmt.Errorf("fast MA: %w", err)
	}
	slowMA, err := calculator.SMASeries(closes, slow)
	if err != nil {
		return nil, fmt.Errorf("slow MA: %w", err)
	}

	return &SignalSet{
		FastMA:              fastMA,
		SlowMA:              slowMA,
		Signals:             DetectCrossovers(fastMA, slowMA),
		InsufficientHistory: calculator.CountDefined(slowMA) == 0,
	}, nil
}

// DetectCrossovers compares two aligned average series. Both comparisons are
// strict, so a touch (fast == slow) at either index never yields a signal.
func DetectCrossovers(fast, slow []float64) []model.CrossoverSignal {
	n := min(len(fast), len(slow))
	signals := make([]model.CrossoverSignal, n)
	for i := 1; i < n; i++ {
		if !defined(fast[i], slow[i], fast[i-1], slow[i-1]) {
			continue
		}
		switch {
		case fast[i] > slow[i] && fast[i-1] < slow[i-1]:
			signals[i] = model.SignalBuy
		case fast[i] < slow[i] && fast[i-1] > slow[i-1]:
			signals[i] = model.SignalSell
		}
	}
	return signals
}

func defined(vs ...float64) bool {
	for _, v := range vs {
		if !calculator.Defined(v) {
			return false
		}
	}
	return true
}

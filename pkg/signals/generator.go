package signals

import (
	"math/rand/v2"
	"time"
)

const signalsPerSymbol = 5

// instrument describes a symbol the generator quotes.
type instrument struct {
	symbol string
	base   float64
	spread float64
}

var instruments = []instrument{
	{symbol: "NIFTY", base: 21500, spread: 500},
	{symbol: "BANKNIFTY", base: 45000, spread: 1000},
}

var signalTypes = []SignalType{TypeBuy, TypeSell, TypeHold}

// Generator produces the signal set for a time bucket. It stands in for the
// real (expensive) signal computation, which is why the Service always calls
// it through the cache.
type Generator struct{}

// NewGenerator creates a Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns five signals per instrument for the given bucket. The
// pseudo-random source is seeded from the bucket, so every caller computing
// the same bucket produces the same payload, a requirement of the cache's
// no-single-flight relaxation.
func (g *Generator) Generate(bucket time.Time) []Signal {
	rng := rand.New(rand.NewPCG(uint64(bucket.Unix()), 0))

	out := make([]Signal, 0, len(instruments)*signalsPerSymbol)
	for _, inst := range instruments {
		for range signalsPerSymbol {
			out = append(out, Signal{
				Symbol:     inst.symbol,
				Type:       signalTypes[rng.IntN(len(signalTypes))],
				Price:      round2(inst.base + (rng.Float64()*2-1)*inst.spread),
				Confidence: round2(0.60 + rng.Float64()*0.35),
				Timestamp:  bucket,
			})
		}
	}
	return out
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

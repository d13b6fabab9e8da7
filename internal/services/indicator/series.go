package indicator

import (
	"math"

	"BottomScan/internal/domain/models"
)

// Shared series math used by the evaluators. Formulas are the standard
// technical-analysis definitions; outputs are same-length series with NaN
// or midpoint padding during warmup so windows stay index-aligned.

func last(values []float64, def float64) float64 {
	if len(values) == 0 {
		return def
	}
	return values[len(values)-1]
}

func sma(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i+1 < period {
			out[i] = math.NaN()
		} else {
			out[i] = sum / float64(period)
		}
	}
	return out
}

func ema(values []float64, period int) []float64 {
	out := make([]float64, 0, len(values))
	if len(values) == 0 {
		return out
	}
	k := 2.0 / float64(period+1)
	prev := values[0]
	out = append(out, prev)
	for _, v := range values[1:] {
		prev = v*k + prev*(1-k)
		out = append(out, prev)
	}
	return out
}

func rsi(closes []float64, period int) []float64 {
	if len(closes) < 2 {
		out := make([]float64, len(closes))
		for i := range out {
			out[i] = 50.0
		}
		return out
	}
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gains[i] = math.Max(d, 0)
		losses[i] = math.Abs(math.Min(d, 0))
	}
	avgGain := sma(gains, period)
	avgLoss := sma(losses, period)
	out := make([]float64, len(closes))
	for i := range closes {
		g, l := avgGain[i], avgLoss[i]
		switch {
		case math.IsNaN(g) || math.IsNaN(l):
			out[i] = 50.0
		case l == 0:
			out[i] = 100.0
		default:
			rs := g / l
			out[i] = 100 - (100 / (1 + rs))
		}
	}
	return out
}

func stochastic(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i+1 < period {
			out[i] = 50.0
			continue
		}
		chunk := values[i-period+1 : i+1]
		lo, hi := chunk[0], chunk[0]
		for _, v := range chunk {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		if hi == lo {
			out[i] = 50.0
		} else {
			out[i] = (values[i] - lo) / (hi - lo) * 100
		}
	}
	return out
}

func obv(bars []models.Bar) []float64 {
	if len(bars) == 0 {
		return nil
	}
	out := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			out[i] = out[i-1] + bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			out[i] = out[i-1] - bars[i].Volume
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

func adLine(bars []models.Bar) []float64 {
	out := make([]float64, len(bars))
	var total float64
	for i, b := range bars {
		hl := b.High - b.Low
		mfm := 0.0
		if hl != 0 {
			mfm = ((b.Close - b.Low) - (b.High - b.Close)) / hl
		}
		total += mfm * b.Volume
		out[i] = total
	}
	return out
}

func mfi(bars []models.Bar, period int) []float64 {
	typical := make([]float64, len(bars))
	for i, b := range bars {
		typical[i] = (b.High + b.Low + b.Close) / 3
	}
	pos := make([]float64, len(bars))
	neg := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		flow := typical[i] * bars[i].Volume
		switch {
		case typical[i] > typical[i-1]:
			pos[i] = flow
		case typical[i] < typical[i-1]:
			neg[i] = flow
		}
	}
	posSum := sma(pos, period)
	negSum := sma(neg, period)
	out := make([]float64, len(bars))
	for i := range bars {
		p, n := posSum[i], negSum[i]
		switch {
		case math.IsNaN(p) || math.IsNaN(n):
			out[i] = 50.0
		case n == 0:
			out[i] = 100.0
		default:
			ratio := p / n
			out[i] = 100 - (100 / (1 + ratio))
		}
	}
	return out
}

func cmf(bars []models.Bar, period int) []float64 {
	mfv := make([]float64, len(bars))
	vol := make([]float64, len(bars))
	for i, b := range bars {
		hl := b.High - b.Low
		mfm := 0.0
		if hl != 0 {
			mfm = ((b.Close - b.Low) - (b.High - b.Close)) / hl
		}
		mfv[i] = mfm * b.Volume
		vol[i] = b.Volume
	}
	out := make([]float64, len(bars))
	for i := range bars {
		if i+1 < period {
			continue
		}
		var m, v float64
		for j := i - period + 1; j <= i; j++ {
			m += mfv[j]
			v += vol[j]
		}
		if v != 0 {
			out[i] = m / v
		}
	}
	return out
}

func macd(closes []float64) (line, signal, hist []float64) {
	ema12 := ema(closes, 12)
	ema26 := ema(closes, 26)
	line = make([]float64, len(closes))
	for i := range line {
		line[i] = ema12[i] - ema26[i]
	}
	signal = ema(line, 9)
	hist = make([]float64, len(closes))
	for i := range hist {
		hist[i] = line[i] - signal[i]
	}
	return line, signal, hist
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

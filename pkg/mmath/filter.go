package mmath

import "math"

// 2次バターワース・ローパスの係数
type biquad struct {
	a0, a1, a2, b1, b2 float64
}

func newLowpassBiquad(cutoffFreq, samplingRate float64) *biquad {
	c := 1 / math.Tan(math.Pi*cutoffFreq/samplingRate)
	a0 := 1 / (1 + math.Sqrt2*c + c*c)
	return &biquad{
		a0: a0,
		a1: 2 * a0,
		a2: a0,
		b1: 2 * (1 - c*c) * a0,
		b2: (1 - math.Sqrt2*c + c*c) * a0,
	}
}

func (f *biquad) apply(values []float64) []float64 {
	out := make([]float64, len(values))
	// 先頭の過渡応答を抑えるため初期値で定常状態にしておく
	x1, x2 := values[0], values[0]
	y1, y2 := values[0], values[0]
	for i, x := range values {
		y := f.a0*x + f.a1*x1 + f.a2*x2 - f.b1*y1 - f.b2*y2
		x2, x1 = x1, x
		y2, y1 = y1, y
		out[i] = y
	}
	return out
}

// LowpassFilter は等間隔サンプル列に2次バターワースを往復適用する(ゼロ位相)。
// カットオフが0以下またはナイキスト以上の場合はそのままコピーを返す。
func LowpassFilter(values []float64, cutoffFreq, samplingRate float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	if cutoffFreq <= 0 || samplingRate <= 0 || cutoffFreq >= samplingRate/2 || len(values) < 3 {
		return out
	}

	f := newLowpassBiquad(cutoffFreq, samplingRate)
	out = f.apply(out)
	reverse(out)
	out = f.apply(out)
	reverse(out)
	return out
}

func reverse(values []float64) {
	for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
		values[i], values[j] = values[j], values[i]
	}
}

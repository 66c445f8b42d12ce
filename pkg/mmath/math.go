// Package mmath はモーション変換で使うベクトル・四元数・フィルタ演算を提供する。
package mmath

import "golang.org/x/exp/constraints"

func Clamp[T constraints.Float](v, min, max T) T {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Clamp01 はモーフウェイト用の [0,1] クランプ
func Clamp01[T constraints.Float](v T) T {
	return Clamp(v, 0, 1)
}

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Package config はパイプラインの実行パラメータを定義する。
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Params は1回の変換の設定。フラグの既定値は環境変数で差し替えられる。
type Params struct {
	CutoffFreq     float64 // 平滑化カットオフ(Hz)。0で平滑化なし
	ThresholdPos   float64 // 間引き許容誤差(距離)。0で間引きなし
	ThresholdRot   float64 // 間引き許容誤差(ラジアン)
	ThresholdMorph float64 // 間引き許容誤差(ウェイト差)
	TargetFps      float64 // 出力フレームレート
}

func Load() *Params {
	return &Params{
		CutoffFreq:     getEnvFloat("FAT_CUTOFF_FREQ", 5.0),
		ThresholdPos:   getEnvFloat("FAT_THRESHOLD_POS", 0.05),
		ThresholdRot:   getEnvFloat("FAT_THRESHOLD_ROT", 0.05),
		ThresholdMorph: getEnvFloat("FAT_THRESHOLD_MORPH", 0.05),
		TargetFps:      getEnvFloat("FAT_TARGET_FPS", 30.0),
	}
}

func (p *Params) Validate() error {
	if p.CutoffFreq < 0 {
		return fmt.Errorf("cutoff frequency must be >= 0: %v", p.CutoffFreq)
	}
	if p.ThresholdPos < 0 || p.ThresholdRot < 0 || p.ThresholdMorph < 0 {
		return fmt.Errorf("thresholds must be >= 0")
	}
	if p.TargetFps <= 0 {
		return fmt.Errorf("target fps must be > 0: %v", p.TargetFps)
	}
	return nil
}

func getEnvFloat(k string, d float64) float64 {
	if val, ok := os.LookupEnv(k); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return d
}

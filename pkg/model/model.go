// Package model は検出コラボレータが書き出す計測ストリームの構造体を定義する。
package model

import "github.com/miu200521358/face-auto-trace/pkg/mmath"

// HeadPose はカメラ空間の頭部姿勢。位置はミリメートル、回転はラジアン(pitch/yaw/roll)。
type HeadPose struct {
	Position mmath.MVec3 `json:"position"`
	Rotation mmath.MVec3 `json:"rotation"`
}

// ActionUnit は検出器の出力するAU。Intensityは生値(0〜5)。
type ActionUnit struct {
	Intensity float64 `json:"intensity"`
	Present   bool    `json:"present"`
}

// MeasurementFrame は1ソースフレーム分の計測値。
// 目のモデルが取れなかったフレームでは GazeLeft/GazeRight は nil になる。
type MeasurementFrame struct {
	Index       int                `json:"index"`
	Head        HeadPose           `json:"head"`
	ActionUnits map[int]ActionUnit `json:"action_units"`
	GazeLeft    *mmath.MVec3       `json:"gaze_left,omitempty"`
	GazeRight   *mmath.MVec3       `json:"gaze_right,omitempty"`
}

// MeasurementStream は検出器のJSONダンプ全体。
// 顔が検出できなかったフレームは Frames に含まれない(タイムライン上の欠落)。
type MeasurementStream struct {
	Path   string              `json:"-"`
	Fps    float64             `json:"fps"`
	Frames []*MeasurementFrame `json:"frames"`
}

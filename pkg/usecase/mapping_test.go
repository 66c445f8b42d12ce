package usecase

import (
	"math"
	"testing"

	"github.com/miu200521358/face-auto-trace/pkg/mmath"
	"github.com/miu200521358/face-auto-trace/pkg/model"
)

// 正規化済み強度から検出器の生値へ戻す(生値は0〜5)
func rawAU(normalized float64) float64 {
	return normalized * actionUnitMaxVal
}

func frameWithAUs(index int, aus map[int]model.ActionUnit) *model.MeasurementFrame {
	return &model.MeasurementFrame{Index: index, ActionUnits: aus}
}

func TestMapChannels_JawDrop(t *testing.T) {
	stream := &model.MeasurementStream{Fps: 30, Frames: []*model.MeasurementFrame{
		frameWithAUs(0, map[int]model.ActionUnit{auJawDrop: {Intensity: rawAU(0.0), Present: true}}),
		frameWithAUs(1, map[int]model.ActionUnit{auJawDrop: {Intensity: rawAU(0.6), Present: true}}),
		frameWithAUs(2, map[int]model.ActionUnit{auJawDrop: {Intensity: rawAU(0.0), Present: true}}),
	}}

	doc := MapChannels(stream)

	ch := doc.MorphChannels[MorphMouthA]
	if ch == nil {
		t.Fatal("mouth-a channel missing")
	}
	// 0.6*2=1.2 は 1.0 にクランプされる
	want := []float64{0, 1, 0}
	for i, w := range want {
		if got := ch.Get(i).Weight; got != w {
			t.Errorf("mouth-a weight at %d = %v, want %v", i, got, w)
		}
	}
}

func TestMapChannels_BlinkOverride(t *testing.T) {
	stream := &model.MeasurementStream{Fps: 30, Frames: []*model.MeasurementFrame{
		frameWithAUs(5, map[int]model.ActionUnit{
			auLidTightener: {Intensity: rawAU(0.1), Present: true},
			auBlink:        {Intensity: rawAU(0.25), Present: true},
		}),
	}}

	doc := MapChannels(stream)

	if got := doc.MorphChannels[MorphBlink].Get(5).Weight; got != 1.0 {
		t.Fatalf("blink AU over 0.2 must force weight 1.0: got %v", got)
	}
}

func TestMapChannels_NoBlinkOverrideBelowThreshold(t *testing.T) {
	stream := &model.MeasurementStream{Fps: 30, Frames: []*model.MeasurementFrame{
		frameWithAUs(0, map[int]model.ActionUnit{
			auLidTightener: {Intensity: rawAU(0.3), Present: true},
			auBlink:        {Intensity: rawAU(0.1), Present: true},
		}),
	}}

	doc := MapChannels(stream)

	if got := doc.MorphChannels[MorphBlink].Get(0).Weight; math.Abs(got-0.3) > 1e-12 {
		t.Fatalf("blink weight = %v, want 0.3", got)
	}
}

func TestMapChannels_WeightsClamped(t *testing.T) {
	stream := &model.MeasurementStream{Fps: 30, Frames: []*model.MeasurementFrame{
		frameWithAUs(0, map[int]model.ActionUnit{
			auLipCornerPuller:    {Intensity: 50, Present: true}, // 異常に大きい生値
			auLipCornerDepressor: {Intensity: -3, Present: true}, // 負の生値
		}),
	}}

	doc := MapChannels(stream)

	for name, ch := range doc.MorphChannels {
		w := ch.Get(0).Weight
		if w < 0 || w > 1 {
			t.Errorf("morph %s weight out of range: %v", name, w)
		}
	}
	if got := doc.MorphChannels[MorphSmile].Get(0).Weight; got != 1 {
		t.Errorf("smile weight = %v, want 1 (clamped)", got)
	}
	if got := doc.MorphChannels[MorphFrown].Get(0).Weight; got != 0 {
		t.Errorf("frown weight = %v, want 0 (clamped)", got)
	}
}

func TestMapChannels_MouthISuppression(t *testing.T) {
	// 「あ」「う」が高い間は「い」を出さない
	doc := MapChannels(&model.MeasurementStream{Fps: 30, Frames: []*model.MeasurementFrame{
		frameWithAUs(0, map[int]model.ActionUnit{
			auJawDrop: {Intensity: rawAU(0.5), Present: true},
			auLipPart: {Intensity: rawAU(0.5), Present: true},
		}),
	}})
	if got := doc.MorphChannels[MorphMouthI].Get(0).Weight; got != 0 {
		t.Fatalf("mouth-i must be suppressed while mouth-a is active: got %v", got)
	}

	// 両方静かなら「い」が出る
	doc = MapChannels(&model.MeasurementStream{Fps: 30, Frames: []*model.MeasurementFrame{
		frameWithAUs(0, map[int]model.ActionUnit{
			auLipPart: {Intensity: rawAU(0.2), Present: true},
		}),
	}})
	if got := doc.MorphChannels[MorphMouthI].Get(0).Weight; math.Abs(got-0.4) > 1e-12 {
		t.Fatalf("mouth-i weight = %v, want 0.4", got)
	}
}

func TestMapChannels_AbsentAUIgnored(t *testing.T) {
	doc := MapChannels(&model.MeasurementStream{Fps: 30, Frames: []*model.MeasurementFrame{
		frameWithAUs(0, map[int]model.ActionUnit{
			auJawDrop: {Intensity: rawAU(0.8), Present: false}, // 強度はあるが不在
			99:        {Intensity: 5, Present: true},           // 範囲外ID
		}),
	}})

	if got := doc.MorphChannels[MorphMouthA].Get(0).Weight; got != 0 {
		t.Fatalf("absent AU must read as zero: got %v", got)
	}
}

func TestMapChannels_GazeMirrored(t *testing.T) {
	right := (&mmath.MVec3{X: 0.5, Z: -1}).Normalized()
	stream := &model.MeasurementStream{Fps: 30, Frames: []*model.MeasurementFrame{
		{
			Index:       0,
			ActionUnits: map[int]model.ActionUnit{},
			GazeLeft:    &mmath.MVec3{Z: -1},
			GazeRight:   right,
		},
	}}

	doc := MapChannels(stream)

	leftEye := doc.RotationChannels[BoneEyeLeft]
	rightEye := doc.RotationChannels[BoneEyeRight]
	if leftEye == nil || rightEye == nil {
		t.Fatal("gaze channels missing")
	}

	// 右目の視線は左目ボーンへ(鏡像割り当て)
	ident := mmath.NewMQuaternion()
	if angle := leftEye.Get(0).Rotation.AngleTo(ident); angle < 1e-6 {
		t.Error("left eye bone should carry the right gaze rotation")
	}
	if angle := rightEye.Get(0).Rotation.AngleTo(ident); angle > 1e-6 {
		t.Errorf("right eye bone should carry the (identity) left gaze rotation: angle %v", angle)
	}
}

func TestMapChannels_NoGazeNoEyeChannels(t *testing.T) {
	doc := MapChannels(&model.MeasurementStream{Fps: 30, Frames: []*model.MeasurementFrame{
		frameWithAUs(0, map[int]model.ActionUnit{}),
	}})

	if _, ok := doc.RotationChannels[BoneEyeLeft]; ok {
		t.Error("eye channel must not be produced without gaze vectors")
	}
	if _, ok := doc.RotationChannels[BoneHead]; !ok {
		t.Error("head channel must always be produced")
	}
	if _, ok := doc.PositionChannels[BoneCenter]; !ok {
		t.Error("center channel must always be produced")
	}
}

func TestNewActionUnitVector(t *testing.T) {
	au := NewActionUnitVector(map[int]model.ActionUnit{
		auJawDrop: {Intensity: 2.5, Present: true},
		auBlink:   {Intensity: 5, Present: false},
		-1:        {Intensity: 5, Present: true},
		100:       {Intensity: 5, Present: true},
	})

	if got := au[auJawDrop]; math.Abs(got-0.5) > 1e-12 {
		t.Errorf("au[JawDrop] = %v, want 0.5", got)
	}
	if au[auBlink] != 0 {
		t.Errorf("absent AU slot must stay 0: got %v", au[auBlink])
	}
}

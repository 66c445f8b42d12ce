package usecase

import (
	"math"
	"testing"

	"github.com/miu200521358/face-auto-trace/pkg/mmath"
	"github.com/miu200521358/face-auto-trace/pkg/motion"
)

func TestSmooth_PureResampleSameRate(t *testing.T) {
	doc := motion.NewMotionDocument("")
	weights := []float64{0, 0.2, 0.8, 0.4, 1}
	for i, w := range weights {
		doc.AppendMorphFrame("あ", &motion.MorphSample{Index: i, Weight: w})
	}

	Smooth(doc, 0, 30, 30)

	ch := doc.MorphChannels["あ"]
	if got := ch.Indexes.Len(); got != len(weights) {
		t.Fatalf("resampled sample count = %d, want %d", got, len(weights))
	}
	for i, w := range weights {
		if got := ch.Get(i).Weight; math.Abs(got-w) > 1e-6 {
			t.Errorf("weight at %d = %v, want %v", i, got, w)
		}
	}
}

func TestSmooth_FillsTimelineGap(t *testing.T) {
	// フレーム1が欠落(検出失敗)したタイムライン
	doc := motion.NewMotionDocument("")
	doc.AppendMorphFrame("あ", &motion.MorphSample{Index: 0, Weight: 0})
	doc.AppendMorphFrame("あ", &motion.MorphSample{Index: 2, Weight: 1})

	Smooth(doc, 0, 30, 30)

	ch := doc.MorphChannels["あ"]
	if got := ch.Indexes.Len(); got != 3 {
		t.Fatalf("sample count = %d, want 3", got)
	}
	if got := ch.Get(1).Weight; math.Abs(got-0.5) > 1e-6 {
		t.Errorf("gap frame weight = %v, want 0.5", got)
	}
}

func TestSmooth_Downsample(t *testing.T) {
	// 60fps→30fpsで半分のフレーム数になる
	doc := motion.NewMotionDocument("")
	for i := 0; i <= 60; i++ {
		doc.AppendPositionFrame("センター", &motion.PositionSample{
			Index: i, Position: &mmath.MVec3{X: float64(i)},
		})
	}

	Smooth(doc, 0, 60, 30)

	ch := doc.PositionChannels["センター"]
	if got := ch.Indexes.Len(); got != 31 {
		t.Fatalf("sample count = %d, want 31", got)
	}
	// 出力フレームnはソースの2nに対応する
	if got := ch.Get(10).Position.X; math.Abs(got-20) > 1e-6 {
		t.Errorf("position at output frame 10 = %v, want 20", got)
	}
}

func TestSmooth_SingleSampleStaysOnTimeline(t *testing.T) {
	doc := motion.NewMotionDocument("")
	doc.AppendMorphFrame("あ", &motion.MorphSample{Index: 7, Weight: 0.3})

	Smooth(doc, 5, 30, 30)

	ch := doc.MorphChannels["あ"]
	if ch.Indexes.Len() != 1 || ch.Get(7) == nil {
		t.Fatalf("single sample must keep its place on the timeline: indexes = %v", ch.Indexes.List())
	}
	if got := ch.Get(7).Weight; got != 0.3 {
		t.Errorf("weight = %v, want 0.3", got)
	}

	// レート変換時は最寄りの出力グリッドへ丸める(60fpsのフレーム7→30fpsのフレーム4)
	doc = motion.NewMotionDocument("")
	doc.AppendMorphFrame("あ", &motion.MorphSample{Index: 7, Weight: 0.3})

	Smooth(doc, 0, 60, 30)

	ch = doc.MorphChannels["あ"]
	if ch.Indexes.Len() != 1 || ch.Get(4) == nil {
		t.Fatalf("single sample at 60fps frame 7 must land on 30fps frame 4: indexes = %v", ch.Indexes.List())
	}
}

func TestSmooth_LateChannelKeepsTimelineAlignment(t *testing.T) {
	// 目や笑いのように途中から始まるチャンネルが、先頭から始まるチャンネルと
	// 同じフレームグリッドに残ること(チャンネルごとの0起点化をしない)
	doc := motion.NewMotionDocument("")
	for i := 0; i < 60; i++ {
		doc.AppendMorphFrame("あ", &motion.MorphSample{Index: i, Weight: 0.2})
	}
	// フレーム30から始まり、40で山になる
	for i := 30; i <= 50; i++ {
		w := 1 - math.Abs(float64(i-40))/10
		doc.AppendMorphFrame("にやり", &motion.MorphSample{Index: i, Weight: w})
	}

	Smooth(doc, 0, 30, 30)

	late := doc.MorphChannels["にやり"]
	if got := late.Indexes.Min(); got != 30 {
		t.Fatalf("late channel start moved from frame 30 to %d", got)
	}
	if got := late.Indexes.Max(); got != 50 {
		t.Fatalf("late channel end moved from frame 50 to %d", got)
	}
	if got := late.Get(40); got == nil || math.Abs(got.Weight-1) > 1e-6 {
		t.Fatalf("peak must stay on global frame 40: sample = %+v", got)
	}

	// 先頭から始まるチャンネルと同じグリッドを共有している
	full := doc.MorphChannels["あ"]
	for _, fno := range late.Indexes.List() {
		if !full.Indexes.Contains(fno) {
			t.Fatalf("frame %d of the late channel is off the shared grid", fno)
		}
	}
}

func TestSmooth_RotationStaysUnit(t *testing.T) {
	doc := motion.NewMotionDocument("")
	for i := 0; i <= 30; i++ {
		angle := 0.8*math.Sin(float64(i)*0.4) + 0.1*math.Sin(float64(i)*2.9)
		doc.AppendRotationFrame("頭", &motion.RotationSample{
			Index:    i,
			Rotation: mmath.NewMQuaternionFromAxisAngle(&mmath.MVec3{Y: 1}, angle),
		})
	}

	Smooth(doc, 4, 30, 30)

	ch := doc.RotationChannels["頭"]
	for _, fno := range ch.Indexes.List() {
		q := ch.Get(fno).Rotation
		norm := math.Sqrt(q.W*q.W + q.V[0]*q.V[0] + q.V[1]*q.V[1] + q.V[2]*q.V[2])
		if math.Abs(norm-1) > 1e-9 {
			t.Fatalf("rotation at %d not unit: norm = %v", fno, norm)
		}
	}
}

func TestSmooth_SmoothingReducesJitter(t *testing.T) {
	doc := motion.NewMotionDocument("")
	for i := 0; i < 90; i++ {
		w := 0.5
		if i%2 == 1 {
			w = 0.9
		}
		doc.AppendMorphFrame("あ", &motion.MorphSample{Index: i, Weight: w})
	}

	Smooth(doc, 3, 30, 30)

	ch := doc.MorphChannels["あ"]
	for i := 10; i < 80; i++ {
		if got := ch.Get(i).Weight; math.Abs(got-0.7) > 0.1 {
			t.Fatalf("jitter not smoothed at %d: %v", i, got)
		}
	}
}

package usecase

import (
	"math"
	"sync"

	"github.com/miu200521358/face-auto-trace/pkg/mi18n"
	"github.com/miu200521358/face-auto-trace/pkg/mlog"
	"github.com/miu200521358/face-auto-trace/pkg/motion"
	"github.com/miu200521358/face-auto-trace/pkg/utils"
)

// Reduce 各チャンネルを独立に間引く。残したキーフレ同士を補間した曲線が
// 元の全サンプルから閾値以上ずれないことを保証する。閾値0以下は間引きなし。
func Reduce(doc *motion.MotionDocument, thresholdPos, thresholdRot, thresholdMorph float64) *motion.MotionDocument {
	mlog.I(mi18n.T("間引き開始", map[string]interface{}{
		"Pos": thresholdPos, "Rot": thresholdRot, "Morph": thresholdMorph}))

	total := len(doc.RotationChannels) + len(doc.PositionChannels) + len(doc.MorphChannels)
	bar := utils.NewProgressBar(total)
	var wg sync.WaitGroup

	rotNames := make([]string, 0, len(doc.RotationChannels))
	rotResults := make([]*motion.RotationChannel, len(doc.RotationChannels))
	for name := range doc.RotationChannels {
		rotNames = append(rotNames, name)
	}
	for i, name := range rotNames {
		wg.Add(1)
		go func(i int, ch *motion.RotationChannel) {
			defer wg.Done()
			defer bar.Increment()
			rotResults[i] = reduceRotationChannel(ch, thresholdRot)
		}(i, doc.RotationChannels[name])
	}

	posNames := make([]string, 0, len(doc.PositionChannels))
	posResults := make([]*motion.PositionChannel, len(doc.PositionChannels))
	for name := range doc.PositionChannels {
		posNames = append(posNames, name)
	}
	for i, name := range posNames {
		wg.Add(1)
		go func(i int, ch *motion.PositionChannel) {
			defer wg.Done()
			defer bar.Increment()
			posResults[i] = reducePositionChannel(ch, thresholdPos)
		}(i, doc.PositionChannels[name])
	}

	morphNames := make([]string, 0, len(doc.MorphChannels))
	morphResults := make([]*motion.MorphChannel, len(doc.MorphChannels))
	for name := range doc.MorphChannels {
		morphNames = append(morphNames, name)
	}
	for i, name := range morphNames {
		wg.Add(1)
		go func(i int, ch *motion.MorphChannel) {
			defer wg.Done()
			defer bar.Increment()
			morphResults[i] = reduceMorphChannel(ch, thresholdMorph)
		}(i, doc.MorphChannels[name])
	}

	wg.Wait()
	bar.Finish()

	for i, name := range rotNames {
		doc.RotationChannels[name] = rotResults[i]
	}
	for i, name := range posNames {
		doc.PositionChannels[name] = posResults[i]
	}
	for i, name := range morphNames {
		doc.MorphChannels[name] = morphResults[i]
	}

	return doc
}

// keepIndexes は一方向の走査で残すべきサンプル位置を選ぶ。
// deviation(last, end, j) は区間両端の補間が位置jで示す誤差を返す。
// 先頭と末尾は必ず残る。
func keepIndexes(count int, threshold float64, deviation func(last, end, j int) float64) []int {
	kept := []int{0}
	if count <= 2 {
		if count == 2 {
			kept = append(kept, 1)
		}
		return kept
	}

	last := 0
	for end := 2; end < count; end++ {
		violated := false
		for j := last + 1; j < end; j++ {
			if deviation(last, end, j) > threshold {
				violated = true
				break
			}
		}
		if violated {
			// 直前のサンプルで区間を閉じて、そこから新しい区間を始める
			kept = append(kept, end-1)
			last = end - 1
		}
	}
	if kept[len(kept)-1] != count-1 {
		kept = append(kept, count-1)
	}
	return kept
}

func reducePositionChannel(ch *motion.PositionChannel, threshold float64) *motion.PositionChannel {
	idxs := ch.Indexes.List()
	if threshold <= 0 || len(idxs) <= 2 {
		return ch
	}

	ratio := func(last, end, j int) float64 {
		return float64(idxs[j]-idxs[last]) / float64(idxs[end]-idxs[last])
	}
	kept := keepIndexes(len(idxs), threshold, func(last, end, j int) float64 {
		pred := ch.Get(idxs[last]).Position.Lerp(ch.Get(idxs[end]).Position, ratio(last, end, j))
		return pred.Distance(ch.Get(idxs[j]).Position)
	})

	nc := motion.NewPositionChannel(ch.Name)
	for _, k := range kept {
		nc.Append(ch.Get(idxs[k]))
	}
	return nc
}

func reduceRotationChannel(ch *motion.RotationChannel, threshold float64) *motion.RotationChannel {
	idxs := ch.Indexes.List()
	if threshold <= 0 || len(idxs) <= 2 {
		return ch
	}

	ratio := func(last, end, j int) float64 {
		return float64(idxs[j]-idxs[last]) / float64(idxs[end]-idxs[last])
	}
	kept := keepIndexes(len(idxs), threshold, func(last, end, j int) float64 {
		lq := ch.Get(idxs[last]).Rotation
		eq := ch.Get(idxs[end]).Rotation
		if lq.Dot(eq) < 0 {
			eq = eq.Negated()
		}
		pred := lq.Slerp(eq, ratio(last, end, j))
		return pred.AngleTo(ch.Get(idxs[j]).Rotation)
	})

	nc := motion.NewRotationChannel(ch.Name)
	for _, k := range kept {
		nc.Append(ch.Get(idxs[k]))
	}
	return nc
}

func reduceMorphChannel(ch *motion.MorphChannel, threshold float64) *motion.MorphChannel {
	idxs := ch.Indexes.List()
	if threshold <= 0 || len(idxs) <= 2 {
		return ch
	}

	ratio := func(last, end, j int) float64 {
		return float64(idxs[j]-idxs[last]) / float64(idxs[end]-idxs[last])
	}
	kept := keepIndexes(len(idxs), threshold, func(last, end, j int) float64 {
		pred := ch.Get(idxs[last]).Weight +
			(ch.Get(idxs[end]).Weight-ch.Get(idxs[last]).Weight)*ratio(last, end, j)
		return math.Abs(pred - ch.Get(idxs[j]).Weight)
	})

	nc := motion.NewMorphChannel(ch.Name)
	for _, k := range kept {
		nc.Append(ch.Get(idxs[k]))
	}
	return nc
}

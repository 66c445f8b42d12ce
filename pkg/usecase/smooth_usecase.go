package usecase

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/miu200521358/face-auto-trace/pkg/mi18n"
	"github.com/miu200521358/face-auto-trace/pkg/mlog"
	"github.com/miu200521358/face-auto-trace/pkg/mmath"
	"github.com/miu200521358/face-auto-trace/pkg/motion"
	"github.com/miu200521358/face-auto-trace/pkg/utils"
)

// Smooth 各チャンネルをローパスフィルタで平滑化し、ターゲットフレームレートへ
// リサンプルする。出力は全チャンネル共通の t=n/ターゲットfps グリッドに乗り、
// 途中から始まるチャンネルも元のタイムライン上の位置を保つ。
// カットオフが0以下の場合は平滑化なしの純粋なリサンプルに落ちる。
func Smooth(doc *motion.MotionDocument, cutoffFreq, srcFps, tgtFps float64) *motion.MotionDocument {
	mlog.I(mi18n.T("平滑化開始", map[string]interface{}{
		"Cutoff": cutoffFreq, "SrcFps": srcFps, "TgtFps": tgtFps}))

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
			rotResults[i] = smoothRotationChannel(ch, cutoffFreq, srcFps, tgtFps)
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
			posResults[i] = smoothPositionChannel(ch, cutoffFreq, srcFps, tgtFps)
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
			morphResults[i] = smoothMorphChannel(ch, cutoffFreq, srcFps, tgtFps)
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

// resampleGrid は全チャンネル共通の t=n/tgtFps グリッドのうちソース区間
// [minFno, maxFno] に乗る出力フレーム番号と、区間先頭からの経過時刻を返す。
// チャンネルごとに原点を作り直さないので、遅れて始まるチャンネル(目が
// 取れなかった冒頭区間など)も他のチャンネルと同じタイムラインに揃う。
func resampleGrid(minFno, maxFno int, srcFps, tgtFps float64) ([]int, []float64) {
	minT := float64(minFno) / srcFps
	maxT := float64(maxFno) / srcFps
	n0 := int(math.Ceil(minT*tgtFps - 1e-9))
	n1 := int(math.Floor(maxT*tgtFps + 1e-9))
	if n1 < n0 {
		// 区間が狭すぎてグリッド点を含まない場合は最寄りの1点に寄せる
		n0 = outFrame(minFno, srcFps, tgtFps)
		n1 = n0
	}
	fnos := make([]int, n1-n0+1)
	for i := range fnos {
		fnos[i] = n0 + i
	}
	times := make([]float64, n1-n0+1)
	if len(times) > 1 {
		floats.Span(times, float64(n0)/tgtFps-minT, float64(n1)/tgtFps-minT)
	} else {
		times[0] = float64(n0)/tgtFps - minT
	}
	return fnos, times
}

// outFrame はソースフレーム番号を出力グリッド上の最寄りフレームへ丸める
func outFrame(fno int, srcFps, tgtFps float64) int {
	return int(math.Round(float64(fno) / srcFps * tgtFps))
}

// denseCoord はターゲット時刻をフィルタ済み配列上の小数添字に変換する。
// 丸め誤差で区間の外へ出た時刻は端へクランプする。
func denseCoord(t, srcFps float64, denseLen int) (int, int, float64) {
	f := t * srcFps
	if f < 0 {
		f = 0
	}
	if f > float64(denseLen-1) {
		f = float64(denseLen - 1)
	}
	i0 := int(f)
	i1 := i0 + 1
	if i1 > denseLen-1 {
		i1 = denseLen - 1
	}
	return i0, i1, f - float64(i0)
}

func smoothPositionChannel(ch *motion.PositionChannel, cutoffFreq, srcFps, tgtFps float64) *motion.PositionChannel {
	nc := motion.NewPositionChannel(ch.Name)
	if ch.Indexes.Len() == 0 {
		return nc
	}

	minFno, maxFno := ch.Indexes.Min(), ch.Indexes.Max()
	if minFno == maxFno {
		nc.Append(&motion.PositionSample{
			Index: outFrame(minFno, srcFps, tgtFps), Position: ch.Get(minFno).Position.Copy()})
		return nc
	}

	// 欠落フレームを補間して等間隔のソース系列を作る
	denseN := maxFno - minFno + 1
	xs := make([]float64, denseN)
	ys := make([]float64, denseN)
	zs := make([]float64, denseN)
	for i := 0; i < denseN; i++ {
		p := ch.PositionAt(float64(minFno + i))
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}

	xs = mmath.LowpassFilter(xs, cutoffFreq, srcFps)
	ys = mmath.LowpassFilter(ys, cutoffFreq, srcFps)
	zs = mmath.LowpassFilter(zs, cutoffFreq, srcFps)

	fnos, times := resampleGrid(minFno, maxFno, srcFps, tgtFps)
	for i, t := range times {
		i0, i1, frac := denseCoord(t, srcFps, denseN)
		nc.Append(&motion.PositionSample{Index: fnos[i], Position: &mmath.MVec3{
			X: mmath.Lerp(xs[i0], xs[i1], frac),
			Y: mmath.Lerp(ys[i0], ys[i1], frac),
			Z: mmath.Lerp(zs[i0], zs[i1], frac),
		}})
	}
	return nc
}

func smoothRotationChannel(ch *motion.RotationChannel, cutoffFreq, srcFps, tgtFps float64) *motion.RotationChannel {
	nc := motion.NewRotationChannel(ch.Name)
	if ch.Indexes.Len() == 0 {
		return nc
	}

	minFno, maxFno := ch.Indexes.Min(), ch.Indexes.Max()
	if minFno == maxFno {
		nc.Append(&motion.RotationSample{
			Index: outFrame(minFno, srcFps, tgtFps), Rotation: ch.Get(minFno).Rotation.Copy()})
		return nc
	}

	denseN := maxFno - minFno + 1
	quats := make([]*mmath.MQuaternion, denseN)
	for i := 0; i < denseN; i++ {
		quats[i] = ch.RotationAt(float64(minFno + i))
		// 二重被覆の不連続を避けて符号を揃える
		if i > 0 && quats[i].Dot(quats[i-1]) < 0 {
			quats[i] = quats[i].Negated()
		}
	}

	// ベクトル部を成分ごとにフィルタし、wは符号を保って復元する
	xs := make([]float64, denseN)
	ys := make([]float64, denseN)
	zs := make([]float64, denseN)
	wsign := make([]float64, denseN)
	for i, q := range quats {
		xs[i], ys[i], zs[i] = q.V[0], q.V[1], q.V[2]
		if q.W < 0 {
			wsign[i] = -1
		} else {
			wsign[i] = 1
		}
	}

	xs = mmath.LowpassFilter(xs, cutoffFreq, srcFps)
	ys = mmath.LowpassFilter(ys, cutoffFreq, srcFps)
	zs = mmath.LowpassFilter(zs, cutoffFreq, srcFps)

	for i := range quats {
		v2 := xs[i]*xs[i] + ys[i]*ys[i] + zs[i]*zs[i]
		w := wsign[i] * math.Sqrt(math.Max(0, 1-v2))
		quats[i] = mmath.NewMQuaternionByValues(xs[i], ys[i], zs[i], w).Normalized()
	}

	fnos, times := resampleGrid(minFno, maxFno, srcFps, tgtFps)
	for i, t := range times {
		i0, i1, frac := denseCoord(t, srcFps, denseN)
		q0, q1 := quats[i0], quats[i1]
		if q0.Dot(q1) < 0 {
			q1 = q1.Negated()
		}
		nc.Append(&motion.RotationSample{Index: fnos[i], Rotation: q0.Slerp(q1, frac).Normalized()})
	}
	return nc
}

func smoothMorphChannel(ch *motion.MorphChannel, cutoffFreq, srcFps, tgtFps float64) *motion.MorphChannel {
	nc := motion.NewMorphChannel(ch.Name)
	if ch.Indexes.Len() == 0 {
		return nc
	}

	minFno, maxFno := ch.Indexes.Min(), ch.Indexes.Max()
	if minFno == maxFno {
		nc.Append(&motion.MorphSample{
			Index: outFrame(minFno, srcFps, tgtFps), Weight: ch.Get(minFno).Weight})
		return nc
	}

	denseN := maxFno - minFno + 1
	ws := make([]float64, denseN)
	for i := 0; i < denseN; i++ {
		ws[i] = ch.WeightAt(float64(minFno + i))
	}

	ws = mmath.LowpassFilter(ws, cutoffFreq, srcFps)

	fnos, times := resampleGrid(minFno, maxFno, srcFps, tgtFps)
	for i, t := range times {
		i0, i1, frac := denseCoord(t, srcFps, denseN)
		nc.Append(&motion.MorphSample{
			Index:  fnos[i],
			Weight: mmath.Clamp01(mmath.Lerp(ws[i0], ws[i1], frac)),
		})
	}
	return nc
}

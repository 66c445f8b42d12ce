package usecase

import (
	"github.com/miu200521358/face-auto-trace/pkg/mi18n"
	"github.com/miu200521358/face-auto-trace/pkg/mlog"
	"github.com/miu200521358/face-auto-trace/pkg/mmath"
	"github.com/miu200521358/face-auto-trace/pkg/model"
	"github.com/miu200521358/face-auto-trace/pkg/motion"
	"github.com/miu200521358/face-auto-trace/pkg/utils"
)

// Action Unit ID
const (
	auInnerBrowRaiser    = 1  // AU01 眉の内側を上げる
	auOuterBrowRaiser    = 2  // AU02 眉の外側を上げる
	auBrowLowerer        = 4  // AU04 眉を下げる
	auUpperLidRaiser     = 5  // AU05 目を見開く
	auCheekRaiser        = 6  // AU06 頬を上げる
	auLidTightener       = 7  // AU07 細目
	auNoseWrinkler       = 9  // AU09 鼻に皴を寄せる。怒り
	auLipCornerPuller    = 12 // AU12 口の端を上げる。にやり
	auLipCornerDepressor = 15 // AU15 への字口
	auLipTightener       = 23 // AU23 口をすぼめる
	auLipPart            = 25 // AU25 口を開ける。「い」の口でもtrueになる
	auJawDrop            = 26 // AU26 顎を下げる。「あ」の口の判定にはこちらを使う
	auBlink              = 45 // AU45 まばたき
)

const (
	auSize            = 46
	actionUnitMaxVal  = 5.0
	mouthSuppressEps  = 0.1 // 「い」を出すための「あ」「う」の上限
	blinkOverrideOver = 0.2 // AU45がこれを超えたらまばたき確定
	gazeAmpEach       = 0.25
)

// ターゲットボーン・モーフ名
const (
	BoneHead     = "頭"
	BoneCenter   = "センター"
	BoneEyeLeft  = "左目"
	BoneEyeRight = "右目"

	MorphMouthA      = "あ"
	MorphMouthI      = "い"
	MorphMouthU      = "う"
	MorphSmile       = "にやり"
	MorphFrown       = "∧"
	MorphBlink       = "まばたき"
	MorphCheekRaiser = "CheekRaiser"
	MorphSurprise    = "びっくり"
	MorphBrowWorry   = "困る"
	MorphBrowSerious = "真面目"
	MorphAnger       = "怒り"
	MorphBrowDown    = "下"
	MorphLidUp       = "上"
)

// センター換算: キャリブレーション距離1000mm、1m=12.5ミクセルの半分スケール
const (
	centerDepthOffset = 1000.0
	centerScale       = 12.5 / 1000.0 / 2.0
)

var (
	unitX = &mmath.MVec3{X: 1}
	unitY = &mmath.MVec3{Y: 1}
	unitZ = &mmath.MVec3{Z: 1}
)

// ActionUnitVector はAU番号添字の正規化済み強度(0〜1)。present=falseの枠は0。
type ActionUnitVector [auSize]float64

func NewActionUnitVector(units map[int]model.ActionUnit) ActionUnitVector {
	var au ActionUnitVector
	for id, unit := range units {
		if id < 1 || id >= auSize || !unit.Present {
			continue
		}
		au[id] = unit.Intensity / actionUnitMaxVal
	}
	return au
}

// MapChannels 計測ストリームを1フレームずつアニメーションチャンネルへ変換する
func MapChannels(stream *model.MeasurementStream) *motion.MotionDocument {
	mlog.I(mi18n.T("表情マッピング開始"))

	doc := motion.NewMotionDocument("")
	bar := utils.NewProgressBar(len(stream.Frames))

	for _, frame := range stream.Frames {
		bar.Increment()
		AppendMeasurement(doc, frame)
	}

	bar.Finish()
	return doc
}

// AppendMeasurement は1フレーム分の計測値を各チャンネルへ1サンプルずつ追加する。
// フレームをまたぐ状態は持たない。
func AppendMeasurement(doc *motion.MotionDocument, frame *model.MeasurementFrame) {
	headRot := appendHeadPose(doc, frame)
	appendCenterPosition(doc, frame)

	au := NewActionUnitVector(frame.ActionUnits)
	appendExpressionMorphs(doc, au, frame.Index)

	if frame.GazeLeft != nil && frame.GazeRight != nil {
		appendGazePose(doc, frame, headRot)
	}
}

// 頭の向き。カメラ座標系からモデル座標系へpitchとrollの符号を反転して移す。
func appendHeadPose(doc *motion.MotionDocument, frame *model.MeasurementFrame) *mmath.MQuaternion {
	r := frame.Head.Rotation
	rot := mmath.NewMQuaternionFromAxisAngle(unitX, -r.X).
		Mul(mmath.NewMQuaternionFromAxisAngle(unitY, r.Y)).
		Mul(mmath.NewMQuaternionFromAxisAngle(unitZ, -r.Z))

	doc.AppendRotationFrame(BoneHead, &motion.RotationSample{Index: frame.Index, Rotation: rot})
	return rot
}

// センター位置。Y軸反転・奥行きオフセット・ミクセル換算。
func appendCenterPosition(doc *motion.MotionDocument, frame *model.MeasurementFrame) {
	p := frame.Head.Position
	pos := (&mmath.MVec3{X: p.X, Y: -p.Y, Z: p.Z - centerDepthOffset}).MuledScalar(centerScale)

	doc.AppendPositionFrame(BoneCenter, &motion.PositionSample{Index: frame.Index, Position: pos})
}

// 目の向き。頭の正面からの最小回転を作り、回転量を減衰させる。
// 左右の目は鏡像で割り当てる(既存モデル互換のため入れ替えたまま)。
func appendGazePose(doc *motion.MotionDocument, frame *model.MeasurementFrame, headRot *mmath.MQuaternion) {
	front := headRot.MulVec3(&mmath.MVec3{Z: -1})

	leftDir := &mmath.MVec3{X: frame.GazeLeft.X, Y: -frame.GazeLeft.Y, Z: frame.GazeLeft.Z}
	rotLeft := mmath.NewMQuaternion().Slerp(mmath.NewMQuaternionRotate(front, leftDir), gazeAmpEach)

	rightDir := &mmath.MVec3{X: frame.GazeRight.X, Y: -frame.GazeRight.Y, Z: frame.GazeRight.Z}
	rotRight := mmath.NewMQuaternion().Slerp(mmath.NewMQuaternionRotate(front, rightDir), gazeAmpEach)

	doc.AppendRotationFrame(BoneEyeLeft, &motion.RotationSample{Index: frame.Index, Rotation: rotRight})
	doc.AppendRotationFrame(BoneEyeRight, &motion.RotationSample{Index: frame.Index, Rotation: rotLeft})
}

func appendExpressionMorphs(doc *motion.MotionDocument, au ActionUnitVector, fno int) {
	// 口
	mouthA := au[auJawDrop] * 2
	mouthU := au[auLipTightener] * 2
	mouthI := 0.0
	if mouthA < mouthSuppressEps && mouthU < mouthSuppressEps {
		mouthI = au[auLipPart] * 2
	}

	appendMorph(doc, MorphMouthA, fno, mouthA)
	appendMorph(doc, MorphMouthI, fno, mouthI)
	appendMorph(doc, MorphMouthU, fno, mouthU)
	appendMorph(doc, MorphSmile, fno, au[auLipCornerPuller])
	appendMorph(doc, MorphFrown, fno, au[auLipCornerDepressor])

	// 目
	blink := au[auLidTightener]
	if au[auBlink] > blinkOverrideOver {
		blink = 1.0
	}
	appendMorph(doc, MorphBlink, fno, blink)
	// まばたき/笑いの切り替えは後処理(Refine)で行う
	appendMorph(doc, MorphCheekRaiser, fno, au[auCheekRaiser])

	appendMorph(doc, MorphSurprise, fno, au[auUpperLidRaiser])

	// 眉
	appendMorph(doc, MorphBrowWorry, fno, au[auInnerBrowRaiser])
	// 困る/真面目の切り替えも後処理で行う
	appendMorph(doc, MorphBrowSerious, fno, au[auOuterBrowRaiser])
	appendMorph(doc, MorphAnger, fno, au[auNoseWrinkler])
	appendMorph(doc, MorphBrowDown, fno, au[auBrowLowerer])
	appendMorph(doc, MorphLidUp, fno, au[auUpperLidRaiser])
}

func appendMorph(doc *motion.MotionDocument, name string, fno int, weight float64) {
	doc.AppendMorphFrame(name, &motion.MorphSample{Index: fno, Weight: mmath.Clamp01(weight)})
}

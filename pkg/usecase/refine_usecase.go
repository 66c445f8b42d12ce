package usecase

import (
	"fmt"
	"sort"

	"gopkg.in/Knetic/govaluate.v3"

	"github.com/miu200521358/face-auto-trace/pkg/mi18n"
	"github.com/miu200521358/face-auto-trace/pkg/mlog"
	"github.com/miu200521358/face-auto-trace/pkg/motion"
)

// 「同時に高い」とみなす重み
const refineHighWeight = 0.5

// refineRule は2つのモーフ間の排他ルール。conditionは重みa,bを引数に取る式で、
// 成立したフレームのみresolveの結果で上書きする。
type refineRule struct {
	name      string
	primary   string
	secondary string
	condition string
	resolve   func(a, b float64) (float64, float64)
}

var bothHigh = fmt.Sprintf("a > %v && b > %v", refineHighWeight, refineHighWeight)

var refineRules = []*refineRule{
	{
		// まばたきと笑いは同じ筋肉を使うので両立しない。弱い方を落とす。
		name:      "blink_smile",
		primary:   MorphBlink,
		secondary: MorphCheekRaiser,
		condition: bothHigh,
		resolve: func(a, b float64) (float64, float64) {
			if a < b {
				return 0, b
			}
			return a, 0
		},
	},
	{
		// 眉の困る/真面目は大きい方だけ残す
		name:      "brow_state",
		primary:   MorphBrowWorry,
		secondary: MorphBrowSerious,
		condition: bothHigh,
		resolve: func(a, b float64) (float64, float64) {
			if a < b {
				return 0, b
			}
			return a, 0
		},
	},
}

// Refine 間引き後のモーフチャンネル同士の意味的な衝突を解消する。
// フレームもチャンネルも増減させず、既存サンプルの重みだけを書き換える。
func Refine(doc *motion.MotionDocument) *motion.MotionDocument {
	mlog.I(mi18n.T("表情調整開始"))

	for _, rule := range refineRules {
		expr, err := govaluate.NewEvaluableExpression(rule.condition)
		if err != nil {
			mlog.E("invalid refine rule %s: %v", rule.name, err)
			continue
		}

		chA, okA := doc.MorphChannels[rule.primary]
		chB, okB := doc.MorphChannels[rule.secondary]
		if !okA || !okB {
			continue
		}

		// 間引きで両チャンネルのキーフレ位置はずれているので、
		// 和集合の各位置で相手側は補間値を見る
		for _, fno := range unionIndexes(chA.Indexes, chB.Indexes) {
			a := chA.WeightAt(float64(fno))
			b := chB.WeightAt(float64(fno))

			result, err := expr.Evaluate(map[string]interface{}{"a": a, "b": b})
			if err != nil {
				mlog.E("failed to evaluate refine rule %s: %v", rule.name, err)
				break
			}
			if hit, ok := result.(bool); !ok || !hit {
				continue
			}

			na, nb := rule.resolve(a, b)
			if s := chA.Get(fno); s != nil {
				s.Weight = na
			}
			if s := chB.Get(fno); s != nil {
				s.Weight = nb
			}
		}
	}

	return doc
}

func unionIndexes(a, b *motion.FrameIndexes) []int {
	seen := make(map[int]struct{})
	var union []int
	for _, i := range a.List() {
		seen[i] = struct{}{}
		union = append(union, i)
	}
	for _, i := range b.List() {
		if _, ok := seen[i]; !ok {
			union = append(union, i)
		}
	}
	sort.Ints(union)
	return union
}

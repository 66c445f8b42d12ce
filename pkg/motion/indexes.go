package motion

import "github.com/petar/GoLLRB/llrb"

type frameIndex int

func (fi frameIndex) Less(than llrb.Item) bool {
	return fi < than.(frameIndex)
}

// FrameIndexes はチャンネルに登録済みのフレーム番号集合。
// 補間時の前後キーフレ探索(床・天井検索)のためLLRBで持つ。
type FrameIndexes struct {
	tree *llrb.LLRB
}

func NewFrameIndexes() *FrameIndexes {
	return &FrameIndexes{tree: llrb.New()}
}

func (fi *FrameIndexes) Insert(index int) {
	fi.tree.ReplaceOrInsert(frameIndex(index))
}

func (fi *FrameIndexes) Contains(index int) bool {
	return fi.tree.Has(frameIndex(index))
}

func (fi *FrameIndexes) Len() int {
	return fi.tree.Len()
}

func (fi *FrameIndexes) Min() int {
	if fi.tree.Len() == 0 {
		return 0
	}
	return int(fi.tree.Min().(frameIndex))
}

func (fi *FrameIndexes) Max() int {
	if fi.tree.Len() == 0 {
		return 0
	}
	return int(fi.tree.Max().(frameIndex))
}

// Prev はindex以下で最大の登録フレームを返す。無ければMin。
func (fi *FrameIndexes) Prev(index int) int {
	prev := fi.Min()
	fi.tree.DescendLessOrEqual(frameIndex(index), func(i llrb.Item) bool {
		prev = int(i.(frameIndex))
		return false
	})
	return prev
}

// Next はindex以上で最小の登録フレームを返す。無ければMax。
func (fi *FrameIndexes) Next(index int) int {
	next := fi.Max()
	fi.tree.AscendGreaterOrEqual(frameIndex(index), func(i llrb.Item) bool {
		next = int(i.(frameIndex))
		return false
	})
	return next
}

// List は昇順のフレーム番号リストを返す
func (fi *FrameIndexes) List() []int {
	if fi.tree.Len() == 0 {
		return nil
	}
	list := make([]int, 0, fi.tree.Len())
	fi.tree.AscendGreaterOrEqual(fi.tree.Min(), func(i llrb.Item) bool {
		list = append(list, int(i.(frameIndex)))
		return true
	})
	return list
}

package motion

import "github.com/miu200521358/face-auto-trace/pkg/mmath"

type RotationSample struct {
	Index    int
	Rotation *mmath.MQuaternion
}

type PositionSample struct {
	Index    int
	Position *mmath.MVec3
}

type MorphSample struct {
	Index  int
	Weight float64
}

// RotationChannel はボーン1本分の回転トラック
type RotationChannel struct {
	Name    string
	Data    map[int]*RotationSample
	Indexes *FrameIndexes
}

func NewRotationChannel(name string) *RotationChannel {
	return &RotationChannel{
		Name:    name,
		Data:    make(map[int]*RotationSample),
		Indexes: NewFrameIndexes(),
	}
}

func (c *RotationChannel) Append(s *RotationSample) {
	c.Data[s.Index] = s
	c.Indexes.Insert(s.Index)
}

func (c *RotationChannel) Get(index int) *RotationSample {
	return c.Data[index]
}

// RotationAt はフレーム座標t(小数可)の補間値を返す。範囲外は端でクランプ。
func (c *RotationChannel) RotationAt(t float64) *mmath.MQuaternion {
	if c.Indexes.Len() == 0 {
		return mmath.NewMQuaternion()
	}
	prev := c.Indexes.Prev(int(t))
	next := c.Indexes.Next(int(t) + 1)
	if t <= float64(prev) {
		return c.Data[prev].Rotation.Copy()
	}
	if t >= float64(next) {
		return c.Data[next].Rotation.Copy()
	}
	ratio := (t - float64(prev)) / (float64(next) - float64(prev))
	pq := c.Data[prev].Rotation
	nq := c.Data[next].Rotation
	// 最短経路で補間する
	if pq.Dot(nq) < 0 {
		nq = nq.Negated()
	}
	return pq.Slerp(nq, ratio).Normalized()
}

// PositionChannel はボーン1本分の移動トラック
type PositionChannel struct {
	Name    string
	Data    map[int]*PositionSample
	Indexes *FrameIndexes
}

func NewPositionChannel(name string) *PositionChannel {
	return &PositionChannel{
		Name:    name,
		Data:    make(map[int]*PositionSample),
		Indexes: NewFrameIndexes(),
	}
}

func (c *PositionChannel) Append(s *PositionSample) {
	c.Data[s.Index] = s
	c.Indexes.Insert(s.Index)
}

func (c *PositionChannel) Get(index int) *PositionSample {
	return c.Data[index]
}

func (c *PositionChannel) PositionAt(t float64) *mmath.MVec3 {
	if c.Indexes.Len() == 0 {
		return &mmath.MVec3{}
	}
	prev := c.Indexes.Prev(int(t))
	next := c.Indexes.Next(int(t) + 1)
	if t <= float64(prev) {
		return c.Data[prev].Position.Copy()
	}
	if t >= float64(next) {
		return c.Data[next].Position.Copy()
	}
	ratio := (t - float64(prev)) / (float64(next) - float64(prev))
	return c.Data[prev].Position.Lerp(c.Data[next].Position, ratio)
}

// MorphChannel はモーフ1つ分のウェイトトラック
type MorphChannel struct {
	Name    string
	Data    map[int]*MorphSample
	Indexes *FrameIndexes
}

func NewMorphChannel(name string) *MorphChannel {
	return &MorphChannel{
		Name:    name,
		Data:    make(map[int]*MorphSample),
		Indexes: NewFrameIndexes(),
	}
}

func (c *MorphChannel) Append(s *MorphSample) {
	c.Data[s.Index] = s
	c.Indexes.Insert(s.Index)
}

func (c *MorphChannel) Get(index int) *MorphSample {
	return c.Data[index]
}

func (c *MorphChannel) WeightAt(t float64) float64 {
	if c.Indexes.Len() == 0 {
		return 0
	}
	prev := c.Indexes.Prev(int(t))
	next := c.Indexes.Next(int(t) + 1)
	if t <= float64(prev) {
		return c.Data[prev].Weight
	}
	if t >= float64(next) {
		return c.Data[next].Weight
	}
	ratio := (t - float64(prev)) / (float64(next) - float64(prev))
	return mmath.Lerp(c.Data[prev].Weight, c.Data[next].Weight, ratio)
}

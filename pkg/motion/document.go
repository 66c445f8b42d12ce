// Package motion はアニメーションチャンネルの集約(MotionDocument)を定義する。
package motion

import (
	"github.com/jinzhu/copier"
)

// ヘッダ既定値。ドキュメント生成時に設定され、個別に上書きできる。
const (
	DefaultVersion   = "Vocaloid Motion Data 0002"
	DefaultModelName = "dummy model"
)

// MotionDocument は1回の変換で生成される全チャンネルとヘッダを持つ集約ルート。
// チャンネルのマップキーは生成時の名前。リネーム後は各チャンネルのNameが正となり、
// 同名衝突は出力時の後勝ちに委ねる。
type MotionDocument struct {
	Path             string
	Version          string
	ModelName        string
	RotationChannels map[string]*RotationChannel
	PositionChannels map[string]*PositionChannel
	MorphChannels    map[string]*MorphChannel
}

func NewMotionDocument(path string) *MotionDocument {
	return &MotionDocument{
		Path:             path,
		Version:          DefaultVersion,
		ModelName:        DefaultModelName,
		RotationChannels: make(map[string]*RotationChannel),
		PositionChannels: make(map[string]*PositionChannel),
		MorphChannels:    make(map[string]*MorphChannel),
	}
}

// RotationChannel は名前のチャンネルを返す。無ければ作る。
func (d *MotionDocument) RotationChannel(name string) *RotationChannel {
	if c, ok := d.RotationChannels[name]; ok {
		return c
	}
	c := NewRotationChannel(name)
	d.RotationChannels[name] = c
	return c
}

func (d *MotionDocument) PositionChannel(name string) *PositionChannel {
	if c, ok := d.PositionChannels[name]; ok {
		return c
	}
	c := NewPositionChannel(name)
	d.PositionChannels[name] = c
	return c
}

func (d *MotionDocument) MorphChannel(name string) *MorphChannel {
	if c, ok := d.MorphChannels[name]; ok {
		return c
	}
	c := NewMorphChannel(name)
	d.MorphChannels[name] = c
	return c
}

func (d *MotionDocument) AppendRotationFrame(name string, s *RotationSample) {
	d.RotationChannel(name).Append(s)
}

func (d *MotionDocument) AppendPositionFrame(name string, s *PositionSample) {
	d.PositionChannel(name).Append(s)
}

func (d *MotionDocument) AppendMorphFrame(name string, s *MorphSample) {
	d.MorphChannel(name).Append(s)
}

// Copy はドキュメントの深いコピーを返す。デバッグ用の中間VMD出力などで
// 後段の破壊的な処理から切り離すために使う。
func (d *MotionDocument) Copy() (*MotionDocument, error) {
	dst := NewMotionDocument(d.Path)
	dst.Version = d.Version
	dst.ModelName = d.ModelName

	for key, ch := range d.RotationChannels {
		nc := NewRotationChannel(ch.Name)
		for _, i := range ch.Indexes.List() {
			s := &RotationSample{}
			if err := copier.CopyWithOption(s, ch.Data[i], copier.Option{DeepCopy: true}); err != nil {
				return nil, err
			}
			nc.Append(s)
		}
		dst.RotationChannels[key] = nc
	}
	for key, ch := range d.PositionChannels {
		nc := NewPositionChannel(ch.Name)
		for _, i := range ch.Indexes.List() {
			s := &PositionSample{}
			if err := copier.CopyWithOption(s, ch.Data[i], copier.Option{DeepCopy: true}); err != nil {
				return nil, err
			}
			nc.Append(s)
		}
		dst.PositionChannels[key] = nc
	}
	for key, ch := range d.MorphChannels {
		nc := NewMorphChannel(ch.Name)
		for _, i := range ch.Indexes.List() {
			s := &MorphSample{}
			if err := copier.CopyWithOption(s, ch.Data[i], copier.Option{DeepCopy: true}); err != nil {
				return nil, err
			}
			nc.Append(s)
		}
		dst.MorphChannels[key] = nc
	}
	return dst, nil
}

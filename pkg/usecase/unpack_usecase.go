package usecase

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/miu200521358/face-auto-trace/pkg/mi18n"
	"github.com/miu200521358/face-auto-trace/pkg/mlog"
	"github.com/miu200521358/face-auto-trace/pkg/model"
)

// Unpack 検出器のJSONダンプを読み込んで、計測ストリームに展開する
func Unpack(path string) (*model.MeasurementStream, error) {
	mlog.I(mi18n.T("入力読込開始", map[string]interface{}{"Path": path}))

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open measurement stream: %w", err)
	}
	defer file.Close()

	stream := new(model.MeasurementStream)
	stream.Path = path
	if err := json.NewDecoder(file).Decode(stream); err != nil {
		return nil, fmt.Errorf("failed to decode measurement stream: %w", err)
	}

	if stream.Fps <= 0 {
		stream.Fps = 30
	}

	// 欠落フレームは許容するが、順序だけは保証しておく
	sort.Slice(stream.Frames, func(i, j int) bool {
		return stream.Frames[i].Index < stream.Frames[j].Index
	})

	mlog.I(mi18n.T("入力読込完了", map[string]interface{}{
		"Frames": len(stream.Frames), "Fps": stream.Fps}))

	return stream, nil
}

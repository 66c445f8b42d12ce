package main

import (
	"flag"
	"os"
	"strings"

	"github.com/miu200521358/face-auto-trace/pkg/config"
	"github.com/miu200521358/face-auto-trace/pkg/mi18n"
	"github.com/miu200521358/face-auto-trace/pkg/mlog"
	"github.com/miu200521358/face-auto-trace/pkg/motion"
	"github.com/miu200521358/face-auto-trace/pkg/usecase"
	"github.com/miu200521358/face-auto-trace/pkg/vmd"
)

var logLevel string
var inputPath string
var outputPath string
var nameConfPath string
var params = config.Load()

func init() {
	flag.StringVar(&logLevel, "logLevel", "INFO", "set log level")
	flag.StringVar(&inputPath, "inputPath", "", "set measurement stream path (json)")
	flag.StringVar(&outputPath, "outputPath", "", "set output vmd path")
	flag.StringVar(&nameConfPath, "nameConf", "", "set rename table path")
	flag.Float64Var(&params.CutoffFreq, "cutoffFreq", params.CutoffFreq, "set lowpass cutoff frequency (Hz, 0 = no smoothing)")
	flag.Float64Var(&params.ThresholdPos, "thresholdPos", params.ThresholdPos, "set position reduction threshold (0 = keep all)")
	flag.Float64Var(&params.ThresholdRot, "thresholdRot", params.ThresholdRot, "set rotation reduction threshold (0 = keep all)")
	flag.Float64Var(&params.ThresholdMorph, "thresholdMorph", params.ThresholdMorph, "set morph reduction threshold (0 = keep all)")
	flag.Float64Var(&params.TargetFps, "targetFps", params.TargetFps, "set output frame rate")
	flag.Parse()

	switch logLevel {
	case "INFO":
		mlog.SetLevel(mlog.INFO)
	default:
		mlog.SetLevel(mlog.DEBUG)
	}
}

func main() {
	if inputPath == "" || outputPath == "" {
		mlog.E("inputPath and outputPath must be provided")
		os.Exit(1)
	}
	if err := params.Validate(); err != nil {
		mlog.E("invalid parameters: %v", err)
		os.Exit(1)
	}

	stream, err := usecase.Unpack(inputPath)
	if err != nil {
		mlog.E("Failed to unpack: %v", err)
		os.Exit(1)
	}

	table, err := usecase.LoadRenameTable(nameConfPath)
	if err != nil {
		mlog.E("Failed to load rename table: %v", err)
		os.Exit(1)
	}

	doc := usecase.MapChannels(stream)
	doc.Path = outputPath

	if mlog.IsDebug() {
		writeDebugVmd(doc, "_map")
	}

	usecase.Smooth(doc, params.CutoffFreq, stream.Fps, params.TargetFps)

	if mlog.IsDebug() {
		writeDebugVmd(doc, "_smooth")
	}

	usecase.Reduce(doc, params.ThresholdPos, params.ThresholdRot, params.ThresholdMorph)
	usecase.Refine(doc)
	usecase.Rename(doc, table)

	mlog.I(mi18n.T("VMD出力開始", map[string]interface{}{"Path": outputPath}))
	if err := vmd.Write(doc); err != nil {
		mlog.E("Failed to write vmd: %v", err)
		os.Exit(2)
	}

	mlog.I(mi18n.T("処理完了"))
}

// writeDebugVmd は中間状態のドキュメントを別ファイルに書き出す
func writeDebugVmd(doc *motion.MotionDocument, suffix string) {
	dump, err := doc.Copy()
	if err != nil {
		mlog.E("Failed to copy document for %s dump: %v", suffix, err)
		return
	}
	dump.Path = strings.Replace(doc.Path, ".vmd", suffix+".vmd", 1)
	if err := vmd.Write(dump); err != nil {
		mlog.E("Failed to write %s vmd: %v", suffix, err)
	}
}

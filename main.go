package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/ByLCY/teletype/dsl"
	"github.com/ByLCY/teletype/engine"
	"github.com/ByLCY/teletype/layout"
	"github.com/ByLCY/teletype/preview"
	canvasrenderer "github.com/ByLCY/teletype/renderer/canvas"
	"github.com/ByLCY/teletype/sink"
)

func main() {
	input := flag.String("in", "examples/demo.scene", "场景文件路径")
	output := flag.String("out", "", "输出基名（默认取场景名）")
	format := flag.String("format", "webm", "输出格式：webm/mp4/gif/png")
	play := flag.Bool("preview", false, "在终端实时预览而不导出")
	dryRun := flag.Bool("dry-run", false, "只打印行数/帧数/时长估计")
	debug := flag.String("debug", "", "配置与折行调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到对白文本的 JSON 数据")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	if err := run(*input, *output, *format, *debug, inputData, *play, *dryRun); err != nil {
		log.Fatalf("生成失败: %v", err)
	}
}

// run 串联解析、折行与渲染/导出。
func run(inputPath, outputBase, format, debugPath string, data any, play, dryRun bool) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开场景文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	scene, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析场景失败: %w", err)
	}

	cfg, err := layout.Build(scene, data)
	if err != nil {
		return fmt.Errorf("构建配置失败: %w", err)
	}

	r := canvasrenderer.NewRenderer(filepath.Dir(inputPath))
	if cfg.PortraitSrc != "" {
		w, err := r.MeasurePortrait(cfg)
		if err != nil {
			return fmt.Errorf("载入立绘失败: %w", err)
		}
		cfg.PortraitWidth = w
	}

	m, err := r.Measurer(cfg)
	if err != nil {
		return fmt.Errorf("准备文本测量失败: %w", err)
	}
	lines := layout.ClampVisible(layout.Wrap(cfg.Text, cfg.MaxTextWidth(), m), cfg)

	if debugPath != "" {
		if err := layout.WriteDebugJSON(cfg, lines, debugPath); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	total := engine.TotalTicks(lines, cfg.Timing)
	fmt.Printf("场景 %s：%d 行，%d 帧，约 %.1f 秒 @ %dfps\n",
		cfg.Name, len(lines), total, float64(total)/float64(cfg.Timing.FPS), cfg.Timing.FPS)
	if dryRun {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var co engine.Coordinator
	if play {
		return preview.NewPlayer(&co).Run(ctx, cfg, m)
	}

	kind, err := sink.ParseKind(format)
	if err != nil {
		return err
	}
	if outputBase == "" {
		outputBase = cfg.Name
		if outputBase == "" {
			outputBase = "dialogue"
		}
	}
	s, err := sink.New(kind, outputBase, cfg)
	if err != nil {
		return err
	}

	artifact, err := co.Export(ctx, cfg, r, m, s)
	if err != nil {
		return err
	}
	fmt.Printf("已生成：%s\n", artifact)
	return nil
}

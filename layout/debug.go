package layout

import (
	"encoding/json"
	"os"
)

// debugDump 是调试 JSON 的顶层结构。
type debugDump struct {
	Config *Config `json:"config"`
	Lines  []Line  `json:"lines"`
}

// WriteDebugJSON 将解析后的配置与折行结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(cfg *Config, lines []Line, path string) error {
	if cfg == nil {
		return nil
	}
	data, err := json.MarshalIndent(debugDump{Config: cfg, Lines: lines}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

package fonts

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/font/gofont/goregular"
)

// BuiltinName 是内置字体的标识，场景文件里写 "builtin:go-regular" 或留空。
const BuiltinName = "go-regular"

// Builtin 返回内置字体（Go Regular）的字节数据。
// 字体加载失败或未指定字体时渲染器以它兜底，保证测量能力始终可用。
func Builtin() []byte { return goregular.TTF }

// Load 返回字体字节数据。src 可以是文件路径、"builtin:go-regular" 或空串（取内置字体）。
func Load(src string) ([]byte, error) {
	if src == "" {
		return Builtin(), nil
	}
	if name, ok := strings.CutPrefix(src, "builtin:"); ok {
		if name != BuiltinName {
			return nil, fmt.Errorf("找不到内置字体 builtin:%s", name)
		}
		return Builtin(), nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

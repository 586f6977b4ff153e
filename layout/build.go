package layout

import (
	"fmt"
	"strings"

	"github.com/ByLCY/teletype/binding"
	"github.com/ByLCY/teletype/dsl"
)

// Build 将解析后的场景 AST 解析为一份配置快照。
// 未声明的属性取 Default 的值；data 非空时对白文本先做 ${} 插值。
func Build(scene *dsl.Scene, data any) (*Config, error) {
	if scene == nil {
		return nil, fmt.Errorf("场景不能为空")
	}
	cfg := Default()
	cfg.Name = scene.Name

	var paragraphs []string
	for _, st := range scene.Statements {
		switch {
		case st.Assignment != nil:
			if err := applySceneProp(&cfg, st.Assignment); err != nil {
				return nil, err
			}
		case st.Block != nil:
			switch st.Block.Name {
			case "background":
				if err := applyBackground(&cfg.Background, st.Block); err != nil {
					return nil, err
				}
			case "timing":
				if err := applyTiming(&cfg.Timing, st.Block); err != nil {
					return nil, err
				}
			case "text":
				ps, err := collectText(st.Block)
				if err != nil {
					return nil, err
				}
				paragraphs = append(paragraphs, ps...)
			default:
				return nil, fmt.Errorf("%s: 未知块 %q", st.Block.Pos, st.Block.Name)
			}
		case st.Text != nil:
			// 顶层裸字符串也视为一个段落
			paragraphs = append(paragraphs, string(st.Text.Value))
		}
	}

	cfg.Text = strings.Join(paragraphs, "\n")
	if data != nil {
		cfg.Text = binding.Interpolate(cfg.Text, data)
	}
	cfg.Normalize()
	return &cfg, nil
}

func applySceneProp(cfg *Config, a *dsl.Assignment) error {
	switch a.Key {
	case "box":
		if a.Value.Array == nil || len(a.Value.Array.Values) != 2 {
			return fmt.Errorf("%s: box 需要 [宽, 高] 两个数字", a.Pos)
		}
		w, okW := a.Value.Array.Values[0].AsNumber()
		h, okH := a.Value.Array.Values[1].AsNumber()
		if !okW || !okH {
			return fmt.Errorf("%s: box 的宽高必须是数字", a.Pos)
		}
		cfg.Width, cfg.Height = int(w), int(h)
	case "padding":
		return assignInt(&cfg.Padding, a)
	case "font":
		return assignString(&cfg.FontSrc, a)
	case "font-size":
		n, ok := a.Value.AsNumber()
		if !ok {
			return fmt.Errorf("%s: font-size 必须是数字", a.Pos)
		}
		cfg.FontSize = n
	case "text-color":
		return assignColor(&cfg.TextColor, a)
	case "portrait":
		return assignString(&cfg.PortraitSrc, a)
	case "portrait-padding":
		return assignInt(&cfg.PortraitPadding, a)
	default:
		return fmt.Errorf("%s: 未知属性 %q", a.Pos, a.Key)
	}
	return nil
}

func applyBackground(bg *Background, block *dsl.NamedBlock) error {
	for _, st := range block.Statements {
		a := st.Assignment
		if a == nil {
			return fmt.Errorf("%s: background 块只接受属性赋值", block.Pos)
		}
		switch a.Key {
		case "kind":
			s, ok := a.Value.AsString()
			if !ok {
				return fmt.Errorf("%s: kind 取值无效", a.Pos)
			}
			switch s {
			case "solid":
				bg.Kind = BackgroundSolid
			case "gradient":
				bg.Kind = BackgroundGradient
			case "image":
				bg.Kind = BackgroundImage
			default:
				return fmt.Errorf("%s: 未知背景类型 %q（可选 solid/gradient/image）", a.Pos, s)
			}
		case "axis":
			s, ok := a.Value.AsString()
			if !ok {
				return fmt.Errorf("%s: axis 取值无效", a.Pos)
			}
			switch s {
			case "vertical":
				bg.Axis = AxisVertical
			case "horizontal":
				bg.Axis = AxisHorizontal
			default:
				return fmt.Errorf("%s: 未知渐变方向 %q（可选 vertical/horizontal）", a.Pos, s)
			}
		case "color":
			if err := assignColor(&bg.Solid, a); err != nil {
				return err
			}
		case "from":
			if err := assignColor(&bg.From, a); err != nil {
				return err
			}
		case "to":
			if err := assignColor(&bg.To, a); err != nil {
				return err
			}
		case "image":
			if err := assignString(&bg.ImageSrc, a); err != nil {
				return err
			}
			bg.Kind = BackgroundImage
		default:
			return fmt.Errorf("%s: background 未知属性 %q", a.Pos, a.Key)
		}
	}
	return nil
}

func applyTiming(t *Timing, block *dsl.NamedBlock) error {
	for _, st := range block.Statements {
		a := st.Assignment
		if a == nil {
			return fmt.Errorf("%s: timing 块只接受属性赋值", block.Pos)
		}
		n, ok := a.Value.AsNumber()
		if !ok {
			return fmt.Errorf("%s: timing 属性 %q 必须是数字", a.Pos, a.Key)
		}
		switch a.Key {
		case "fps":
			t.FPS = int(n)
		case "char-speed":
			t.CharSpeed = int(n)
		case "pause-comma":
			t.PauseComma = int(n)
		case "pause-punctuation":
			t.PausePunct = int(n)
		case "dwell":
			t.DwellSeconds = n
		default:
			return fmt.Errorf("%s: timing 未知属性 %q", a.Pos, a.Key)
		}
	}
	return nil
}

func collectText(block *dsl.NamedBlock) ([]string, error) {
	var paragraphs []string
	for _, st := range block.Statements {
		if st.Text == nil {
			return nil, fmt.Errorf("%s: text 块只接受字符串字面量", block.Pos)
		}
		paragraphs = append(paragraphs, string(st.Text.Value))
	}
	return paragraphs, nil
}

func assignInt(dst *int, a *dsl.Assignment) error {
	n, ok := a.Value.AsNumber()
	if !ok {
		return fmt.Errorf("%s: %s 必须是数字", a.Pos, a.Key)
	}
	*dst = int(n)
	return nil
}

func assignString(dst *string, a *dsl.Assignment) error {
	s, ok := a.Value.AsString()
	if !ok {
		return fmt.Errorf("%s: %s 必须是字符串", a.Pos, a.Key)
	}
	*dst = s
	return nil
}

func assignColor(dst *Color, a *dsl.Assignment) error {
	lit, ok := a.Value.AsColor()
	if !ok {
		return fmt.Errorf("%s: %s 必须是 #RRGGBB 形式的颜色", a.Pos, a.Key)
	}
	c, err := ParseColor(lit)
	if err != nil {
		return fmt.Errorf("%s: %w", a.Pos, err)
	}
	*dst = c
	return nil
}

// ParseColor 解析 #RGB、#RRGGBB 与 #RRGGBBAA 颜色字面量。
func ParseColor(lit string) (Color, error) {
	hex := strings.TrimPrefix(lit, "#")
	var r, g, b, a int
	a = 255
	switch len(hex) {
	case 3:
		if _, err := fmt.Sscanf(hex, "%1x%1x%1x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("颜色 %q 无法解析: %w", lit, err)
		}
		r, g, b = r*17, g*17, b*17
	case 6:
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("颜色 %q 无法解析: %w", lit, err)
		}
	case 8:
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return Color{}, fmt.Errorf("颜色 %q 无法解析: %w", lit, err)
		}
	default:
		return Color{}, fmt.Errorf("颜色 %q 长度无效", lit)
	}
	return Color{R: r, G: g, B: b, A: a}, nil
}

package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tangzhangming/i18nlint/internal/scanner"
)

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+?)\}`)

// Plan 一处文案的替换计划
type Plan struct {
	// Start/End 要替换的字节区间（字符串包含两侧引号）
	Start int
	End   int

	// NewText 替换后的源码
	NewText string

	// Value 写入语言资源的文案
	Value string
}

// PlanReplacement 计算一处文案的替换方式
//
//   - 标签文本节点：{ref}
//   - 属性值（引号前是 '='）：{ref}
//   - 含 ${} 的模板字符串：templateFunc(ref, { val1: expr1, ... })，文案中的
//     占位符改写为 {val1}、{val2} ...
//   - 其它字符串：ref
func PlanReplacement(src string, t scanner.Target, ref, templateFunc string) (Plan, error) {
	if t.Start < 0 || t.End < t.Start || t.End > len(src) {
		return Plan{}, fmt.Errorf("%w: %q at [%d, %d)", ErrStaleTarget, t.Text, t.Start, t.End)
	}

	if !t.IsString {
		if src[t.Start:t.End] != t.Text {
			return Plan{}, fmt.Errorf("%w: %q at [%d, %d)", ErrStaleTarget, t.Text, t.Start, t.End)
		}
		return Plan{
			Start:   t.Start,
			End:     t.End,
			NewText: "{" + ref + "}",
			Value:   unescape(t.Text),
		}, nil
	}

	if t.Start < 1 || t.End >= len(src) || !strings.Contains(src[t.Start:t.End], t.Text) {
		return Plan{}, fmt.Errorf("%w: %q at [%d, %d)", ErrStaleTarget, t.Text, t.Start, t.End)
	}
	quote := src[t.Start-1]
	if src[t.End] != quote {
		return Plan{}, fmt.Errorf("%w: %q is not closed by %q", ErrStaleTarget, t.Text, quote)
	}
	attribute := t.Start >= 2 && src[t.Start-2] == '='

	plan := Plan{
		Start:   t.Start - 1,
		End:     t.End + 1,
		NewText: ref,
		Value:   unescape(t.Text),
	}

	if quote == '`' && placeholderPattern.MatchString(t.Text) {
		value, params := hoistPlaceholders(t.Text)
		plan.Value = unescape(value)
		plan.NewText = fmt.Sprintf("%s(%s, { %s })", templateFunc, ref, strings.Join(params, ", "))
	}

	if attribute {
		plan.NewText = "{" + plan.NewText + "}"
	}
	return plan, nil
}

// hoistPlaceholders 将 ${expr} 依次替换为 {valN}，并返回 "valN: expr" 参数列表
func hoistPlaceholders(text string) (string, []string) {
	var (
		b      strings.Builder
		params []string
		last   int
	)
	for i, m := range placeholderPattern.FindAllStringSubmatchIndex(text, -1) {
		name := fmt.Sprintf("val%d", i+1)
		expr := strings.TrimSpace(text[m[2]:m[3]])

		b.WriteString(text[last:m[0]])
		b.WriteString("{" + name + "}")
		last = m[1]

		params = append(params, name+": "+expr)
	}
	b.WriteString(text[last:])
	return b.String(), params
}

// unescape 源码中的 \n 转义写入资源时还原为换行
func unescape(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

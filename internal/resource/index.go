package resource

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	importPattern  = regexp.MustCompile(`(?m)^[ \t]*import .*;[ \t]*$`)
	closingPattern = regexp.MustCompile(`(?m)^(\}\);|\};)`)
	// 相对路径导入，第一组为模块名
	sourcePattern = regexp.MustCompile(`(?m)^[ \t]*import\s+\S+\s+from\s+['"]\./([^'"]+)['"]`)
)

// newIndexContent 新建聚合模块的内容
func newIndexContent(module string) string {
	return fmt.Sprintf("%s\n\nexport default Object.assign({}, {\n  %s,\n});\n", importStatement(module), module)
}

func importStatement(module string) string {
	return fmt.Sprintf("import %s from './%s';", module, module)
}

// isRegistered 检查聚合模块是否已导入该模块
func isRegistered(content, module string) bool {
	for _, m := range sourcePattern.FindAllStringSubmatch(content, -1) {
		if m[1] == module {
			return true
		}
	}
	return false
}

// registerModule 在聚合模块中登记新模块
//
// import 语句插在最后一条 import 之后（没有则放在开头）；
// 模块标识符插在最后一个 "});" 或 "};" 之前。找不到结尾标记时 ok 为 false，
// 此时只添加 import。
func registerModule(content, module string) (out string, ok bool) {
	if isRegistered(content, module) {
		return content, true
	}

	stmt := importStatement(module)
	if locs := importPattern.FindAllStringIndex(content, -1); len(locs) > 0 {
		end := locs[len(locs)-1][1]
		content = content[:end] + "\n" + stmt + content[end:]
	} else {
		content = stmt + "\n" + content
	}

	locs := closingPattern.FindAllStringIndex(content, -1)
	if len(locs) == 0 {
		return content, false
	}
	start := locs[len(locs)-1][0]

	before := strings.TrimRight(content[:start], " \t\r\n")
	sep := ",\n"
	if strings.HasSuffix(before, ",") || strings.HasSuffix(before, "{") {
		sep = "\n"
	}
	return before + sep + "  " + module + ",\n" + content[start:], true
}

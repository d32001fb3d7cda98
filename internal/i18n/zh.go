package i18n

var messagesZH = map[string]string{
	// ========== 诊断 ==========
	MsgDetected:  "检测到中文文案： **%s**",
	MsgHoverKeys: "已有对应的 I18N 变量：",

	// ========== 代码操作 ==========
	MsgExtractAs:     "抽取为 `%s`",
	MsgExtractCustom: "抽取为自定义 I18N 变量（共%d处）",
	MsgEditLabel:     "抽取 I18N 文案",

	// ========== 变量名输入 ==========
	MsgPromptKey:    "请输入对应的 I18N 变量，按 <回车> 启动替换",
	MsgKeyPrefix:    "请确保变量名以 `%s` 开头",
	MsgKeyEmpty:     "请输入变量名",
	MsgKeyFormat:    "请使用 `%s模块名.变量名` 的格式",
	MsgKeySegment:   "`%s` 不是合法的变量名",
	MsgKeyExists:    "已存在 key 为 `%s` 的翻译，请重新命名变量",
	MsgKeyReserved:  "`%s` 是聚合模块，不能在其中新增文案",
	MsgKeyUnderText: "`%s` 已经是一条文案，不能在其下新增 key",

	// ========== 结果 ==========
	MsgReplaced:          "成功替换 %d 处文案",
	MsgDuplicateKey:      "%s 中已存在 key 为 `%s` 的翻译，请重新命名变量",
	MsgExtractFailed:     "抽取失败：%v",
	MsgModuleCreated:     "成功新建语言文件 %s",
	MsgModuleParseFailed: "%s 解析失败，该文件包含的文案无法自动补全",

	// ========== 公共文案替换 ==========
	MsgNoCommon:      "没有找到可替换的公共文案",
	MsgConfirmCommon: "共找到 %d 处可自动替换的文案，是否替换？",
	MsgCommonDone:    "替换完成",

	MsgYes: "是",
	MsgNo:  "否",
}

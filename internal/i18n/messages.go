package i18n

// 消息 ID
const (
	// ========== 诊断 ==========
	MsgDetected  = "detected"
	MsgHoverKeys = "hover.keys"

	// ========== 代码操作 ==========
	MsgExtractAs     = "action.extractAs"
	MsgExtractCustom = "action.extractCustom"
	MsgEditLabel     = "action.editLabel"

	// ========== 变量名输入 ==========
	MsgPromptKey    = "prompt.key"
	MsgKeyPrefix    = "key.prefix"
	MsgKeyEmpty     = "key.empty"
	MsgKeyFormat    = "key.format"
	MsgKeySegment   = "key.segment"
	MsgKeyExists    = "key.exists"
	MsgKeyReserved  = "key.reserved"
	MsgKeyUnderText = "key.underText"

	// ========== 结果 ==========
	MsgReplaced          = "result.replaced"
	MsgDuplicateKey      = "result.duplicateKey"
	MsgExtractFailed     = "result.extractFailed"
	MsgModuleCreated     = "result.moduleCreated"
	MsgModuleParseFailed = "result.moduleParseFailed"

	// ========== 公共文案替换 ==========
	MsgNoCommon      = "common.none"
	MsgConfirmCommon = "common.confirm"
	MsgCommonDone    = "common.done"

	MsgYes = "yes"
	MsgNo  = "no"
)

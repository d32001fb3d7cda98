package i18n

var messagesEN = map[string]string{
	// ========== Diagnostics ==========
	MsgDetected:  "Chinese text detected: **%s**",
	MsgHoverKeys: "Existing I18N variables:",

	// ========== Code actions ==========
	MsgExtractAs:     "Extract as `%s`",
	MsgExtractCustom: "Extract as custom I18N variable (%d occurrences)",
	MsgEditLabel:     "Extract I18N text",

	// ========== Key prompt ==========
	MsgPromptKey:    "Enter the I18N variable, press <Enter> to replace",
	MsgKeyPrefix:    "The variable must start with `%s`",
	MsgKeyEmpty:     "Please enter a variable name",
	MsgKeyFormat:    "Use the `%smodule.name` format",
	MsgKeySegment:   "`%s` is not a valid identifier",
	MsgKeyExists:    "A translation with key `%s` already exists, choose another name",
	MsgKeyReserved:  "`%s` is the index module and cannot hold translations",
	MsgKeyUnderText: "`%s` is already a translation, keys cannot be nested under it",

	// ========== Results ==========
	MsgReplaced:          "Replaced %d occurrence(s)",
	MsgDuplicateKey:      "%s already contains key `%s`, choose another name",
	MsgExtractFailed:     "Extraction failed: %v",
	MsgModuleCreated:     "Created resource file %s",
	MsgModuleParseFailed: "Failed to parse %s, its entries are unavailable for suggestions",

	// ========== Common replacement ==========
	MsgNoCommon:      "No replaceable common text found",
	MsgConfirmCommon: "Found %d occurrence(s) that can be replaced automatically. Replace?",
	MsgCommonDone:    "Replacement finished",

	MsgYes: "Yes",
	MsgNo:  "No",
}

package lsp

import (
	"go.lsp.dev/protocol"

	"github.com/tangzhangming/i18nlint/internal/i18n"
	"github.com/tangzhangming/i18nlint/internal/scanner"
)

// diagnosticSource 诊断来源
const diagnosticSource = "i18n-linter"

// scannable 文档是否需要标记中文文案
func (s *Server) scannable(doc *Document) bool {
	cfg := s.config.Get()
	return cfg.Scan.MarkStringLiterals && cfg.HandlesLanguage(doc.LanguageID)
}

// getDiagnostics 获取文档的诊断信息
func (s *Server) getDiagnostics(doc *Document) (int, []protocol.Diagnostic) {
	content, version, targets := doc.Targets()
	diagnostics := make([]protocol.Diagnostic, 0, len(targets))
	if !s.scannable(doc) {
		return version, diagnostics
	}

	for _, t := range targets {
		diagnostics = append(diagnostics, targetDiagnostic(content, t))
	}
	return version, diagnostics
}

// targetDiagnostic 一处中文文案对应的诊断
func targetDiagnostic(content string, t scanner.Target) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range:    RangeOf(content, t.Start, t.End),
		Severity: protocol.DiagnosticSeverityWarning,
		Source:   diagnosticSource,
		Message:  i18n.T(i18n.MsgDetected, t.Text),
	}
}

// publishDiagnostics 发布诊断信息
func (s *Server) publishDiagnostics(doc *Document) {
	version, diagnostics := s.getDiagnostics(doc)

	s.sendNotification("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(doc.URI),
		Version:     uint32(version),
		Diagnostics: diagnostics,
	})
}

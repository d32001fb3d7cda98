package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tangzhangming/i18nlint/internal/matcher"
	"github.com/tangzhangming/i18nlint/internal/workspace"
)

// 输出格式
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	scanFormat string
	scanStrict bool
)

// errFindings --strict 模式下发现中文文案
var errFindings = errors.New("chinese text found")

var (
	pathColor = color.New(color.FgCyan).SprintFunc()
	textColor = color.New(color.Bold, color.FgYellow).SprintFunc()
	keyColor  = color.New(color.FgGreen).SprintFunc()
	dimColor  = color.New(color.Faint).SprintFunc()
)

var scanCmd = &cobra.Command{
	Use:   "scan [paths...]",
	Short: "Report Chinese text in source files",
	Long: `Scan source files for Chinese string literals and markup text.

Directories are walked recursively; node_modules, .git, dist, build and the
language resource directory are skipped. Existing I18N keys with the same text
are listed as suggestions.

Examples:
  i18nlint scan
  i18nlint scan src/pages --format json
  i18nlint scan --strict`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", formatText, "output format: text, json, yaml")
	scanCmd.Flags().BoolVar(&scanStrict, "strict", false, "exit with an error when Chinese text is found")
}

// finding 一处中文文案
type finding struct {
	File   string   `json:"file" yaml:"file"`
	Line   int      `json:"line" yaml:"line"`
	Column int      `json:"column" yaml:"column"`
	Text   string   `json:"text" yaml:"text"`
	Kind   string   `json:"kind" yaml:"kind"`
	Keys   []string `json:"keys,omitempty" yaml:"keys,omitempty"`
}

// scanReport 扫描结果
type scanReport struct {
	Files    int       `json:"files" yaml:"files"`
	Findings []finding `json:"findings" yaml:"findings"`
}

func runScan(cmd *cobra.Command, args []string) error {
	switch scanFormat {
	case formatText, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown format %q", scanFormat)
	}

	ws, log, err := openWorkspace(context.Background())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	paths := args
	if len(paths) == 0 {
		paths = []string{ws.Root}
	}
	files, err := workspace.ScanFiles(paths, ws.Config, ws.Store.Dir())
	if err != nil {
		return err
	}

	report := buildReport(ws, files)
	if err := writeReport(cmd.OutOrStdout(), report, scanFormat); err != nil {
		return err
	}
	if scanStrict && len(report.Findings) > 0 {
		return errFindings
	}
	return nil
}

// buildReport 汇总扫描结果，并为每处文案查找已有的 key
func buildReport(ws *workspace.Workspace, files []workspace.FileTargets) scanReport {
	table := ws.Store.Table()
	mode := ws.Config.Keys.MatchMode

	report := scanReport{Files: len(files), Findings: []finding{}}
	for _, f := range files {
		display := f.Path
		if rel, err := filepath.Rel(ws.Root, f.Path); err == nil && !filepath.IsAbs(rel) && rel[0] != '.' {
			display = rel
		}
		for _, t := range f.Targets {
			line, col := workspace.LineCol(f.Source, t.Start)
			kind := "markup"
			if t.IsString {
				kind = "string"
			}

			var keys []string
			for _, key := range matcher.Find(table, t.Text, mode) {
				keys = append(keys, ws.Engine.Ref(key))
			}
			report.Findings = append(report.Findings, finding{
				File:   display,
				Line:   line,
				Column: col,
				Text:   t.Text,
				Kind:   kind,
				Keys:   keys,
			})
		}
	}
	return report
}

// writeReport 按格式输出
func writeReport(w io.Writer, report scanReport, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(report)

	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	}

	for _, f := range report.Findings {
		fmt.Fprintf(w, "%s:%d:%d  %s  %s", pathColor(f.File), f.Line, f.Column, textColor(f.Text), dimColor(f.Kind))
		for _, key := range f.Keys {
			fmt.Fprintf(w, "  → %s", keyColor(key))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d occurrence(s) in %d file(s)\n", len(report.Findings), report.Files)
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tangzhangming/i18nlint/internal/extract"
	"github.com/tangzhangming/i18nlint/internal/i18n"
	"github.com/tangzhangming/i18nlint/internal/scanner"
	"github.com/tangzhangming/i18nlint/internal/workspace"
)

var (
	extractText  string
	extractKey   string
	extractFirst bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract Chinese text in a file into an I18N key",
	Long: `Replace every occurrence of --text in the file with an I18N reference and
write the text into the language resources.

When --key is omitted the key is read from the terminal and must not exist yet.

Examples:
  i18nlint extract src/App.tsx --text 首页 --key I18N.home.title
  i18nlint extract src/App.tsx --text 确定`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractText, "text", "t", "", "Chinese text to extract")
	extractCmd.Flags().StringVarP(&extractKey, "key", "k", "", "I18N key, e.g. I18N.home.title")
	extractCmd.Flags().BoolVar(&extractFirst, "first", false, "only replace the first occurrence")
	_ = extractCmd.MarkFlagRequired("text")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	ws, log, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	file, err := workspace.OpenFile(args[0])
	if err != nil {
		return err
	}

	targets := scanner.SameText(scanner.Scan(file.Text()), extractText)
	if len(targets) == 0 {
		return fmt.Errorf("%q not found in %s", extractText, args[0])
	}
	if extractFirst {
		targets = targets[:1]
	}

	if extractKey == "" && !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("--key is required when stdin is not a terminal")
	}

	prompter := newTerminalPrompter(os.Stdin, cmd.ErrOrStderr(), false)
	n, err := ws.Engine.Extract(ctx, file, prompter, extract.Request{
		Targets: targets,
		Key:     extractKey,
	})

	// 已完成的替换总是写回
	if saveErr := file.Save(); saveErr != nil {
		return saveErr
	}
	if n > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), i18n.T(i18n.MsgReplaced, n))
	}
	if errors.Is(err, extract.ErrCancelled) {
		return nil
	}
	return err
}

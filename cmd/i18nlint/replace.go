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
	"github.com/tangzhangming/i18nlint/internal/workspace"
)

var replaceYes bool

var replaceCmd = &cobra.Command{
	Use:   "replace-common <file>...",
	Short: "Replace text that already has a key in the common namespace",
	Long: `Replace Chinese strings whose text equals a value under the common
namespace (keys.common_namespace) with the existing I18N reference.
Only source files are changed; language resources are left untouched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReplaceCommon,
}

func init() {
	rootCmd.AddCommand(replaceCmd)
	replaceCmd.Flags().BoolVarP(&replaceYes, "yes", "y", false, "replace without asking")
}

func runReplaceCommon(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	ws, log, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if !replaceYes && !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("--yes is required when stdin is not a terminal")
	}

	out := cmd.OutOrStdout()
	prompter := newTerminalPrompter(os.Stdin, cmd.ErrOrStderr(), replaceYes)
	table := ws.Store.Table()

	for _, path := range args {
		file, err := workspace.OpenFile(path)
		if err != nil {
			return err
		}

		res, err := ws.Engine.ReplaceCommon(ctx, file, prompter, table)
		if saveErr := file.Save(); saveErr != nil {
			return saveErr
		}
		switch {
		case errors.Is(err, extract.ErrCancelled):
			continue
		case err != nil:
			return fmt.Errorf("%s: %w", path, err)
		case res.Found == 0:
			fmt.Fprintf(out, "%s: %s\n", path, i18n.T(i18n.MsgNoCommon))
		default:
			fmt.Fprintf(out, "%s: %s\n", path, i18n.T(i18n.MsgReplaced, res.Replaced))
		}
	}
	return nil
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tangzhangming/i18nlint/internal/config"
	"github.com/tangzhangming/i18nlint/internal/matcher"
)

var keysContains bool

var keysCmd = &cobra.Command{
	Use:   "keys [text]",
	Short: "List I18N keys, or the keys whose text matches",
	Long: `Without arguments, list every flattened key in the language resources.
With a text argument, list the keys whose value equals the text
(or contains it with --contains).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKeys,
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.Flags().BoolVar(&keysContains, "contains", false, "match values containing the text")
}

func runKeys(cmd *cobra.Command, args []string) error {
	ws, log, err := openWorkspace(context.Background())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	out := cmd.OutOrStdout()
	table := ws.Store.Table()

	if len(args) == 0 {
		for _, e := range table.Entries() {
			fmt.Fprintf(out, "%s\t%s\n", keyColor(ws.Engine.Ref(e.Key)), e.Value)
		}
		return nil
	}

	mode := config.MatchExact
	if keysContains {
		mode = config.MatchContains
	}
	for _, key := range matcher.Find(table, args[0], mode) {
		v, _ := table.Get(key)
		fmt.Fprintf(out, "%s\t%s\n", keyColor(ws.Engine.Ref(key)), v)
	}
	return nil
}

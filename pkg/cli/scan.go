package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/getmockd/stencil/pkg/cli/internal/output"
	"github.com/getmockd/stencil/pkg/stencil"
)

var (
	scanFile   string
	scanEngine engineFlags
)

var scanCmd = &cobra.Command{
	Use:   "scan [TEXT]",
	Short: "List the placeholders a stencil contains",
	Long: `List every placeholder the first substitution pass would see, with its
byte offsets. Nothing is resolved.`,
	Example: `  stencil scan 'x${a}${list:0}'
  stencil scan --file motd.tmpl --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanFile, "file", "f", "", "Read the stencil from a file")
	scanEngine.register(scanCmd)
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := scanEngine.apply(cmd, cfg); err != nil {
		return err
	}
	text, _, err := readStencil(cmd, args, scanFile)
	if err != nil {
		return err
	}
	engine, err := cfg.NewEngine(nil, logger)
	if err != nil {
		return err
	}
	found, err := engine.Scan(text)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if found == nil {
			found = []stencil.Template{}
		}
		return output.JSON(out, found)
	}

	if len(found) == 0 {
		fmt.Fprintln(out, "No placeholders found.")
		return nil
	}

	title := cases.Title(language.English)
	w := output.Table(out)
	fmt.Fprintln(w, "START\tEND\tKIND\tKEY\tTEXT")
	for _, t := range found {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n",
			t.Start, t.End, title.String(t.Kind.String()), t.Key(), strconv.Quote(t.Text))
	}
	return w.Flush()
}

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/stencil/pkg/cli/internal/output"
)

// StampOutput is the --json result of stamp.
type StampOutput struct {
	OK    bool    `json:"ok"`
	Value *string `json:"value,omitempty"`
	Error string  `json:"error,omitempty"`
}

var (
	stampFile    string
	stampVars    varFlags
	stampEngine  engineFlags
	stampNewline bool
)

var stampCmd = &cobra.Command{
	Use:   "stamp [TEXT]",
	Short: "Substitute placeholders in text, a file, or stdin",
	Long: `Substitute every ${name} and ${group:index} placeholder.

Values may contain placeholders themselves; substitution repeats until none
are left. If any placeholder cannot be resolved, nothing is printed and the
command fails.`,
	Example: `  stencil stamp --var name=world 'hello ${name}'
  stencil stamp --list hosts=a,b '${hosts:0} and ${hosts:1}'
  stencil stamp --vars vars.yaml --file motd.tmpl
  echo 'id=${uuid}' | stencil stamp --builtin
  stencil stamp --json --var a=1 '${a}${b}'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStamp,
}

func init() {
	stampCmd.Flags().StringVarP(&stampFile, "file", "f", "", "Read the stencil from a file")
	stampCmd.Flags().BoolVarP(&stampNewline, "newline", "n", false, "Always end output with a newline")
	stampVars.register(stampCmd)
	stampEngine.register(stampCmd)
	rootCmd.AddCommand(stampCmd)
}

func runStamp(cmd *cobra.Command, args []string) error {
	if err := stampEngine.apply(cmd, cfg); err != nil {
		return err
	}
	text, fromArg, err := readStencil(cmd, args, stampFile)
	if err != nil {
		return err
	}
	resolver, err := stampVars.resolver(cfg, logger)
	if err != nil {
		return err
	}
	engine, err := cfg.NewEngine(resolver, logger)
	if err != nil {
		return err
	}

	result := engine.SafeStamp(text)
	out := cmd.OutOrStdout()

	if jsonOutput {
		res := StampOutput{OK: result.OK()}
		if result.OK() {
			v := result.Value()
			res.Value = &v
		} else {
			res.Error = result.Err().Error()
		}
		if err := output.JSON(out, res); err != nil {
			return err
		}
		if !result.OK() {
			return errReported
		}
		return nil
	}

	value, err := result.Unwrap()
	if err != nil {
		return err
	}
	if (fromArg || stampNewline) && (len(value) == 0 || value[len(value)-1] != '\n') {
		value += "\n"
	}
	_, err = io.WriteString(out, value)
	return err
}

// readStencil returns the stencil from the argument, --file, or stdin, in
// that order. fromArg reports whether it came from the command line.
func readStencil(cmd *cobra.Command, args []string, file string) (text string, fromArg bool, err error) {
	if len(args) > 0 {
		if file != "" {
			return "", false, fmt.Errorf("pass either TEXT or --file, not both")
		}
		return args[0], true, nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, err
		}
		return string(data), false, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return "", false, ErrNoInput
		}
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", false, err
	}
	return string(data), false, nil
}

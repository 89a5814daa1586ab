package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/getmockd/stencil/pkg/cli/internal/flags"
	"github.com/getmockd/stencil/pkg/cli/internal/parse"
	"github.com/getmockd/stencil/pkg/cliconfig"
	"github.com/getmockd/stencil/pkg/stencil"
	"github.com/getmockd/stencil/pkg/variables"
)

// varFlags are the variable source flags shared by stamp and render.
type varFlags struct {
	vars        flags.Assignments
	lists       flags.Assignments
	files       flags.StringSlice
	docs        flags.StringSlice
	exprs       flags.Assignments
	env         bool
	builtin     bool
	interactive bool

	// ask replaces the terminal prompt in tests.
	ask variables.AskFunc
}

func (v *varFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.VarP(&v.vars, "var", "v", "Set a variable: name=value (repeatable)")
	f.VarP(&v.lists, "list", "l", "Set a list for ${name:index}: name=a,b,c (repeatable)")
	f.Var(&v.files, "vars", "Load variables from a YAML or JSON file (repeatable, later files win)")
	f.Var(&v.docs, "doc", "Look variables up by JSONPath in a YAML or JSON document (repeatable)")
	f.Var(&v.exprs, "expr", "Compute a variable with an expression: name=EXPR (repeatable)")
	f.BoolVar(&v.env, "env", false, "Fall back to environment variables (prefix from envPrefix)")
	f.BoolVar(&v.builtin, "builtin", false, "Enable built-in variables: uuid, uuid_short, ulid, now, date, timestamp, timestamp_ms, random, alnum")
	f.BoolVarP(&v.interactive, "interactive", "i", false, "Prompt for variables no other source defines")
}

// resolver builds the chain of variable sources. Earlier sources win:
// --var/--list, --expr, --vars files, --doc documents, environment,
// built-ins, prompt.
func (v *varFlags) resolver(c *cliconfig.Config, log *slog.Logger) (stencil.Resolver, error) {
	explicit := variables.NewMap(nil, nil)
	for _, entry := range v.vars {
		name, value, err := parse.KeyValue(entry)
		if err != nil {
			return nil, err
		}
		explicit.Set(name, value)
	}
	for _, entry := range v.lists {
		name, value, err := parse.KeyValue(entry)
		if err != nil {
			return nil, err
		}
		explicit.SetGroup(name, parse.SplitTrim(value, variables.DefaultListSeparator)...)
	}

	files := append(append([]string(nil), c.VarFiles...), v.files...)
	fromFiles := variables.NewMap(nil, nil)
	for _, path := range files {
		if c.Schema != "" {
			if err := variables.ValidateFile(path, c.Schema); err != nil {
				return nil, err
			}
		}
		m, err := variables.LoadFile(path)
		if err != nil {
			return nil, err
		}
		fromFiles.Merge(m)
		log.Debug("loaded variables", "file", path, "count", m.Len())
	}

	chain := variables.Chain{explicit}

	if len(v.exprs) > 0 {
		defs, err := parse.KeyValues(v.exprs)
		if err != nil {
			return nil, err
		}
		known := variables.NewMap(nil, nil)
		known.Merge(fromFiles)
		known.Merge(explicit)
		computed, err := variables.NewExpr(defs, variables.EnvFromMap(known), log)
		if err != nil {
			return nil, err
		}
		chain = append(chain, computed)
	}

	chain = append(chain, fromFiles)

	for _, path := range v.docs {
		doc, err := variables.LoadDocument(path)
		if err != nil {
			return nil, err
		}
		chain = append(chain, doc)
	}

	if v.env {
		chain = append(chain, variables.NewEnv(c.EnvPrefix))
	}
	if v.builtin {
		// Memoised so ${uuid} is the same value everywhere in one run.
		chain = append(chain, variables.NewMemo(variables.NewBuiltin()))
	}
	if v.interactive {
		if v.ask != nil {
			chain = append(chain, variables.NewPromptWith(v.ask))
		} else {
			chain = append(chain, variables.NewPrompt())
		}
	}
	return chain, nil
}

// engineFlags override the engine settings of the loaded configuration.
type engineFlags struct {
	strategy      string
	pattern       string
	keyGroup      int
	replaceGroup  int
	maxIterations int
}

func (e *engineFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&e.strategy, "strategy", "", "Fixpoint strategy: batch or incremental")
	f.StringVar(&e.pattern, "pattern", "", "Custom placeholder regexp (selects the incremental strategy)")
	f.IntVar(&e.keyGroup, "key-group", cliconfig.DefaultKeyGroup, "Capture group holding the variable name")
	f.IntVar(&e.replaceGroup, "replace-group", cliconfig.DefaultReplaceGroup, "Capture group replaced by the value (0 = whole match)")
	f.IntVar(&e.maxIterations, "max-iterations", stencil.DefaultMaxIterations, "Give up after this many passes")
}

// apply merges changed flags into c and validates the result.
func (e *engineFlags) apply(cmd *cobra.Command, c *cliconfig.Config) error {
	flagCfg := &cliconfig.Config{SetFields: map[string]bool{}}
	f := cmd.Flags()
	if f.Changed("strategy") {
		flagCfg.Strategy = e.strategy
	}
	if f.Changed("pattern") {
		flagCfg.Pattern = e.pattern
	}
	if f.Changed("key-group") {
		flagCfg.KeyGroup = e.keyGroup
		flagCfg.SetFields["keyGroup"] = true
	}
	if f.Changed("replace-group") {
		flagCfg.ReplaceGroup = e.replaceGroup
		flagCfg.SetFields["replaceGroup"] = true
	}
	cliconfig.Merge(c, flagCfg, cliconfig.SourceFlag)
	// Set directly so an explicit 0 reaches Validate instead of being skipped.
	if f.Changed("max-iterations") {
		c.MaxIterations = e.maxIterations
		c.Sources["maxIterations"] = cliconfig.SourceFlag
	}
	return c.Validate()
}

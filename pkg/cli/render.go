package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getmockd/stencil/pkg/cli/internal/output"
	"github.com/getmockd/stencil/pkg/cliconfig"
	"github.com/getmockd/stencil/pkg/render"
)

var (
	renderOut     string
	renderWatch   bool
	renderWorkers int
	renderVars    varFlags
	renderEngine  engineFlags
)

var renderCmd = &cobra.Command{
	Use:   "render GLOB",
	Short: "Stamp every file matching a glob",
	Long: `Stamp every file matching GLOB (** matches any number of directories).

With --out, results are written below DIR mirroring their path below the
glob's base directory, and a trailing .tmpl is dropped from file names.
Without --out, results are printed to stdout. --watch keeps running and
re-renders files as they change.`,
	Example: `  stencil render 'templates/**/*.tmpl' --out build --vars vars.yaml
  stencil render 'conf/*.tmpl' --out /etc/app --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output directory (default: print to stdout)")
	renderCmd.Flags().BoolVarP(&renderWatch, "watch", "w", false, "Re-render files when they change")
	renderCmd.Flags().IntVar(&renderWorkers, "workers", 0, "Files rendered concurrently (default from config)")
	renderVars.register(renderCmd)
	renderEngine.register(renderCmd)
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("workers") {
		cfg.Workers = renderWorkers
		cfg.Sources["workers"] = cliconfig.SourceFlag
	}
	if err := renderEngine.apply(cmd, cfg); err != nil {
		return err
	}
	if renderWatch && renderOut == "" {
		return fmt.Errorf("--watch requires --out")
	}

	resolver, err := renderVars.resolver(cfg, logger)
	if err != nil {
		return err
	}
	engine, err := cfg.NewEngine(resolver, logger)
	if err != nil {
		return err
	}
	r := &render.Renderer{
		Engine:  engine,
		Workers: cfg.Workers,
		OutDir:  renderOut,
		Logger:  logger,
	}
	out := cmd.OutOrStdout()

	if renderWatch {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return r.Watch(ctx, args[0], func(o render.Output, err error) {
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
				return
			}
			fmt.Fprintf(out, "%s -> %s\n", o.Source, o.Target)
		})
	}

	outputs, err := r.RenderGlob(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	switch {
	case jsonOutput:
		return output.JSON(out, outputs)
	case renderOut != "":
		for _, o := range outputs {
			fmt.Fprintf(out, "%s -> %s\n", o.Source, o.Target)
		}
	default:
		for i, o := range outputs {
			output.Section(out, i, len(outputs), o.Source)
			fmt.Fprint(out, o.Content)
		}
	}
	return nil
}

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"mindmap-cli/internal/format"
	"mindmap-cli/internal/store"
	"mindmap-cli/internal/tui"
)

type App struct {
	Dir        string
	Workspace  string
	PrettyJSON bool
	Format     string
	Verbose    bool

	logger *log.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "mindmap",
		Short:        "Mind-map editor (local-first) CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive editor
  mindmap

  # Scriptable commands
  mindmap maps list

  # Dump a map as outline text
  mindmap export map-abc123
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := log.WarnLevel
		if app.Verbose {
			level = log.DebugLevel
		}
		app.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		})
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("MINDMAP_DIR", ""), "Path to store dir (advanced: overrides workspace resolution)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("MINDMAP_WORKSPACE", ""), "Workspace name (default: 'default')")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("MINDMAP_FORMAT", "json"), "Output format (json)")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Debug logging to stderr")

	cmd.AddCommand(newMapsCmd(app))
	cmd.AddCommand(newNodesCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newLayoutCmd(app))
	cmd.AddCommand(newConnectorCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	st, err := resolveStore(app)
	if err != nil {
		return err
	}
	return tui.Run(st, app.logger)
}

// resolveStore picks the workspace directory:
// 1) --dir, 2) --workspace, 3) config currentWorkspace, 4) "default".
func resolveStore(app *App) (store.Store, error) {
	dir := app.Dir
	if dir == "" {
		if app.Workspace == "" {
			if cfg, err := store.LoadConfig(); err == nil && cfg.CurrentWorkspace != "" {
				app.Workspace = cfg.CurrentWorkspace
			} else {
				app.Workspace = "default"
			}
		}
		d, err := store.WorkspaceDir(app.Workspace)
		if err != nil {
			return store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}
	return store.Store{Dir: dir}, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

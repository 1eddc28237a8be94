package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mindmap-cli/internal/model"
)

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export <map-id>",
		Short: "Write a map as outline text to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			text, err := sess.ExportText()
			if err != nil {
				return writeErr(cmd, err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <map-id> [file]",
		Short: "Replace a map's tree from outline text (file or stdin)",
		Long: "Rebuilds the map from indentation-based outline text. Unusable input\n" +
			"(empty, or a first line not at depth 0) falls back to a single root node.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text []byte
			var err error
			if len(args) == 2 {
				text, err = os.ReadFile(args[1])
			} else {
				text, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, _, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.ImportText(string(text)); err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.Save(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"id":    args[0],
				"nodes": len(sess.Doc().Nodes),
			}})
		},
	}
}

func newLayoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "layout <map-id> <mode>",
		Short: "Set a map's layout mode (bidirectional|ltr|rtl) and relayout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, ok := model.ParseLayoutMode(args[1])
			if !ok {
				return writeErr(cmd, fmt.Errorf("invalid layout mode: %q (expected bidirectional|ltr|rtl)", args[1]))
			}
			sess, _, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			changed := sess.SetLayoutMode(mode)
			if changed {
				if err := sess.Save(); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "layoutMode": mode, "changed": changed}})
		},
	}
}

func newConnectorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "connector <map-id> <style>",
		Short: "Set a map's connector style (curved|straight)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			style, ok := model.ParseConnectorStyle(args[1])
			if !ok {
				return writeErr(cmd, fmt.Errorf("invalid connector style: %q (expected curved|straight)", args[1]))
			}
			sess, _, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			changed := sess.SetConnectorStyle(style)
			if changed {
				if err := sess.Save(); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "connectorStyle": style, "changed": changed}})
		},
	}
}

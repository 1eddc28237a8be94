package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mindmap-cli/internal/doc"
	"mindmap-cli/internal/model"
	"mindmap-cli/internal/session"
	"mindmap-cli/internal/store"
)

// Scriptable node edits address nodes by label text. Node ids are rebuilt on
// every import (outline text is the source of truth), so ids are only stable
// inside one interactive session and make a poor CLI handle.

func newNodesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "Edit nodes of a map (addressed by label text)",
	}
	cmd.AddCommand(newNodesAddCmd(app))
	cmd.AddCommand(newNodesRenameCmd(app))
	cmd.AddCommand(newNodesDeleteCmd(app))
	cmd.AddCommand(newNodesStyleCmd(app))
	return cmd
}

func openSession(app *App, mapID string) (*session.Session, store.Store, error) {
	st, err := resolveStore(app)
	if err != nil {
		return nil, store.Store{}, err
	}
	sess := session.New(st, app.logger)
	if err := sess.Open(mapID); err != nil {
		return nil, store.Store{}, err
	}
	return sess, st, nil
}

// findNodeByText returns the first pre-order node whose text matches exactly.
func findNodeByText(d *doc.Document, text string) (string, bool) {
	if root := d.Root(); root != nil {
		if root.Text == text {
			return root.ID, true
		}
		for _, id := range d.Descendants(root.ID) {
			if n, ok := d.Find(id); ok && n.Text == text {
				return id, true
			}
		}
	}
	return "", false
}

func errNodeNotFound(text string) error {
	return fmt.Errorf("no node with text %q", text)
}

func newNodesAddCmd(app *App) *cobra.Command {
	var under string
	cmd := &cobra.Command{
		Use:   "add <map-id> <text>",
		Short: "Add a child node (default: under the root)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			parentID := model.RootID
			if under != "" {
				pid, ok := findNodeByText(sess.Doc(), under)
				if !ok {
					return writeErr(cmd, errNodeNotFound(under))
				}
				parentID = pid
			}
			sess.Doc().Select(parentID)
			id, ok := sess.AddChild(args[1])
			if !ok {
				return writeErr(cmd, errors.New("node not added"))
			}
			if err := sess.Save(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]string{"id": id, "parentId": parentID}})
		},
	}
	cmd.Flags().StringVar(&under, "under", "", "Parent node text (default: root)")
	return cmd
}

func newNodesRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <map-id> <text> <new-text>",
		Short: "Rename a node (blank new text is rejected)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			id, ok := findNodeByText(sess.Doc(), args[1])
			if !ok {
				return writeErr(cmd, errNodeNotFound(args[1]))
			}
			changed := sess.Rename(id, args[2])
			if changed {
				if err := sess.Save(); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "changed": changed}})
		},
	}
}

func newNodesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <map-id> <text>",
		Short: "Delete a node and its whole subtree (the root cannot be deleted)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			id, ok := findNodeByText(sess.Doc(), args[1])
			if !ok {
				return writeErr(cmd, errNodeNotFound(args[1]))
			}
			sess.Doc().Select(id)
			changed := sess.DeleteSelected()
			if changed {
				if err := sess.Save(); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "deleted": changed}})
		},
	}
}

func newNodesStyleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "style <map-id> <text> <style>",
		Short: "Set a node's style (rect|underline|none)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			style, ok := model.ParseNodeStyle(args[2])
			if !ok {
				return writeErr(cmd, fmt.Errorf("invalid style: %q (expected rect|underline|none)", args[2]))
			}
			sess, _, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			id, ok := findNodeByText(sess.Doc(), args[1])
			if !ok {
				return writeErr(cmd, errNodeNotFound(args[1]))
			}
			sess.Doc().Select(id)
			changed := sess.SetStyle(style)
			if changed {
				if err := sess.Save(); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "style": style, "changed": changed}})
		},
	}
}

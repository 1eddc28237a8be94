package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mindmap-cli/internal/session"
)

func newMapsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maps",
		Short: "Manage maps in the current workspace",
	}
	cmd.AddCommand(newMapsListCmd(app))
	cmd.AddCommand(newMapsCreateCmd(app))
	cmd.AddCommand(newMapsShowCmd(app))
	cmd.AddCommand(newMapsRenameCmd(app))
	cmd.AddCommand(newMapsDeleteCmd(app))
	cmd.AddCommand(newMapsUseCmd(app))
	return cmd
}

func newMapsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List maps (most recently modified first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			maps, err := st.ListMaps(context.Background())
			if err != nil {
				return writeErr(cmd, err)
			}
			type row struct {
				ID         string    `json:"id"`
				Name       string    `json:"name"`
				ModifiedAt time.Time `json:"modifiedAt"`
			}
			rows := make([]row, 0, len(maps))
			for _, m := range maps {
				rows = append(rows, row{ID: m.ID, Name: m.Name, ModifiedAt: m.ModifiedAt})
			}
			return writeOut(cmd, app, map[string]any{"data": rows})
		},
	}
}

func newMapsCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new map with a single root node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			sess := session.New(st, app.logger)
			id, err := sess.NewMap(strings.TrimSpace(args[0]))
			if err != nil {
				return writeErr(cmd, err)
			}
			rec, err := st.GetMap(context.Background(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": rec})
		},
	}
}

func newMapsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <map-id>",
		Short: "Show one map record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			rec, err := st.GetMap(context.Background(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": rec})
		},
	}
}

func newMapsRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <map-id> <name>",
		Short: "Rename a map",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := context.Background()
			rec, err := st.GetMap(ctx, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			name := strings.TrimSpace(args[1])
			if name != "" && name != rec.Name {
				rec.Name = name
				rec.ModifiedAt = time.Now().UTC()
				if err := st.PutMap(ctx, rec); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": rec})
		},
	}
}

func newMapsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <map-id>",
		Short: "Delete a map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := st.DeleteMap(context.Background(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]string{"deleted": args[0]}})
		},
	}
}

func newMapsUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <map-id>",
		Short: "Set the map the TUI opens by default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := context.Background()
			if _, err := st.GetMap(ctx, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			if err := st.SetCurrentMapID(ctx, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]string{"current": args[0]}})
		},
	}
}

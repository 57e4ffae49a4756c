package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/collide/internal/scene"
	"github.com/vovakirdan/collide/internal/storage"
)

var flagScenesLimit int

var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "Save, list and show scene snapshots",
	Long: `Manage scene snapshots stored in the database. Snapshots saved from the
viewer with Ctrl+S show up here too. Ids may be abbreviated to any unique
prefix.

Examples:
  collide scenes save scene.yaml
  collide scenes list
  collide scenes show 1f3a9c2e > snapshot.yaml
  collide scenes delete 1f3a9c2e`,
}

var scenesSaveCmd = &cobra.Command{
	Use:   "save <scene.yaml>",
	Short: "Store a scene file",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenesSave,
}

var scenesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored scenes, newest first",
	Args:  cobra.NoArgs,
	RunE:  runScenesList,
}

var scenesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored scene as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenesShow,
}

var scenesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored scene",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenesDelete,
}

func init() {
	scenesListCmd.Flags().IntVar(&flagScenesLimit, "limit", 20, "Maximum scenes to show")

	scenesCmd.AddCommand(scenesSaveCmd)
	scenesCmd.AddCommand(scenesListCmd)
	scenesCmd.AddCommand(scenesShowCmd)
	scenesCmd.AddCommand(scenesDeleteCmd)
}

func runScenesSave(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	f, err := scene.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	// Reject files that would not build before storing them.
	if _, err := f.Build(); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.SaveScene(f)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func runScenesList(cmd *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Scenes(flagScenesLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No scenes stored yet.")
		return nil
	}

	fmt.Fprintf(out, "  %-8s  %-24s  %-6s  %s\n", "ID", "Name", "Bodies", "Date")
	fmt.Fprintf(out, "  %-8s  %-24s  %-6s  %s\n", "--", "----", "------", "----")
	for _, r := range records {
		fmt.Fprintf(out, "  %-8s  %-24s  %-6d  %s\n",
			r.ID[:8], r.Name, r.Bodies, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runScenesShow(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	f, rec, err := store.LoadScene(args[0])
	if err != nil {
		return err
	}
	data, err := f.YAML()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s saved %s\n", rec.ID, rec.CreatedAt.Format("2006-01-02 15:04"))
	_, err = out.Write(data)
	return err
}

func runScenesDelete(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	_, rec, err := store.LoadScene(args[0])
	if err != nil {
		return err
	}
	if err := store.DeleteScene(rec.ID); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "deleted", rec.ID)
	return nil
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/briefly/internal/export"
	"github.com/dusk-indust/briefly/internal/logging"
	"github.com/dusk-indust/briefly/internal/notes"
	"github.com/dusk-indust/briefly/internal/source"
)

func notesCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage the local meeting-notes graph",
	}
	cmd.AddCommand(notesImportCmd(flags), notesShowCmd(flags), notesExportCmd(flags))
	return cmd
}

func notesImportCmd(flags *globalFlags) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import [dir]",
		Short: "Import a directory of markdown pages into the notes graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("db") {
				dbPath = cfg.Sources.Notes.DBPath
			}

			store, err := openNotes(cmd.Context(), logging.Discard(), dbPath, "")
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := notes.ImportDir(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %d pages, %d links\n", res.Pages, res.Links)
			for _, d := range res.DanglingLinks {
				fmt.Fprintf(out, "  dangling: %s\n", d)
			}

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "graph: %d pages, %d links\n", stats.PageCount, stats.LinkCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "notes database path (default from config; empty means in-memory)")
	return cmd
}

func notesShowCmd(flags *globalFlags) *cobra.Command {
	var dbPath, importDir string

	cmd := &cobra.Command{
		Use:   "show [title]",
		Short: "Print a notes page and the pages it links to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("db") {
				dbPath = cfg.Sources.Notes.DBPath
			}
			if !cmd.Flags().Changed("import") {
				importDir = cfg.Sources.Notes.ImportDir
			}

			store, err := openNotes(cmd.Context(), logging.Discard(), dbPath, importDir)
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := source.NewLocalNotesFetcher(store).Fetch(cmd.Context(), source.NotesParams{Title: args[0]})
			if err != nil {
				return err
			}
			if res.Empty() {
				return fmt.Errorf("notes: no page titled %q", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Content)
			if len(res.Related) > 0 {
				fmt.Fprintf(out, "\nlinks to: %v\n", res.Related)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "notes database path (default from config; empty means in-memory)")
	cmd.Flags().StringVar(&importDir, "import", "", "import this markdown directory first")
	return cmd
}

func notesExportCmd(flags *globalFlags) *cobra.Command {
	var dbPath, importDir, format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the notes graph as a Mermaid diagram or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("db") {
				dbPath = cfg.Sources.Notes.DBPath
			}
			if !cmd.Flags().Changed("import") {
				importDir = cfg.Sources.Notes.ImportDir
			}

			store, err := openNotes(cmd.Context(), logging.Discard(), dbPath, importDir)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			switch format {
			case "mermaid":
				diagram, err := export.GenerateMermaid(cmd.Context(), store)
				if err != nil {
					return err
				}
				fmt.Fprint(out, diagram)
				return nil
			case "json":
				data, err := export.ExportNotes(cmd.Context(), store)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(data)
			default:
				return fmt.Errorf("unknown format %q (want mermaid or json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "notes database path (default from config; empty means in-memory)")
	cmd.Flags().StringVar(&importDir, "import", "", "import this markdown directory first")
	cmd.Flags().StringVar(&format, "format", "mermaid", "output format: mermaid or json")
	return cmd
}

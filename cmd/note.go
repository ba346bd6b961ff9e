package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/haierkeys/fast-note-keeper/internal/dto"
	"github.com/haierkeys/fast-note-keeper/internal/service"
	"github.com/haierkeys/fast-note-keeper/pkg/code"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes without starting the server",
}

// cliError renders a service error in the default language
func cliError(err error) error {
	var c *code.Code
	if errors.As(err, &c) {
		if details := c.Details(); len(details) > 0 {
			return fmt.Errorf("%s: %v", c.Msg(), details)
		}
		return errors.New(c.Msg())
	}
	return err
}

func printNotes(w io.Writer, notes []*dto.NoteDTO) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSLUG\tCATEGORY\tCREATED\tTITLE")
	for _, n := range notes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", n.ID, n.Slug, n.Category, n.CreationDate.String(), n.Title)
	}
	_ = tw.Flush()
}

func printNote(w io.Writer, action string, n *dto.NoteDTO) {
	fmt.Fprintf(w, "%s %q (slug: %s, id: %d)\n", action, n.Title, n.Slug, n.ID)
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active notes, or archived notes with --archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeApp, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp()

		archived, _ := cmd.Flags().GetBool("archive")
		list := a.NoteService.ListActive
		if archived {
			list = a.NoteService.ListArchive
		}
		notes, _, err := list(cmd.Context(), nil)
		if err != nil {
			return cliError(err)
		}
		printNotes(cmd.OutOrStdout(), notes)
		return nil
	},
}

var noteAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note, or replace the note with --id",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeApp, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp()

		params := &dto.NoteSetRequest{}
		params.ID, _ = cmd.Flags().GetInt64("id")
		params.Title, _ = cmd.Flags().GetString("title")
		params.Content, _ = cmd.Flags().GetString("content")
		params.Category, _ = cmd.Flags().GetString("category")

		note, replaced, err := a.NoteService.Set(cmd.Context(), params)
		if err != nil {
			return cliError(err)
		}
		if replaced {
			printNote(cmd.OutOrStdout(), "Updated", note)
		} else {
			printNote(cmd.OutOrStdout(), "Created", note)
		}
		return nil
	},
}

var noteUpdateCmd = &cobra.Command{
	Use:   "update <slug>",
	Short: "Edit the active note with the given slug",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeApp, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp()

		params := &dto.NoteUpdateRequest{Slug: args[0]}
		params.Title, _ = cmd.Flags().GetString("title")
		params.Content, _ = cmd.Flags().GetString("content")
		params.Category, _ = cmd.Flags().GetString("category")

		note, err := a.NoteService.Update(cmd.Context(), params)
		if err != nil {
			return cliError(err)
		}
		printNote(cmd.OutOrStdout(), "Updated", note)
		return nil
	},
}

// slugCommand builds a command applying op to the note named by its single slug argument
func slugCommand(use, short, done string, op func(cmd *cobra.Command, slug string) (*dto.NoteDTO, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <slug>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			note, err := op(cmd, args[0])
			if err != nil {
				return cliError(err)
			}
			printNote(cmd.OutOrStdout(), done, note)
			return nil
		},
	}
}

var noteSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show note counts per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeApp, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp()

		summary, err := a.NoteService.Summary(cmd.Context())
		if err != nil {
			return cliError(err)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CATEGORY\tACTIVE\tARCHIVED")
		for _, s := range summary {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", s.Category, s.Active, s.Archived)
		}
		return tw.Flush()
	},
}

func init() {
	noteListCmd.Flags().Bool("archive", false, "list archived notes")

	noteAddCmd.Flags().Int64("id", 0, "replace the active note with this id")
	for _, c := range []*cobra.Command{noteAddCmd, noteUpdateCmd} {
		c.Flags().StringP("title", "t", "", "note title")
		c.Flags().String("content", "", "note content")
		c.Flags().String("category", "", "note category")
	}
	_ = noteAddCmd.MarkFlagRequired("title")

	withApp := func(fn func(cmd *cobra.Command, slug string, a service.NoteService) (*dto.NoteDTO, error)) func(*cobra.Command, string) (*dto.NoteDTO, error) {
		return func(cmd *cobra.Command, slug string) (*dto.NoteDTO, error) {
			a, closeApp, err := openApp(cmd)
			if err != nil {
				return nil, err
			}
			defer closeApp()
			return fn(cmd, slug, a.NoteService)
		}
	}

	noteCmd.AddCommand(
		noteListCmd,
		noteAddCmd,
		noteUpdateCmd,
		noteSummaryCmd,
		slugCommand("delete", "Delete the active note with the given slug", "Deleted",
			withApp(func(cmd *cobra.Command, slug string, a service.NoteService) (*dto.NoteDTO, error) {
				return a.Delete(cmd.Context(), slug)
			})),
		slugCommand("archive", "Move the active note with the given slug to the archive", "Archived",
			withApp(func(cmd *cobra.Command, slug string, a service.NoteService) (*dto.NoteDTO, error) {
				return a.Archive(cmd.Context(), slug)
			})),
		slugCommand("unarchive", "Restore the archived note with the given slug", "Restored",
			withApp(func(cmd *cobra.Command, slug string, a service.NoteService) (*dto.NoteDTO, error) {
				return a.Unarchive(cmd.Context(), slug)
			})),
	)
	addConfigFlag(noteCmd)
	rootCmd.AddCommand(noteCmd)
}

package cmd

import (
	"fmt"

	"github.com/haierkeys/fast-note-keeper/pkg/fileurl"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write both note collections as one JSON document",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeApp, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp()

		data, export, err := a.BackupService.Export(cmd.Context())
		if err != nil {
			return cliError(err)
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		if err := fileurl.WriteFile(output, data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d active and %d archived notes to %s\n", len(export.Active), len(export.Archive), output)
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload one snapshot to the configured storage and prune old ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeApp, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp()

		result, err := a.BackupService.Run(cmd.Context())
		if err != nil {
			return cliError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s (%d bytes)\n", result.Location, result.Size)
		for _, k := range result.Pruned {
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %s\n", k)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "output file, stdout when empty")
	addConfigFlag(exportCmd)
	addConfigFlag(backupCmd)
	rootCmd.AddCommand(exportCmd, backupCmd)
}

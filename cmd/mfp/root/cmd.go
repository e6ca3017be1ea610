package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/archivelab/film-registry/cmd/mfp/process"
	"github.com/archivelab/film-registry/cmd/mfp/version"
)

func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mfp",
		Short: "microfilm processor",
		Long:  "CLI to allocate archive document projects onto 16mm and 35mm film rolls",
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Args: cobra.NoArgs,
	}

	cmd.AddCommand(process.NewCmd(), version.NewVersionCommand())

	cmd.Flags().Bool("debug", false, "enable debug logging")
	if err := cmd.Flags().MarkHidden("debug"); err != nil {
		logrus.Panic(err.Error())
	}

	return cmd
}

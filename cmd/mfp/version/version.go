package version

import (
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	registryversion "github.com/archivelab/film-registry/pkg/version"
)

type mfpVersionInfo struct {
	Commit    string
	FallBack  string
	GoVersion string
	Version   string
}

const fallbackVersion string = "v0.1.0"

var (
	version string
	commit  string

	versionWrapper = &mfpVersionInfo{
		Commit:    commit,
		FallBack:  fallbackVersion,
		Version:   version,
		GoVersion: fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	}
)

// NewVersionCommand returns the version command.
func NewVersionCommand() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Prints the version of mfp",
		Run: func(cmd *cobra.Command, args []string) {
			v := versionWrapper.Version
			if v == "" {
				v = versionWrapper.FallBack
			}
			c := versionWrapper.Commit
			if c == "" {
				c = registryversion.GitCommit
			}

			logger := logrus.WithFields(logrus.Fields{
				"Version":   v,
				"commit":    c,
				"GoVersion": versionWrapper.GoVersion,
			})

			logger.Info("mfp version")
		},
	}

	return versionCmd
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luma/ldds/internal/meta"
	"github.com/luma/ldds/protocol"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ldds build info",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), meta.GetInfo(protocol.LatestVersion))
	},
}

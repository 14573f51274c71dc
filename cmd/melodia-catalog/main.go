// Command melodia-catalog edits the track list melodia plays from.
//
// A running player watches the database and picks up changes on its own.
package main

import (
	"github.com/GiGurra/boa/pkg/boa"
	"github.com/spf13/cobra"
)

func main() {
	boa.CmdT[boa.NoParams]{
		Use:   "melodia-catalog",
		Short: "Manage the melodia track list",
		SubCmds: []*cobra.Command{
			AddCmd(),
			RemoveCmd(),
			ListCmd(),
			ProbeCmd(),
			LastfmLoginCmd(),
		},
	}.Run()
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/spf13/cobra"
)

type RemoveParams struct {
	IDs []string `pos:"true" required:"true" help:"Ids of the tracks to remove (see list)"`
	DB  string   `long:"db" optional:"true" help:"Database path (defaults to the configured one)"`
}

func RemoveCmd() *cobra.Command {
	return boa.CmdT[RemoveParams]{
		Use:     "remove",
		Aliases: []string{"rm"},
		Short:   "Remove tracks from the track list",
		RunFunc: func(params *RemoveParams, cmd *cobra.Command, args []string) {
			if code := RunRemove(cmd.Context(), params, os.Stdout, os.Stderr); code != 0 {
				os.Exit(code)
			}
		},
	}.ToCobra()
}

func RunRemove(ctx context.Context, params *RemoveParams, stdout, stderr io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}
	mgr, cat, err := openCatalog(params.DB)
	if err != nil {
		fmt.Fprintf(stderr, "melodia-catalog: %v\n", err)
		return 1
	}
	defer mgr.Close()

	code := 0
	for _, s := range params.IDs {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			fmt.Fprintf(stderr, "melodia-catalog: invalid id %q\n", s)
			code = 1
			continue
		}
		if err := cat.Remove(ctx, id); err != nil {
			fmt.Fprintf(stderr, "melodia-catalog: %v\n", err)
			code = 1
			continue
		}
		fmt.Fprintf(stdout, "removed %d\n", id)
	}
	return code
}

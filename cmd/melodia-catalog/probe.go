package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/spf13/cobra"

	"github.com/llehouerou/melodia/internal/catalog"
	"github.com/llehouerou/melodia/internal/player"
)

type ProbeParams struct {
	DB string `long:"db" optional:"true" help:"Database path (defaults to the configured one)"`
}

func ProbeCmd() *cobra.Command {
	return boa.CmdT[ProbeParams]{
		Use:   "probe",
		Short: "Read and cache the length of tracks that have none",
		RunFunc: func(params *ProbeParams, cmd *cobra.Command, args []string) {
			if code := RunProbe(cmd.Context(), params, player.ProbeDuration, os.Stdout, os.Stderr); code != 0 {
				os.Exit(code)
			}
		},
	}.ToCobra()
}

func RunProbe(ctx context.Context, params *ProbeParams, probe catalog.ProbeFunc, stdout, stderr io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}
	mgr, cat, err := openCatalog(params.DB)
	if err != nil {
		fmt.Fprintf(stderr, "melodia-catalog: %v\n", err)
		return 1
	}
	defer mgr.Close()

	res, err := cat.Probe(ctx, probe)
	if err != nil {
		fmt.Fprintf(stderr, "melodia-catalog: probe: %v\n", err)
		return 1
	}
	for id, perr := range res.Failed {
		fmt.Fprintf(stderr, "melodia-catalog: track %d: %v\n", id, perr)
	}
	fmt.Fprintf(stdout, "%d probed, %d failed\n", res.Probed, len(res.Failed))
	if len(res.Failed) > 0 {
		return 1
	}
	return 0
}

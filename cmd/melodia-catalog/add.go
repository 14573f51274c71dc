package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/melodia/internal/catalog"
	"github.com/llehouerou/melodia/internal/player"
	"github.com/llehouerou/melodia/internal/tags"
)

type AddParams struct {
	Paths  []string `pos:"true" required:"true" help:"Audio files or directories to add. Directories are searched recursively."`
	DB     string   `long:"db" optional:"true" help:"Database path (defaults to the configured one)"`
	DryRun bool     `short:"n" long:"dry-run" optional:"true" help:"Print what would be added without storing it"`
}

func AddCmd() *cobra.Command {
	return boa.CmdT[AddParams]{
		Use:   "add",
		Short: "Add audio files to the track list",
		RunFunc: func(params *AddParams, cmd *cobra.Command, args []string) {
			if code := RunAdd(cmd.Context(), params, os.Stdout, os.Stderr); code != 0 {
				os.Exit(code)
			}
		},
	}.ToCobra()
}

func RunAdd(ctx context.Context, params *AddParams, stdout, stderr io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}
	mgr, cat, err := openCatalog(params.DB)
	if err != nil {
		fmt.Fprintf(stderr, "melodia-catalog: %v\n", err)
		return 1
	}
	defer mgr.Close()

	files, walkErrs := collectMusicFiles(params.Paths)
	for _, err := range walkErrs {
		fmt.Fprintf(stderr, "melodia-catalog: %v\n", err)
	}

	existing, err := cat.List(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "melodia-catalog: list tracks: %v\n", err)
		return 1
	}
	known := lo.SliceToMap(existing, func(t catalog.Track) (string, bool) {
		return t.Locator, true
	})

	added := 0
	for _, path := range files {
		locator, err := player.FileLocator(path)
		if err != nil {
			fmt.Fprintf(stderr, "melodia-catalog: %s: %v\n", path, err)
			continue
		}
		if known[locator] {
			continue
		}
		known[locator] = true

		name := tags.DisplayName(path)
		if params.DryRun {
			fmt.Fprintf(stdout, "would add %s\n", name)
			continue
		}
		t, err := cat.Add(ctx, name, locator)
		if err != nil {
			fmt.Fprintf(stderr, "melodia-catalog: add %s: %v\n", path, err)
			return 1
		}
		fmt.Fprintf(stdout, "added %d %s\n", t.ID, t.Name)
		added++
	}

	if len(files) == 0 {
		fmt.Fprintln(stderr, "melodia-catalog: no supported audio files found")
		return 1
	}
	if !params.DryRun {
		fmt.Fprintf(stdout, "%d added, %d already present\n", added, len(files)-added)
	}
	if len(walkErrs) > 0 {
		return 1
	}
	return 0
}

// collectMusicFiles expands directories into the audio files below them.
// Results are absolute, deduplicated and sorted per argument.
func collectMusicFiles(paths []string) ([]string, []error) {
	var files []string
	var errs []error
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		info, err := os.Stat(abs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !info.IsDir() {
			if !player.IsMusicFile(abs) {
				errs = append(errs, fmt.Errorf("%s: %w", p, player.ErrUnsupportedFormat))
				continue
			}
			files = append(files, abs)
			continue
		}

		var found []string
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && player.IsMusicFile(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			errs = append(errs, err)
		}
		slices.Sort(found)
		files = append(files, found...)
	}
	return lo.Uniq(files), errs
}

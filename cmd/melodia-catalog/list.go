package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/melodia/internal/catalog"
)

type ListParams struct {
	DB   string `long:"db" optional:"true" help:"Database path (defaults to the configured one)"`
	Long bool   `short:"l" optional:"true" help:"Show locators"`
	JSON bool   `long:"json" optional:"true" help:"Output as JSON"`
}

func ListCmd() *cobra.Command {
	return boa.CmdT[ListParams]{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the tracks in play order",
		RunFunc: func(params *ListParams, cmd *cobra.Command, args []string) {
			if code := RunList(cmd.Context(), params, os.Stdout, os.Stderr); code != 0 {
				os.Exit(code)
			}
		},
	}.ToCobra()
}

func RunList(ctx context.Context, params *ListParams, stdout, stderr io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}
	mgr, cat, err := openCatalog(params.DB)
	if err != nil {
		fmt.Fprintf(stderr, "melodia-catalog: %v\n", err)
		return 1
	}
	defer mgr.Close()

	tracks, err := cat.List(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "melodia-catalog: list tracks: %v\n", err)
		return 1
	}

	if params.JSON {
		return writeJSON(tracks, stdout, stderr)
	}
	renderTable(stdout, tracks, params.Long, time.Now())
	return 0
}

type trackJSON struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Locator    string    `json:"locator"`
	DurationMs int64     `json:"duration_ms,omitempty"`
	AddedAt    time.Time `json:"added_at"`
}

func writeJSON(tracks []catalog.Track, stdout, stderr io.Writer) int {
	out := lo.Map(tracks, func(t catalog.Track, _ int) trackJSON {
		return trackJSON{
			ID:         t.ID,
			Name:       t.Name,
			Locator:    t.Locator,
			DurationMs: t.Duration.Milliseconds(),
			AddedAt:    t.AddedAt,
		}
	})
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(stderr, "melodia-catalog: %v\n", err)
		return 1
	}
	return 0
}

func renderTable(w io.Writer, tracks []catalog.Track, long bool, now time.Time) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := table.Row{"#", "ID", "Name", "Length", "Added"}
	if long {
		header = append(header, "Locator")
	}
	t.AppendHeader(header)

	var total time.Duration
	for i, tr := range tracks {
		row := table.Row{i + 1, tr.ID, tr.Name, formatLength(tr.Duration), humanize.RelTime(tr.AddedAt, now, "ago", "from now")}
		if long {
			row = append(row, tr.Locator)
		}
		t.AppendRow(row)
		total += tr.Duration
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d tracks", len(tracks)), formatLength(total)})
	t.Render()
}

func formatLength(d time.Duration) string {
	if d <= 0 {
		return "--:--"
	}
	d = d.Round(time.Second)
	if d >= time.Hour {
		return fmt.Sprintf("%d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
	}
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/thesrcielos/TileMapServer/internal/tilemap"
	"github.com/thesrcielos/TileMapServer/internal/tileset"
)

const (
	exitOK       = 0
	exitRejected = 1
	exitUsage    = 2
)

type options struct {
	tilesets   string
	strict     bool
	duplicates string
	at         string
	save       string
	cached     string
	path       string
}

func parseOptions(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("mapcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: mapcheck [flags] map.json")
		fs.PrintDefaults()
	}

	opts := &options{}
	fs.StringVar(&opts.tilesets, "tilesets", "", "tileset registry YAML (built-in tilesets when empty)")
	fs.BoolVar(&opts.strict, "strict", false, "reject maps with warnings")
	fs.StringVar(&opts.duplicates, "duplicates", "last", "duplicate id policy: last or all")
	fs.StringVar(&opts.at, "at", "", "print the cell at x,y")
	fs.StringVar(&opts.save, "save", "", "keep an accepted map in local storage under this name")
	fs.StringVar(&opts.cached, "cached", "", "check a map from local storage instead of a file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch {
	case opts.cached != "" && fs.NArg() == 0:
	case opts.cached == "" && fs.NArg() == 1:
		opts.path = fs.Arg(0)
	default:
		fs.Usage()
		return nil, errors.New("expected exactly one map file or -cached")
	}
	return opts, nil
}

func parseCell(s string) (int, int, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("cell %q must be x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return 0, 0, fmt.Errorf("cell %q: bad x: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return 0, 0, fmt.Errorf("cell %q: bad y: %w", s, err)
	}
	return x, y, nil
}

func loadSprites(path string) (*tileset.Registry, error) {
	if path == "" {
		return tileset.DefaultRegistry(), nil
	}
	return tileset.LoadRegistry(path)
}

func readInput(opts *options, store mapStore) ([]byte, error) {
	if opts.cached == "" {
		return os.ReadFile(opts.path)
	}
	if store == nil {
		return nil, errNoStore
	}
	return store.Load(opts.cached)
}

// run checks one map and returns the process exit code.
func run(args []string, stdout, stderr io.Writer, store mapStore) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	policy, err := tilemap.ParseDuplicatePolicy(opts.duplicates)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitUsage
	}
	sprites, err := loadSprites(opts.tilesets)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitUsage
	}

	data, err := readInput(opts, store)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitUsage
	}
	doc, err := tilemap.DecodeBytes(data)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitRejected
	}

	report := tilemap.Validate(doc, sprites)
	index := tilemap.NewTileMap(doc, policy)
	printReport(stdout, report, index.Stats())

	if opts.at != "" {
		x, y, err := parseCell(opts.at)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return exitUsage
		}
		printCell(stdout, index, x, y)
	}

	if !report.Accepted(opts.strict) {
		fmt.Fprintln(stdout, "REJECTED")
		return exitRejected
	}
	fmt.Fprintln(stdout, "OK")

	if opts.save != "" {
		if store == nil {
			fmt.Fprintln(stderr, "error:", errNoStore)
			return exitUsage
		}
		encoded, err := tilemap.EncodeBytes(doc)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return exitUsage
		}
		if err := store.Save(opts.save, encoded); err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return exitUsage
		}
		fmt.Fprintf(stdout, "saved as %s\n", opts.save)
	}
	return exitOK
}

func printReport(w io.Writer, report tilemap.Report, stats tilemap.Stats) {
	for _, issue := range report.Issues {
		where := ""
		if issue.TileID != "" {
			where = " " + issue.TileID
		}
		if issue.Index >= 0 {
			where += fmt.Sprintf(" [#%d]", issue.Index)
		}
		fmt.Fprintf(w, "%-7s %s%s: %s\n", strings.ToUpper(string(issue.Severity)), issue.Code, where, issue.Message)
	}
	fmt.Fprintf(w, "%d errors, %d warnings\n", len(report.Errors()), len(report.Warnings()))
	fmt.Fprintf(w, "tiles: %d (%d entries), walls: %d, occupied cells: %d\n",
		stats.Tiles, stats.Entries, stats.Walls, stats.OccupiedCells)
}

func printCell(w io.Writer, index *tilemap.TileMap, x, y int) {
	fmt.Fprintf(w, "cell (%d,%d) wall=%t\n", x, y, index.IsWall(x, y))
	for _, tile := range index.TilesAt(x, y) {
		fmt.Fprintf(w, "  %-10s %s %s frame=%d\n", tile.Layer, tile.ID, tile.TilesetKey, tile.Frame)
	}
}

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/world"
)

var (
	flagFrom string
	flagDir  string
	flagDist float64
	flagAll  bool
)

var castCmd = &cobra.Command{
	Use:   "cast <scene.yaml>",
	Short: "Cast a ray across a scene",
	Long: `Cast a ray through a scene file and print the closest hit, or every hit
ordered by distance with --all. A ray that starts inside a polygon does not
hit it. A zero --dist casts across the whole arena.

Examples:
  collide cast scene.yaml --from 0,20 --dir 1,0
  collide cast scene.yaml --from 10,10 --dir 1,-1 --dist 30 --all`,
	Args: cobra.ExactArgs(1),
	RunE: runCast,
}

func init() {
	castCmd.Flags().StringVar(&flagFrom, "from", "0,0", "Ray origin x,y")
	castCmd.Flags().StringVar(&flagDir, "dir", "1,0", "Ray direction x,y")
	castCmd.Flags().Float64Var(&flagDist, "dist", 0, "Maximum distance (0 = arena diagonal)")
	castCmd.Flags().BoolVar(&flagAll, "all", false, "Print every hit instead of the closest")
}

func runCast(cmd *cobra.Command, args []string) error {
	origin, err := parseVec(flagFrom)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	dir, err := parseVec(flagDir)
	if err != nil {
		return fmt.Errorf("--dir: %w", err)
	}
	if _, ok := geom.Normalize(dir); !ok {
		return fmt.Errorf("--dir: direction must not be zero")
	}
	if flagDist < 0 {
		return fmt.Errorf("--dist: must not be negative")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger("collide")
	if err != nil {
		return err
	}
	w, sc, err := loadWorld(args[0], cfg.World, logger)
	if err != nil {
		return err
	}

	dist := flagDist
	if dist == 0 {
		dist = sc.Arena.Size().Len()
	}

	var hits []world.Hit
	if flagAll {
		hits = w.CastRay(origin, dir, dist)
	} else if hit, ok := w.CastRayClosest(origin, dir, dist); ok {
		hits = []world.Hit{hit}
	}

	out := cmd.OutOrStdout()
	if len(hits) == 0 {
		fmt.Fprintln(out, "no hit")
		return nil
	}
	for _, h := range hits {
		fmt.Fprintf(out, "%-12s at %s  distance %.3f  normal %s\n",
			bodyID(sc, h.Shape), formatVec(h.Contact), h.Distance, formatVec(h.Normal))
	}
	return nil
}

// parseVec parses "x,y".
func parseVec(s string) (geom.Vec, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Vec{}, fmt.Errorf("want x,y, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return geom.Vec{}, fmt.Errorf("bad x in %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return geom.Vec{}, fmt.Errorf("bad y in %q: %w", s, err)
	}
	v := geom.V(x, y)
	if !geom.Finite(v) {
		return geom.Vec{}, fmt.Errorf("%q is not finite", s)
	}
	return v, nil
}

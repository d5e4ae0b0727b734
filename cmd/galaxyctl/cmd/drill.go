package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"galaxy-maker-server/internal/capture"
	"galaxy-maker-server/internal/session"
	"galaxy-maker-server/internal/transition"
	"galaxy-maker-server/internal/view"
)

var (
	drillSeed      uint64
	drillArchetype string
	drillWidth     float64
	drillHeight    float64
	drillRects     []string
	drillFinal     string
	drillAuto      bool
	drillOut       string
)

var drillCmd = &cobra.Command{
	Use:   "drill",
	Short: "Zoom through a list of selections and finalize a sector",
	Long: `Generate a galaxy and apply each --rect as a selection followed by a zoom.
With --auto the drill then keeps zooming into the middle of the view, on a
square small enough to finish quickly, until every point is a single star.
Once the view is literal the --final rect (the whole viewport by default)
becomes the sector.

Examples:
  galaxyctl drill --seed 42 --rect 330,210,100,100 --rect 370,250,20,20 --rect 280,160,200,200 --final 10,10,40,40 --out ./sector
  galaxyctl drill --archetype ring --rect 300,200,160,120 --auto --final 300,200,160,120`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		vp := view.Viewport{Width: drillWidth, Height: drillHeight}
		sessions := newSessions(vp, true)

		snap, err := sessions.Create(ctx, session.CreateOptions{Seed: drillSeed, Archetype: drillArchetype})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s, %d points, ~%.0f stars\n", snap.GalaxyType, snap.Points, snap.TotalStars)

		for _, raw := range drillRects {
			if snap.IsLiteral {
				return fmt.Errorf("view is already literal at zoom %d; %s was not applied", snap.ZoomLevel, raw)
			}
			res, err := step(ctx, sessions, snap.ID, raw)
			if err != nil {
				return err
			}
			snap = res.Snapshot
			fmt.Fprintf(cmd.OutOrStdout(), "zoom %d (%s): %d points, %.4g stars per point\n",
				snap.ZoomLevel, snap.Phase, snap.Points, snap.StarsPerPoint)
		}

		for drillAuto && !snap.IsLiteral {
			res, err := autoStep(ctx, sessions, snap.ID, vp)
			if err != nil {
				return err
			}
			snap = res.Snapshot
			fmt.Fprintf(cmd.OutOrStdout(), "zoom %d (%s): %d points, %.4g stars per point\n",
				snap.ZoomLevel, snap.Phase, snap.Points, snap.StarsPerPoint)
		}

		if !snap.IsLiteral {
			return fmt.Errorf("view is still %s at zoom %d; add more --rect selections or pass --auto", snap.Phase, snap.ZoomLevel)
		}

		final := drillFinal
		if final == "" {
			final = fmt.Sprintf("0,0,%g,%g", vp.Width, vp.Height)
		}
		res, err := step(ctx, sessions, snap.ID, final)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sector: %d stars in a %dx%dx%d grid\n",
			res.Sector.StarCount, res.Sector.Grid.Width, res.Sector.Grid.Height, res.Sector.Grid.Depth)

		cat, err := sessions.Catalog(snap.ID)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(drillOut, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := writeJSON(filepath.Join(drillOut, "sector.json"), res.Sector); err != nil {
			return err
		}
		if err := writeJSON(filepath.Join(drillOut, "catalog.json"), cat); err != nil {
			return err
		}

		images := map[string]string{
			"root.png":  cat.Appendix.Images.Root,
			"final.png": cat.Appendix.Images.Final,
			"crop.png":  cat.Appendix.Images.Crop,
		}
		for name, url := range images {
			if url == "" {
				continue
			}
			data, err := capture.DecodeDataURL(url)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if err := os.WriteFile(filepath.Join(drillOut, name), data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", name, err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", drillOut)
		return nil
	},
}

// step commits raw as the selection and advances past it.
func step(ctx context.Context, sessions *session.Service, id, raw string) (session.AdvanceResult, error) {
	rect, err := parseRect(raw)
	if err != nil {
		return session.AdvanceResult{}, err
	}

	sum, err := sessions.Select(id, rect)
	if err != nil {
		return session.AdvanceResult{}, err
	}
	if !sum.Valid {
		return session.AdvanceResult{}, fmt.Errorf("rect %s: both sides must be at least %dpx", raw, view.MinSelectionSize)
	}

	return sessions.Advance(ctx, id)
}

// autoStep zooms into the largest centred square, halving from 200px, whose
// estimate is small enough for an exact view. Past the smallest usable square
// it takes that one. Every zoom moves one level deeper, so repeated calls
// reach a literal view.
func autoStep(ctx context.Context, sessions *session.Service, id string, vp view.Viewport) (session.AdvanceResult, error) {
	cx, cy := vp.Center()
	side := min(200, vp.Width, vp.Height)

	for {
		rect := view.SelectionRect{X: cx - side/2, Y: cy - side/2, Width: side, Height: side}
		sum, err := sessions.Select(id, rect)
		if err != nil {
			return session.AdvanceResult{}, err
		}
		if sum.EstimatedStars <= transition.FinalMaxStars || side/2 < view.MinSelectionSize {
			break
		}
		side /= 2
	}

	return sessions.Advance(ctx, id)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func init() {
	drillCmd.Flags().Uint64Var(&drillSeed, "seed", 0, "seed for a reproducible run (0 picks one at random)")
	drillCmd.Flags().StringVar(&drillArchetype, "archetype", "", "spiral, barred_spiral, elliptical, ring or irregular")
	drillCmd.Flags().Float64Var(&drillWidth, "width", 760, "viewport width")
	drillCmd.Flags().Float64Var(&drillHeight, "height", 520, "viewport height")
	drillCmd.Flags().StringArrayVar(&drillRects, "rect", nil, "selection x,y,w,h to zoom into (repeatable)")
	drillCmd.Flags().StringVar(&drillFinal, "final", "", "sector selection x,y,w,h on the literal view")
	drillCmd.Flags().BoolVar(&drillAuto, "auto", false, "after the --rect selections, zoom into the centre until the view is literal")
	drillCmd.Flags().StringVarP(&drillOut, "out", "o", ".", "output directory")

	rootCmd.AddCommand(drillCmd)
}

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"galaxy-maker-server/internal/capture"
	"galaxy-maker-server/internal/catalog"
	"galaxy-maker-server/internal/sector"
	"galaxy-maker-server/internal/session"
	"galaxy-maker-server/internal/shared/config"
	"galaxy-maker-server/internal/shared/logger"
	"galaxy-maker-server/internal/skeleton"
	"galaxy-maker-server/internal/transition"
	"galaxy-maker-server/internal/view"
)

var (
	logLevel string
	log      *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "galaxyctl",
	Short: "Drill into procedural galaxies from the command line",
	Long: `galaxyctl runs the galaxy drill-down engine without the HTTP server.

It generates a galaxy, zooms through a list of selections, finalizes a
sector and writes the sector file, its star catalog and snapshots to disk.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		log = logger.New(os.Stderr, config.LoggingConfig{Level: logLevel})
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

// newSessions builds the same pipeline the server runs, holding one session.
func newSessions(vp view.Viewport, captures bool) *session.Service {
	var hook capture.Hook = capture.Noop{}
	if captures {
		hook = capture.NewPNGRenderer(log)
	}

	return session.NewService(
		session.Config{
			Viewport:      vp,
			MaxSessions:   1,
			TTL:           time.Hour,
			MaxViewPoints: 4000000,
		},
		skeleton.NewGenerator(log),
		transition.NewEngine(log),
		sector.NewDiscretizer(log),
		catalog.NewSynthesizer(log),
		hook,
		log,
	)
}

// parseRect reads "x,y,w,h". Negative sizes describe a drag toward the origin.
func parseRect(s string) (view.SelectionRect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return view.SelectionRect{}, fmt.Errorf("rect %q: want x,y,w,h", s)
	}

	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return view.SelectionRect{}, fmt.Errorf("rect %q: %w", s, err)
		}
		v[i] = f
	}

	return view.NormalizeRect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}

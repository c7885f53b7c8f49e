package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"mapty/internal/bootstrap"
	workoutoutadapter "mapty/internal/modules/workout/adapter/out"
	"mapty/internal/platform/config"
	apperrors "mapty/internal/platform/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "mapty",
		Short:         "Map your running and cycling workouts from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", defaultDataDir(), "directory holding config, storage, logs and journal")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newAddCmd(&dataDir))
	root.AddCommand(newListCmd(&dataDir))
	root.AddCommand(newLocateCmd(&dataDir))
	root.AddCommand(newWhereCmd(&dataDir))
	root.AddCommand(newResetCmd(&dataDir))
	root.AddCommand(newExportCmd(&dataDir))
	return root
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mapty"
	}
	return filepath.Join(home, ".mapty")
}

// session is a CLI run: the app, its text surface, and a restored list.
type session struct {
	app      *bootstrap.App
	renderer *workoutoutadapter.TextRenderer
}

func openSession(ctx context.Context, dataDir string) (*session, error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	renderer := workoutoutadapter.NewTextRenderer()
	app, err := bootstrap.New(cfg, renderer)
	if err != nil {
		return nil, err
	}
	out, err := app.WorkoutCLI.Restore(ctx)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	if out.Skipped > 0 {
		_, _ = fmt.Fprintf(os.Stderr, "skipped %d unreadable stored workouts\n", out.Skipped)
	}
	return &session{app: app, renderer: renderer}, nil
}

func (s *session) Close() error { return s.app.Close() }

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive map",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.New(*dataDir)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(cfg)
		},
	}
}

func newAddCmd(dataDir *string) *cobra.Command {
	var (
		kind               string
		distance, duration float64
		cadence, elevation float64
		lat, lng           float64
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a workout at a location (defaults to your current position)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, *dataDir)
			if err != nil {
				return err
			}
			defer s.Close()

			if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lng") {
				here, err := s.app.WorkoutCLI.InitMap(ctx)
				if err != nil {
					return fmt.Errorf("no --lat/--lng given and %w", err)
				}
				if !cmd.Flags().Changed("lat") {
					lat = here.Lat
				}
				if !cmd.Flags().Changed("lng") {
					lng = here.Lng
				}
			}
			extra := cadence
			if kind == "cycling" {
				extra = elevation
			}
			out, err := s.app.WorkoutCLI.Add(ctx, lat, lng, kind, distance, duration, extra)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %s\n", workoutoutadapter.FormatWorkout(out.Workout))
			if !out.Persisted {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: not saved: %s\n", out.PersistError)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "type", "running", "workout type: running|cycling")
	cmd.Flags().Float64Var(&distance, "distance", 0, "distance in km")
	cmd.Flags().Float64Var(&duration, "duration", 0, "duration in minutes")
	cmd.Flags().Float64Var(&cadence, "cadence", 0, "running cadence in steps/min")
	cmd.Flags().Float64Var(&elevation, "elevation", 0, "cycling elevation gain in meters")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude")
	_ = cmd.MarkFlagRequired("distance")
	_ = cmd.MarkFlagRequired("duration")
	return cmd
}

func newListCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded workouts, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), *dataDir)
			if err != nil {
				return err
			}
			defer s.Close()
			return s.renderer.WriteList(cmd.OutOrStdout())
		},
	}
}

func newLocateCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "locate <id>",
		Short: "Show where a workout happened",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workoutID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid workout id %q", args[0])
			}
			ctx := cmd.Context()
			s, err := openSession(ctx, *dataDir)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := s.app.WorkoutCLI.InitMap(ctx); err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", err)
			}
			coords, err := s.app.WorkoutCLI.Locate(ctx, workoutID)
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("no workout with id %d", workoutID)
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "workout %d at %.4f,%.4f\n", workoutID, coords.Lat, coords.Lng)
			return s.renderer.WriteView(cmd.OutOrStdout())
		},
	}
}

func newWhereCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "where",
		Short: "Show your current position and nearby workout markers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, *dataDir)
			if err != nil {
				return err
			}
			defer s.Close()
			if _, err := s.app.WorkoutCLI.InitMap(ctx); err != nil {
				return err
			}
			return s.renderer.WriteView(cmd.OutOrStdout())
		},
	}
}

func newResetCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every stored workout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), *dataDir)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.app.WorkoutCLI.Reset(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "all workouts removed")
			return nil
		},
	}
}

func newExportCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write a markdown journal note per workout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), *dataDir)
			if err != nil {
				return err
			}
			defer s.Close()
			out, err := s.app.WorkoutCLI.Export(cmd.Context())
			if err != nil {
				return err
			}
			for _, path := range out.Paths {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
}

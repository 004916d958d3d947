package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/urbansight/urbansight/internal/application/advisor"
	"github.com/urbansight/urbansight/internal/config"
	"github.com/urbansight/urbansight/internal/domain/safety"
	"github.com/urbansight/urbansight/internal/infrastructure/artifact"
	"github.com/urbansight/urbansight/internal/infrastructure/monitoring/logging"
	"github.com/urbansight/urbansight/internal/intelligence/safetynet"
	"github.com/urbansight/urbansight/pkg/errors"
)

func newScoreCommand(newLogger func() logging.Logger) *cobra.Command {
	loc := safety.DefaultFeatures()
	profile := safety.DefaultProfile()
	modelPath := "artifacts/urban_sight_model.json"
	scalerPath := "artifacts/scaler.json"
	latSet := false
	lngSet := false

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a single location against local model artifacts",
		Long:  "Loads the model and scaler artifacts from disk, scores one location, personalizes it for the given traveler profile, and prints the full analysis as JSON. Runs in fallback mode when the artifacts are missing.",
		RunE: func(cmd *cobra.Command, args []string) error {
			latSet = cmd.Flags().Changed("lat")
			lngSet = cmd.Flags().Changed("lng")
			if !latSet || !lngSet {
				return errors.Validation("--lat and --lng are required")
			}
			if profile.GroupSize < 1 {
				return errors.Validation("--group-size must be at least 1")
			}

			logger := newLogger()
			engine := safetynet.Load(cmd.Context(), artifact.NewFileSource(), config.ModelConfig{
				Source:     "file",
				ModelPath:  modelPath,
				ScalerPath: scalerPath,
			}, logger, safetynet.NewNopMetrics())

			svc := advisor.NewService(engine, logger)
			result := svc.Analyze(cmd.Context(), loc, profile)

			buf, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return errors.Wrap(err, errors.CodeInternal, "failed to encode result")
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(buf))
			return nil
		},
	}

	cmd.Flags().Float64Var(&loc.Lat, "lat", 0, "latitude (required)")
	cmd.Flags().Float64Var(&loc.Lng, "lng", 0, "longitude (required)")
	cmd.Flags().IntVar(&loc.Hour, "hour", loc.Hour, "hour of day, -1 for current")
	cmd.Flags().IntVar(&loc.DayOfWeek, "day-of-week", loc.DayOfWeek, "day of week (Monday=0), -1 for current")
	cmd.Flags().Float64Var(&loc.LightingScore, "lighting", loc.LightingScore, "street lighting score [0,10]")
	cmd.Flags().Float64Var(&loc.CrowdDensity, "crowd", loc.CrowdDensity, "crowd density [0,1]")
	cmd.Flags().Float64Var(&loc.HistoricalCrimeIndex, "crime", loc.HistoricalCrimeIndex, "historical crime index [0,1]")
	cmd.Flags().Float64Var(&loc.PoliceDistKm, "police-dist", loc.PoliceDistKm, "distance to nearest police station in km")
	cmd.Flags().IntVar(&loc.IsIsolated, "isolated", loc.IsIsolated, "area isolation flag (0 or 1)")
	cmd.Flags().IntVar(&loc.NearTransit, "transit", loc.NearTransit, "transit proximity flag (0 or 1)")

	cmd.Flags().StringVar(&profile.Mode, "mode", profile.Mode, "travel mode (walking|cycling|driving)")
	cmd.Flags().IntVar(&profile.GroupSize, "group-size", profile.GroupSize, "traveler group size")
	cmd.Flags().BoolVar(&profile.IsNight, "night", profile.IsNight, "traveling at night")
	cmd.Flags().BoolVar(&profile.GenderSensitive, "gender-sensitive", profile.GenderSensitive, "apply gender-sensitive adjustments")

	cmd.Flags().StringVar(&modelPath, "model", modelPath, "model artifact path")
	cmd.Flags().StringVar(&scalerPath, "scaler", scalerPath, "scaler artifact path")
	return cmd
}

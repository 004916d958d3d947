package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/urbansight/urbansight/internal/dataset"
	"github.com/urbansight/urbansight/pkg/errors"
)

func newTrainCommand() *cobra.Command {
	cfg := dataset.DefaultTrainConfig()
	data := "safety_data.csv"
	modelOut := "artifacts/urban_sight_model.json"
	scalerOut := "artifacts/scaler.json"

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the safety model from a CSV dataset",
		Long:  "Trains the random-forest safety regressor and its feature scaler on a dataset produced by the dataset command, reports held-out metrics, and writes both artifacts as JSON.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(data)
			if err != nil {
				return errors.Wrap(err, errors.CodeDatasetInvalid, "failed to open dataset")
			}
			rows, err := dataset.ReadCSV(f)
			f.Close()
			if err != nil {
				return err
			}

			result, err := dataset.Train(rows, cfg)
			if err != nil {
				return err
			}

			if err := writeArtifact(modelOut, result.Model); err != nil {
				return err
			}
			if err := writeArtifact(scalerOut, result.Scaler); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "trained %d trees on %d rows\n", cfg.Trees, len(rows))
			fmt.Fprintf(out, "MAE:  %.4f\nRMSE: %.4f\nR2:   %.4f\n",
				result.Eval.MAE, result.Eval.RMSE, result.Eval.R2)

			names := make([]string, 0, len(result.Importances))
			for name := range result.Importances {
				names = append(names, name)
			}
			sort.Slice(names, func(i, j int) bool {
				return result.Importances[names[i]] > result.Importances[names[j]]
			})
			fmt.Fprintln(out, "feature importances:")
			for _, name := range names {
				fmt.Fprintf(out, "  %-24s %.4f\n", name, result.Importances[name])
			}

			fmt.Fprintf(out, "model:  %s\nscaler: %s\n", modelOut, scalerOut)
			return nil
		},
	}

	cmd.Flags().StringVar(&data, "data", data, "input dataset CSV path")
	cmd.Flags().IntVar(&cfg.Trees, "trees", cfg.Trees, "number of trees in the forest")
	cmd.Flags().IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "maximum tree depth")
	cmd.Flags().IntVar(&cfg.MinLeafSize, "min-leaf", cfg.MinLeafSize, "minimum samples per leaf")
	cmd.Flags().Float64Var(&cfg.TestFraction, "test-fraction", cfg.TestFraction, "held-out evaluation fraction")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	cmd.Flags().StringVar(&modelOut, "model-out", modelOut, "model artifact output path")
	cmd.Flags().StringVar(&scalerOut, "scaler-out", scalerOut, "scaler artifact output path")
	return cmd
}

func writeArtifact(path string, v interface{}) error {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to encode artifact")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "failed to create artifact directory")
		}
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to write artifact")
	}
	return nil
}

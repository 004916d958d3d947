package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/urbansight/urbansight/internal/dataset"
	"github.com/urbansight/urbansight/pkg/errors"
)

func newDatasetCommand() *cobra.Command {
	cfg := dataset.DefaultGenerateConfig()
	out := "safety_data.csv"

	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Generate a synthetic training dataset",
		Long:  "Generates labelled synthetic safety samples over the Bengaluru bounding box and writes them as CSV. Output is deterministic for a given seed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := dataset.Generate(cfg)

			w := os.Stdout
			if out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return errors.Wrap(err, errors.CodeInternal, "failed to create output file")
				}
				defer f.Close()
				w = f
			}
			if err := dataset.WriteCSV(w, rows); err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", len(rows), out)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&cfg.Rows, "rows", cfg.Rows, "number of samples to generate")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	cmd.Flags().StringVar(&out, "out", out, "output CSV path, or - for stdout")
	return cmd
}

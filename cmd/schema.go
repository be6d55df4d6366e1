package cmd

import (
	"fmt"
	"os"
	"time"

	"db-diff/internal/diff"
	"db-diff/internal/validation"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var diffFormat string

var schemaCmd = &cobra.Command{
	Use:   "schema <diff-report>",
	Short: "Compare the structure of the source and target schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if diffFormat != diff.FormatJSON && diffFormat != diff.FormatYAML {
			return fmt.Errorf("unsupported --format %q (json or yaml)", diffFormat)
		}

		ctx := cmd.Context()
		start := time.Now()

		sourceConn, targetConn, err := connect(ctx)
		if err != nil {
			return err
		}
		defer sourceConn.Close()
		defer targetConn.Close()

		source, target := stores(sourceConn, targetConn)
		if err := introspect(ctx, validation.NewPool(validation.PoolSize), source, target); err != nil {
			return err
		}

		d := diff.New(source.Snapshot, target.Snapshot)

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("failed to create diff report: %w", err)
		}
		if err := d.WriteDocument(f, diffFormat); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write diff report: %w", err)
		}

		for _, c := range d.Counts() {
			entry := log.WithField("count", c.Count)
			if c.Count > 0 {
				entry.Warn(c.Label)
			} else {
				entry.Info(c.Label)
			}
		}

		log.WithFields(logrus.Fields{
			"report":    args[0],
			"identical": d.Empty(),
			"elapsed":   formatElapsed(time.Since(start)),
		}).Info("Schema comparison completed")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().StringVar(&diffFormat, "format", diff.FormatJSON, "diff report format (json or yaml)")
}

package cmd

import (
	"time"

	"db-diff/internal/recordcount"
	"db-diff/internal/validation"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var recordCountCmd = &cobra.Command{
	Use:   "recordcount",
	Short: "Compare the number of rows of every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		start := time.Now()

		sourceConn, targetConn, err := connect(ctx)
		if err != nil {
			return err
		}
		defer sourceConn.Close()
		defer targetConn.Close()

		source, target := stores(sourceConn, targetConn)
		results, err := recordcount.Run(ctx, validation.NewPool(validation.PoolSize), source, target)
		if err != nil {
			return err
		}

		mismatches := 0
		for _, r := range results {
			entry := log.WithFields(logrus.Fields{
				"table":  r.Table,
				"source": r.SourceCount(),
				"target": r.TargetCount(),
			})
			switch r.Status() {
			case recordcount.StatusOK:
				entry.Info(r.Status())
			case recordcount.StatusWarning:
				mismatches++
				entry.Warn(r.Status())
			default:
				mismatches++
				entry.Error(r.Status())
			}
		}

		log.WithFields(logrus.Fields{
			"tables":        len(results),
			"mismatches":    mismatches,
			"source_schema": source.Schema,
			"target_schema": target.Schema,
			"elapsed":       formatElapsed(time.Since(start)),
		}).Info("Record count comparison completed")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(recordCountCmd)
}

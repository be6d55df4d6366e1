package cmd

import (
	"time"

	"db-diff/internal/report"
	"db-diff/internal/validation"

	"github.com/gosuri/uiprogress"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var dataCmd = &cobra.Command{
	Use:   "data <report>",
	Short: "Compare the data of every source table with the target",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		start := time.Now()

		sourceConn, targetConn, err := connect(ctx)
		if err != nil {
			return err
		}
		defer sourceConn.Close()
		defer targetConn.Close()

		pool := validation.NewPool(validation.PoolSize)
		source, target := stores(sourceConn, targetConn)
		if err := introspect(ctx, pool, source, target); err != nil {
			return err
		}

		trace, err := report.Create(args[0])
		if err != nil {
			return err
		}
		defer trace.Close()

		log.WithField("tables", len(source.Snapshot.Tables)).Info("Going to compare tables...")

		uiprogress.Start()
		bar := uiprogress.AddBar(len(source.Snapshot.Tables)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Comparing: "
		})

		engine := validation.NewEngine(source, target, pool, trace, log)
		engine.OnTable = func(string) { bar.Incr() }

		stats, err := engine.Validate(ctx)
		uiprogress.Stop()
		if err != nil {
			return err
		}
		if err := trace.Close(); err != nil {
			return err
		}

		log.WithFields(logrus.Fields{
			"tables":                 stats.Tables,
			"successful_tables":      stats.SuccessfulTables(),
			"failed_tables":          stats.FailedTables,
			"validations":            stats.Validations,
			"successful_validations": stats.SuccessfulValidations(),
			"failed_validations":     stats.FailedValidations,
			"report":                 args[0],
			"elapsed":                formatElapsed(time.Since(start)),
		}).Info("Data comparison completed")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(dataCmd)
}

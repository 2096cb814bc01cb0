package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/webskin/iiot-go-cli/internal/output"
	"github.com/webskin/iiot-go-cli/internal/platform"
	"github.com/webskin/iiot-go-cli/internal/progress"
)

var (
	// Metric query flags
	metricStart       string
	metricEnd         string
	metricSince       time.Duration
	metricAggregate   string
	metricGranularity string
	metricLimit       int
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Inspect metrics",
	Long:  `Inspect metric definitions and query their datapoints.`,
}

var metricsListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List metrics",
	Annotations: map[string]string{"route": "GET /api/v1/projects/:project/metrics"},
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		ctx := context.Background()

		if getOutputFormat() != output.Table {
			page, err := platform.ListMetrics(client, ctx, listOptions(), platform.Identity)
			if err != nil {
				return err
			}
			return printPage(cmd, page)
		}

		page, err := platform.ListMetrics(client, ctx, listOptions(), platform.ParseMetric)
		if err != nil {
			return err
		}
		return printPage(cmd, page)
	},
}

var metricsQueryCmd = &cobra.Command{
	Use:         "query <metric-id>",
	Short:       "Query datapoints of a metric",
	Annotations: map[string]string{"route": "POST /api/v1/projects/:project/metrics/:id/query"},
	Long: `Query datapoints of a metric over a time range.

The range is either --since (relative to now) or --start and --end.

Examples:
  iiot metrics query spindle-temp --since 1h --aggregate average --granularity 1m
  iiot metrics query spindle-temp --start 2024-05-06T00:00:00Z --end 2024-05-07T00:00:00Z -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := metricQueryFromFlags(time.Now().UTC())
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		ctx := context.Background()

		if getOutputFormat() != output.Table {
			raw, err := platform.QueryMetric(client, ctx, args[0], query, platform.Identity)
			if err != nil {
				return err
			}
			return output.PrintTo(cmd.OutOrStdout(), raw, getOutputFormat())
		}

		var series *platform.MetricSeries
		err = progress.Run(cmd.ErrOrStderr(), "Querying "+args[0], func() error {
			series, err = platform.QueryMetric(client, ctx, args[0], query, platform.ParseMetricSeries)
			return err
		})
		if err != nil {
			return err
		}
		return output.PrintTo(cmd.OutOrStdout(), series.Datapoints, output.Table)
	},
}

// metricQueryFromFlags resolves the query time range against now
func metricQueryFromFlags(now time.Time) (platform.MetricQuery, error) {
	query := platform.MetricQuery{
		Aggregate:   metricAggregate,
		Granularity: metricGranularity,
		Limit:       metricLimit,
	}

	if metricSince > 0 {
		if metricStart != "" {
			return query, fmt.Errorf("--since and --start cannot be used together")
		}
		query.Start = now.Add(-metricSince)
		query.End = now
		return query, nil
	}

	start, err := parseOptionalTime("start", metricStart)
	if err != nil {
		return query, err
	}
	if start == nil {
		return query, fmt.Errorf("a time range is required (use --since or --start)")
	}
	query.Start = *start

	end, err := parseOptionalTime("end", metricEnd)
	if err != nil {
		return query, err
	}
	query.End = now
	if end != nil {
		query.End = *end
	}
	if !query.End.After(query.Start) {
		return query, fmt.Errorf("--end must be after --start")
	}
	return query, nil
}

func init() {
	rootCmd.AddCommand(metricsCmd)
	metricsCmd.AddCommand(metricsListCmd)
	metricsCmd.AddCommand(metricsQueryCmd)

	addListFlags(metricsListCmd)

	metricsQueryCmd.Flags().StringVar(&metricStart, "start", "", "Start of the range (RFC 3339)")
	metricsQueryCmd.Flags().StringVar(&metricEnd, "end", "", "End of the range (RFC 3339, default: now)")
	metricsQueryCmd.Flags().DurationVar(&metricSince, "since", 0, "Range ending now, e.g. 15m or 24h")
	metricsQueryCmd.Flags().StringVar(&metricAggregate, "aggregate", "", "Aggregate function (e.g. average, max)")
	metricsQueryCmd.Flags().StringVar(&metricGranularity, "granularity", "", "Aggregation window (e.g. 1m, 1h)")
	metricsQueryCmd.Flags().IntVar(&metricLimit, "limit", 0, "Maximum number of datapoints")
	metricsQueryCmd.ValidArgsFunction = completeMetricIDs
}

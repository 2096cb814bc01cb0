package cmd

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/webskin/iiot-go-cli/internal/platform"
)

// completionTimeout is the maximum time to wait for API responses during completion
const completionTimeout = 5 * time.Second

// completionPageSize bounds how many candidates one completion fetches
const completionPageSize = 100

// Completer handles shell completion with injectable dependencies for testing.
type Completer struct {
	// LoadConfig loads the completion configuration.
	// Returns nil if config cannot be loaded.
	LoadConfig func() *platform.Config

	// ListAssets fetches a page of assets from the API.
	ListAssets func(cfg *platform.Config, ctx context.Context) ([]platform.Asset, error)

	// ListMetrics fetches a page of metrics from the API.
	ListMetrics func(cfg *platform.Config, ctx context.Context) ([]platform.Metric, error)

	// Timeout for API calls. Defaults to completionTimeout if zero.
	Timeout time.Duration
}

// defaultCompleter is the production completer with real implementations.
var defaultCompleter = &Completer{
	LoadConfig:  loadCompletionConfig,
	ListAssets:  listAssetsAPI,
	ListMetrics: listMetricsAPI,
	Timeout:     completionTimeout,
}

func listAssetsAPI(cfg *platform.Config, ctx context.Context) ([]platform.Asset, error) {
	client, err := platform.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	page, err := platform.ListAssets(client, ctx, &platform.ListOptions{Limit: completionPageSize}, platform.ParseAsset)
	return page.Records, err
}

func listMetricsAPI(cfg *platform.Config, ctx context.Context) ([]platform.Metric, error) {
	client, err := platform.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	page, err := platform.ListMetrics(client, ctx, &platform.ListOptions{Limit: completionPageSize}, platform.ParseMetric)
	return page.Records, err
}

// getTimeout returns the configured timeout or the default.
func (c *Completer) getTimeout() time.Duration {
	if c.Timeout == 0 {
		return completionTimeout
	}
	return c.Timeout
}

// CompleteAssetIDs provides dynamic completion for asset ids.
// Ids already on the command line are not offered again.
// Fails silently if the config is incomplete or the API is unreachable.
func (c *Completer) CompleteAssetIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg := c.LoadConfig()
	if cfg == nil || cfg.Validate() != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.getTimeout())
	defer cancel()

	assets, err := c.ListAssets(cfg, ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var candidates []platform.Asset
	for _, a := range assets {
		if !slices.Contains(args, a.ID) {
			candidates = append(candidates, a)
		}
	}
	return buildCompletions(candidates, toComplete,
		func(a platform.Asset) string { return a.ID },
		func(a platform.Asset) string { return a.Name },
	), cobra.ShellCompDirectiveNoFileComp
}

// CompleteMetricIDs provides dynamic completion for a metric id argument.
func (c *Completer) CompleteMetricIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Only complete the first argument
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	cfg := c.LoadConfig()
	if cfg == nil || cfg.Validate() != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.getTimeout())
	defer cancel()

	metrics, err := c.ListMetrics(cfg, ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	return buildCompletions(metrics, toComplete,
		func(m platform.Metric) string { return m.ID },
		func(m platform.Metric) string { return m.Name },
	), cobra.ShellCompDirectiveNoFileComp
}

// buildCompletions filters items by prefix and formats them for shell completion.
// Uses tab-separated format "name\tdescription" when description is available.
func buildCompletions[T any](items []T, toComplete string, getName func(T) string, getDesc func(T) string) []string {
	var completions []string
	for _, item := range items {
		name := getName(item)
		if toComplete == "" || strings.HasPrefix(strings.ToLower(name), strings.ToLower(toComplete)) {
			if desc := getDesc(item); desc != "" {
				completions = append(completions, name+"\t"+desc)
			} else {
				completions = append(completions, name)
			}
		}
	}
	return completions
}

func completeAssetIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return defaultCompleter.CompleteAssetIDs(cmd, args, toComplete)
}

func completeMetricIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return defaultCompleter.CompleteMetricIDs(cmd, args, toComplete)
}

// loadCompletionConfig loads configuration for completion functions.
// Returns nil if config cannot be loaded (completions will be empty).
func loadCompletionConfig() *platform.Config {
	cfg, err := platform.LoadConfig(cfgFile)
	if err != nil {
		return nil
	}

	cfg.MergeWithFlags(platform.FlagValues{
		BaseURL:            baseURL,
		Token:              token,
		Project:            project,
		Timeout:            timeout,
		InsecureSkipVerify: insecureSkipVerify,
	})
	return cfg
}

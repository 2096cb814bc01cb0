package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/webskin/iiot-go-cli/internal/output"
	"github.com/webskin/iiot-go-cli/internal/platform"
)

var (
	// Event list flags
	eventsAssetID   string
	eventsType      string
	eventsStartFrom string
	eventsStartTo   string

	// Event create flags
	eventType        string
	eventSubtype     string
	eventDescription string
	eventSource      string
	eventAssetIDs    []string
	eventStart       string
	eventEnd         string
	eventData        string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Manage events",
	Long:  `Manage events: alarms, stops, maintenance and other things that happen to assets over a time span.`,
}

var eventsListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List events",
	Annotations: map[string]string{"route": "GET /api/v1/projects/:project/events"},
	Long: `List events, optionally filtered by asset, type and start time.

Examples:
  iiot events list --asset-id press-4 --type alarm
  iiot events list --start-from 2024-05-01T00:00:00Z --limit 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := eventFilterFromFlags()
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		ctx := context.Background()

		if getOutputFormat() != output.Table {
			page, err := platform.ListEvents(client, ctx, filter, platform.Identity)
			if err != nil {
				return err
			}
			return printPage(cmd, page)
		}

		page, err := platform.ListEvents(client, ctx, filter, platform.ParseEvent)
		if err != nil {
			return err
		}
		return printPage(cmd, page)
	},
}

var eventsCreateCmd = &cobra.Command{
	Use:         "create",
	Short:       "Record an event",
	Annotations: map[string]string{"route": "POST /api/v1/projects/:project/events"},
	Long: `Record an event from flags or from a JSON document.

Examples:
  iiot events create --type stop --asset-ids press-4 --start 2024-05-06T07:00:00Z
  iiot events create --data @event.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var input platform.EventInput
		if cmd.Flags().Changed("data") {
			if err := parseJSONData(cmd, eventData, &input); err != nil {
				return err
			}
		}
		if err := applyEventFlags(cmd, &input); err != nil {
			return err
		}
		if input.Type == "" {
			return fmt.Errorf("event type is required (use --type or --data)")
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		created, err := platform.CreateEvent(client, context.Background(), input, platform.Identity)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.ErrOrStderr(), "Event created successfully")
		return output.PrintTo(cmd.OutOrStdout(), created, getOutputFormat())
	},
}

// eventFilterFromFlags builds the list filter, or nil when nothing is set
func eventFilterFromFlags() (*platform.EventFilter, error) {
	filter := &platform.EventFilter{
		AssetID: eventsAssetID,
		Type:    eventsType,
	}
	if opts := listOptions(); opts != nil {
		filter.ListOptions = *opts
	}

	var err error
	if filter.StartFrom, err = parseOptionalTime("start-from", eventsStartFrom); err != nil {
		return nil, err
	}
	if filter.StartTo, err = parseOptionalTime("start-to", eventsStartTo); err != nil {
		return nil, err
	}

	if *filter == (platform.EventFilter{}) {
		return nil, nil
	}
	return filter, nil
}

// applyEventFlags overrides fields of input with the flags that were set
func applyEventFlags(cmd *cobra.Command, input *platform.EventInput) error {
	flags := cmd.Flags()
	if flags.Changed("type") {
		input.Type = eventType
	}
	if flags.Changed("subtype") {
		input.Subtype = eventSubtype
	}
	if flags.Changed("description") {
		input.Description = eventDescription
	}
	if flags.Changed("source") {
		input.Source = eventSource
	}
	if flags.Changed("asset-ids") {
		input.AssetIDs = eventAssetIDs
	}
	if flags.Changed("start") {
		start, err := parseOptionalTime("start", eventStart)
		if err != nil {
			return err
		}
		if start != nil {
			input.StartTime = *start
		}
	}
	if flags.Changed("end") {
		end, err := parseOptionalTime("end", eventEnd)
		if err != nil {
			return err
		}
		input.EndTime = end
	}
	if input.StartTime.IsZero() {
		input.StartTime = time.Now().UTC()
	}
	return nil
}

// parseOptionalTime parses an RFC 3339 flag value; empty gives nil
func parseOptionalTime(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: expected RFC 3339 time such as 2024-05-06T07:08:09Z", flag, value)
	}
	return &t, nil
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsCreateCmd)

	addListFlags(eventsListCmd)
	eventsListCmd.Flags().StringVar(&eventsAssetID, "asset-id", "", "Only events attached to this asset")
	eventsListCmd.Flags().StringVar(&eventsType, "type", "", "Only events of this type")
	eventsListCmd.Flags().StringVar(&eventsStartFrom, "start-from", "", "Only events starting at or after this time (RFC 3339)")
	eventsListCmd.Flags().StringVar(&eventsStartTo, "start-to", "", "Only events starting before this time (RFC 3339)")
	eventsListCmd.RegisterFlagCompletionFunc("asset-id", completeAssetIDs)

	eventsCreateCmd.Flags().StringVar(&eventType, "type", "", "Event type (e.g. alarm, stop, maintenance)")
	eventsCreateCmd.Flags().StringVar(&eventSubtype, "subtype", "", "Event subtype")
	eventsCreateCmd.Flags().StringVar(&eventDescription, "description", "", "Event description")
	eventsCreateCmd.Flags().StringVar(&eventSource, "source", "", "System that produced the event")
	eventsCreateCmd.Flags().StringSliceVar(&eventAssetIDs, "asset-ids", nil, "Assets the event is attached to")
	eventsCreateCmd.Flags().StringVar(&eventStart, "start", "", "Start time (RFC 3339, default: now)")
	eventsCreateCmd.Flags().StringVar(&eventEnd, "end", "", "End time (RFC 3339)")
	eventsCreateCmd.Flags().StringVar(&eventData, "data", "", "JSON event data (inline, @file or - for stdin)")
	eventsCreateCmd.RegisterFlagCompletionFunc("asset-ids", completeAssetIDs)
}

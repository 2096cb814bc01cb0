package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	errmsg "github.com/webskin/iiot-go-cli/internal/errors"
	"github.com/webskin/iiot-go-cli/internal/output"
	"github.com/webskin/iiot-go-cli/internal/paging"
	"github.com/webskin/iiot-go-cli/internal/platform"
)

// Shared paging flags of the list commands
var (
	listOffset int
	listLimit  int
)

// addListFlags registers --offset and --limit on a list command
func addListFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&listOffset, "offset", 0, "Index of the first record to return")
	cmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of records to return (default: server-side)")
}

// listOptions returns the paging options set on the command line, or nil
// to use the server defaults
func listOptions() *platform.ListOptions {
	if listOffset == 0 && listLimit == 0 {
		return nil
	}
	return &platform.ListOptions{Offset: listOffset, Limit: listLimit}
}

// printPage prints a page. Tables show the records followed by a position
// footer on stderr; json and yaml show the whole page.
func printPage[T any](cmd *cobra.Command, page paging.Page[T]) error {
	format := getOutputFormat()
	if format != output.Table {
		return output.PrintTo(cmd.OutOrStdout(), page, format)
	}

	if err := output.PrintTo(cmd.OutOrStdout(), page.Records, format); err != nil {
		return err
	}

	count := len(page.Records)
	if count == 0 {
		return nil
	}
	footer := fmt.Sprintf("Showing %d-%d of %d", page.Metadata.Offset+1, page.Metadata.NextOffset(count), page.Metadata.TotalRecords)
	if page.Metadata.HasMore(count) {
		footer += fmt.Sprintf(" (next page: --offset %d)", page.Metadata.NextOffset(count))
	}
	color.New(color.Faint).Fprintln(cmd.ErrOrStderr(), footer)
	return nil
}

// readInput reads a whole input: stdin for "" or "-", else the named file
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("%s: stdin: %w", errmsg.MsgFailedToReadInput, err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.MsgFailedToReadInput, err)
	}
	return data, nil
}

// parseJSONData parses JSON data from a file (@path), stdin (-), or string
func parseJSONData(cmd *cobra.Command, dataStr string, target interface{}) error {
	var data []byte
	var err error

	if dataStr == "-" {
		data, err = readInput(cmd, dataStr)
	} else if len(dataStr) > 0 && dataStr[0] == '@' {
		data, err = readInput(cmd, dataStr[1:])
	} else {
		// Use string directly
		data = []byte(dataStr)
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

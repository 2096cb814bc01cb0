package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/webskin/iiot-go-cli/internal/casing"
	"github.com/webskin/iiot-go-cli/internal/output"
	"github.com/webskin/iiot-go-cli/internal/paging"
)

var (
	// Convert flags
	convertDeep             bool
	convertExcludeKeys      []string
	convertExcludeTransform []string
	convertCamelRecords     bool
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Reshape JSON payloads offline",
	Long: `Reshape JSON payloads without contacting the platform.

Inputs are JSON objects or arrays read from files, or from stdin when no
file is given. Results are printed as JSON (or YAML with -o yaml).`,
}

var convertCamelCmd = &cobra.Command{
	Use:   "camel [files...]",
	Short: "Convert object keys to camelCase",
	Long: `Convert the keys of JSON objects to camelCase.

Examples:
  echo '{"asset_id": 1, "meta_data": {"a_b": 2}}' | iiot convert camel
  iiot convert camel a.json b.json --deep=false
  iiot convert camel payload.json --exclude-keys secret --exclude-transform metadata`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, args, casing.Camel)
	},
}

var convertSnakeCmd = &cobra.Command{
	Use:   "snake [files...]",
	Short: "Convert object keys to snake_case",
	Long: `Convert the keys of JSON objects to snake_case.

Examples:
  echo '{"assetId": 1}' | iiot convert snake
  iiot convert snake request.json --exclude-transform metadata`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, args, casing.Snake)
	},
}

var convertPageCmd = &cobra.Command{
	Use:   "page [file]",
	Short: "Normalize a server page envelope",
	Long: `Rename the "_metadata" field of a server list response to "metadata".

Records are passed through unchanged unless --camel is set.

Example:
  curl -s "$URL/api/v1/projects/p/assets" | iiot convert page --camel`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		data, err := readInput(cmd, name)
		if err != nil {
			return err
		}

		var serverPage paging.ServerPage[json.RawMessage]
		if err := json.Unmarshal(data, &serverPage); err != nil {
			return fmt.Errorf("failed to parse page: %w", err)
		}
		page := paging.FormatPaginatedDataFromServer(serverPage)

		if !convertCamelRecords {
			return output.PrintTo(cmd.OutOrStdout(), page, convertFormat())
		}

		converted, err := paging.MapRecords(page, func(raw json.RawMessage) (any, error) {
			node, err := casing.ParseJSON(raw)
			if err != nil {
				return nil, err
			}
			if obj, ok := node.(*casing.Object); ok {
				return casing.Camel.Object(obj), nil
			}
			return node, nil
		})
		if err != nil {
			return fmt.Errorf("failed to convert records: %w", err)
		}
		return output.PrintTo(cmd.OutOrStdout(), converted, convertFormat())
	},
}

// runConvert converts every input with conv. A bad input does not stop the
// others; all failures are reported together.
func runConvert(cmd *cobra.Command, args []string, conv *casing.Converter) error {
	opts := []casing.Option{
		casing.WithDeep(convertDeep),
		casing.WithExcludeKeys(convertExcludeKeys...),
		casing.WithExcludeTransform(convertExcludeTransform...),
	}

	inputs := args
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	var result *multierror.Error
	for _, name := range inputs {
		converted, err := convertInput(cmd, name, conv, opts)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if err := output.PrintTo(cmd.OutOrStdout(), converted, convertFormat()); err != nil {
			return err
		}
	}
	return result.ErrorOrNil()
}

func convertInput(cmd *cobra.Command, name string, conv *casing.Converter, opts []casing.Option) (any, error) {
	data, err := readInput(cmd, name)
	if err != nil {
		return nil, err
	}
	node, err := casing.ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return conv.Convert(node, opts...)
}

// convertFormat is JSON unless YAML was asked for
func convertFormat() output.Format {
	if outputFormat == string(output.YAML) {
		return output.YAML
	}
	return output.JSON
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.AddCommand(convertCamelCmd)
	convertCmd.AddCommand(convertSnakeCmd)
	convertCmd.AddCommand(convertPageCmd)

	for _, c := range []*cobra.Command{convertCamelCmd, convertSnakeCmd} {
		c.Flags().BoolVar(&convertDeep, "deep", true, "Convert keys of nested objects too")
		c.Flags().StringSliceVar(&convertExcludeKeys, "exclude-keys", nil, "Keys to drop from the output")
		c.Flags().StringSliceVar(&convertExcludeTransform, "exclude-transform", nil, "Keys to keep with their original spelling")
	}
	convertPageCmd.Flags().BoolVar(&convertCamelRecords, "camel", false, "Also convert record keys to camelCase")
}

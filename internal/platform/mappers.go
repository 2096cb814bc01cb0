package platform

import (
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/webskin/iiot-go-cli/internal/casing"
)

// Mapper transforms a camelCased response tree into a typed result.
// The node is an *casing.Object for single resources and page records.
type Mapper[T any] func(node any) (T, error)

// Identity returns the tree unchanged. It keeps the server's key order,
// which makes it the mapper of choice for raw JSON/YAML output.
func Identity(node any) (any, error) { return node, nil }

// Decode builds a mapper that decodes the tree into T, matching keys
// against the json tags of T. RFC 3339 strings decode into time.Time.
func Decode[T any]() Mapper[T] {
	return func(node any) (T, error) {
		var out T
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:    "json",
			Result:     &out,
			DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339),
		})
		if err != nil {
			return out, err
		}
		err = decoder.Decode(casing.ToPlain(node))
		return out, err
	}
}

// DecodePtr is Decode for single objects returned as pointers
func DecodePtr[T any]() Mapper[*T] {
	decode := Decode[T]()
	return func(node any) (*T, error) {
		out, err := decode(node)
		if err != nil {
			return nil, err
		}
		return &out, nil
	}
}

var (
	ParseAsset        = Decode[Asset]()
	ParseAssetPtr     = DecodePtr[Asset]()
	ParseEvent        = Decode[Event]()
	ParseFile         = Decode[File]()
	ParseFilePtr      = DecodePtr[File]()
	ParseUser         = Decode[User]()
	ParseUserPtr      = DecodePtr[User]()
	ParseMetric       = Decode[Metric]()
	ParseMetricSeries = DecodePtr[MetricSeries]()
)

package pulsarproducer

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
)

// dateTimeLayouts are tried in order when parsing deliverAt and eventTime.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

type rawProperty struct {
	Key   string `mapstructure:"key"`
	Value string `mapstructure:"value"`
}

type rawPropertyList struct {
	Property []rawProperty `mapstructure:"property"`
}

type rawCluster struct {
	ClusterName string `mapstructure:"clusterName"`
}

type rawClusterList struct {
	Items []rawCluster `mapstructure:"items"`
}

type rawMessageOptions struct {
	DeliverAt           string          `mapstructure:"deliverAt"`
	DeliverAfter        *int64          `mapstructure:"deliverAfter"`
	EventTime           string          `mapstructure:"eventTime"`
	Key                 string          `mapstructure:"key"`
	OrderingKey         string          `mapstructure:"orderingKey"`
	SequenceID          string          `mapstructure:"sequenceId"`
	Properties          rawPropertyList `mapstructure:"properties"`
	ReplicationClusters rawClusterList  `mapstructure:"replicationClusters"`
}

type rawProducerOptions struct {
	Name       string          `mapstructure:"name"`
	Timeout    *int            `mapstructure:"timeout"`
	Properties rawPropertyList `mapstructure:"properties"`
}

// BuildMessageOptions decodes raw message options. Absent options stay unset;
// empty property and cluster lists are dropped.
func BuildMessageOptions(raw map[string]interface{}) (MessageOptions, error) {
	var r rawMessageOptions
	if err := decodeOptions(raw, &r); err != nil {
		return MessageOptions{}, fmt.Errorf("decoding message options: %w", err)
	}

	opts := MessageOptions{
		DeliverAfter:        r.DeliverAfter,
		Key:                 r.Key,
		OrderingKey:         r.OrderingKey,
		Properties:          foldProperties(r.Properties.Property),
		ReplicationClusters: foldClusters(r.ReplicationClusters.Items),
	}

	var err error
	if opts.DeliverAt, err = parseDateTime("deliverAt", r.DeliverAt); err != nil {
		return MessageOptions{}, err
	}
	if opts.EventTime, err = parseDateTime("eventTime", r.EventTime); err != nil {
		return MessageOptions{}, err
	}
	if r.SequenceID != "" {
		seq, err := strconv.ParseInt(r.SequenceID, 10, 64)
		if err != nil {
			return MessageOptions{}, fmt.Errorf("invalid sequenceId %q: must be an integer", r.SequenceID)
		}
		opts.SequenceID = &seq
	}

	return opts, nil
}

// BuildProducerOptions decodes raw producer options. Producer properties are
// exposed as producer-properties.
func BuildProducerOptions(raw map[string]interface{}) (ProducerOptions, error) {
	var r rawProducerOptions
	if err := decodeOptions(raw, &r); err != nil {
		return ProducerOptions{}, fmt.Errorf("decoding producer options: %w", err)
	}
	if r.Timeout != nil && *r.Timeout < 0 {
		return ProducerOptions{}, fmt.Errorf("timeout must not be negative, got %d", *r.Timeout)
	}

	return ProducerOptions{
		Name:               r.Name,
		Timeout:            r.Timeout,
		ProducerProperties: foldProperties(r.Properties.Property),
	}, nil
}

// MergeOptions combines message and producer options into one set. The two
// shapes share no fields; producer options would win on any overlap.
func MergeOptions(msg MessageOptions, producer ProducerOptions) PublishOptions {
	return PublishOptions{
		MessageOptions:  msg,
		ProducerOptions: producer,
	}
}

// mergeRawOptions shallow-merges raw option maps, later maps winning.
func mergeRawOptions(sets ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, set := range sets {
		for k, v := range set {
			out[k] = v
		}
	}
	return out
}

// foldProperties folds key/value pairs into a map, later pairs overwriting
// earlier ones. It returns nil when there are no pairs.
func foldProperties(props []rawProperty) map[string]string {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]string, len(props))
	for _, p := range props {
		out[p.Key] = p.Value
	}
	return out
}

func foldClusters(items []rawCluster) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ClusterName)
	}
	return out
}

func decodeOptions(raw map[string]interface{}, result interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           result,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

func parseDateTime(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%s: cannot parse %q as a date-time", field, value)
}

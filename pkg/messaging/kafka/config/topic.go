package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDestination splits "topic[:partition]". A partition suffix that is not a non-negative
// 32-bit integer is dropped: the destination is still returned, with a nil Partition, together
// with a warning error describing the ignored suffix.
func ParseDestination(value string) (Destination, error) {
	topic, suffix, hasPartition := strings.Cut(value, ":")
	dest := Destination{Topic: strings.TrimSpace(topic)}
	if !hasPartition {
		return dest, nil
	}

	partition, err := strconv.ParseInt(strings.TrimSpace(suffix), 10, 32)
	if err != nil || partition < 0 {
		return dest, fmt.Errorf("invalid partition value %q, using unassigned partition", suffix)
	}

	p := int32(partition)
	dest.Partition = &p
	return dest, nil
}

// String formats the destination as "topic" or "topic:partition".
func (d Destination) String() string {
	if d.Partition == nil {
		return d.Topic
	}
	return fmt.Sprintf("%s:%d", d.Topic, *d.Partition)
}

// BrokerList returns the trimmed broker addresses.
func (c Config) BrokerList() []string {
	brokers := strings.Split(c.Brokers, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}
	return brokers
}

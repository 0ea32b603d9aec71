package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDestination(t *testing.T) {
	tests := []struct {
		name          string
		value         string
		wantTopic     string
		wantPartition *int32
		wantWarning   bool
	}{
		{name: "topic only", value: "logs", wantTopic: "logs"},
		{name: "topic with partition", value: "logs:2", wantTopic: "logs", wantPartition: ptr(int32(2))},
		{name: "partition zero", value: "logs:0", wantTopic: "logs", wantPartition: ptr(int32(0))},
		{name: "surrounding whitespace", value: " logs : 7 ", wantTopic: "logs", wantPartition: ptr(int32(7))},
		{name: "non-numeric partition", value: "logs:abc", wantTopic: "logs", wantWarning: true},
		{name: "negative partition", value: "logs:-1", wantTopic: "logs", wantWarning: true},
		{name: "empty partition", value: "logs:", wantTopic: "logs", wantWarning: true},
		{name: "partition out of range", value: "logs:4294967296", wantTopic: "logs", wantWarning: true},
		{name: "extra separator", value: "logs:1:2", wantTopic: "logs", wantWarning: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest, warn := ParseDestination(tt.value)

			if tt.wantWarning {
				require.Error(t, warn)
				assert.Contains(t, warn.Error(), "invalid partition value")
			} else {
				require.NoError(t, warn)
			}
			assert.Equal(t, tt.wantTopic, dest.Topic)
			assert.Equal(t, tt.wantPartition, dest.Partition)
		})
	}
}

func TestDestination_String(t *testing.T) {
	assert.Equal(t, "logs", Destination{Topic: "logs"}.String())
	assert.Equal(t, "logs:4", Destination{Topic: "logs", Partition: ptr(int32(4))}.String())
}

func ptr[T any](v T) *T {
	return &v
}

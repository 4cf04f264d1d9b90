package publisher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKafkaValidation(t *testing.T) {
	t.Run("brokers required", func(t *testing.T) {
		_, err := NewKafka(nil, "topic")
		assert.ErrorContains(t, err, "broker is required")
	})

	t.Run("topic required", func(t *testing.T) {
		_, err := NewKafka([]string{"localhost:9092"}, "")
		assert.ErrorContains(t, err, "topic is required")
	})
}

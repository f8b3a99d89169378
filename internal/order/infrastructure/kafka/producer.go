package kafka

import "github.com/segmentio/kafka-go"

func NewWriter(addr string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(addr),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
	}
}

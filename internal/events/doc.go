// Package events publishes task lifecycle events.
//
// Services emit a TaskEvent after each successful mutation through an
// EventEmitter. InMemoryEventEmitter fans events out to registered
// EventHandlers: LogHandler writes them to the structured log and
// KafkaPublisher forwards them to a Kafka topic.
package events

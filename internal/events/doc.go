// Package events carries operational events out of the request path.
//
// Services emit an Event through an EventEmitter without knowing who
// consumes it. The in-memory emitter fans each event out to registered
// handlers: LogHandler records it in the structured log and NATSPublisher
// forwards it to a NATS subject for downstream consumers (approval
// dashboards, alerting on failed signup rollbacks).
package events

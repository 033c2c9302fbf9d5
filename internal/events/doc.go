// Package events provides the event model used to broadcast task activity.
//
// Services build events such as task.created without knowing who consumes
// them. An EventEmitter fans an event out to in-process handlers (for
// example the WebSocket hub), and a Publisher hands it to a broker so that
// other server instances see it too.
//
// The primary components are:
// - Event: a named notification on a channel with a JSON payload
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
// - Publisher: Interface for out-of-process delivery
package events

// Package dispatch delivers notifications in the background.
//
// A Notifier turns task activity into events, buffers them in a bounded
// Queue and lets a WorkerPool hand them to an events.Publisher. Delivery is
// at most once: a full queue or a failed publish drops the event after
// logging it, so request handlers never wait on the broker.
package dispatch

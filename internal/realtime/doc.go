// Package realtime pushes task broadcasts to browsers over WebSocket.
//
// The Hub is registered as an events.EventHandler; every event it receives
// is written to all connected subscribers as a Frame. Handler performs the
// authenticated upgrade and runs the per-connection read and write loops.
package realtime

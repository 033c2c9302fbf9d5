// Package api handles incoming HTTP requests for the task board: request
// decoding and validation, routing to the task and user services, and the
// JSON response envelope. Handlers translate service errors into status
// codes and never expose internal error text to clients.
package api

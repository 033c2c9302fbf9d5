// Package redisstore holds the Redis-backed infrastructure: the pub/sub
// transport for task broadcasts, the sliding-window rate limiter used on
// the authentication endpoints and the denylist of revoked access tokens.
package redisstore

// Package ratelimit implements per-client fixed-window request limiting.
//
// A Limiter evaluates named Rules against a CounterStore. Every (client, rule)
// pair owns an independent counter. The window opens on the first request,
// every request inside it is counted (denied ones included), and the counter
// resets once the window has fully elapsed.
package ratelimit

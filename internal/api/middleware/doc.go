// Package middleware provides the HTTP request pipeline: request context,
// security headers, body size guard, CORS, rate limiting and request logging.
//
// Each stage is a Middleware and NewPipeline composes them in a fixed order.
// Stages that must set response headers after the inner handler has chosen
// its status do so through a writer hook that runs right before the header
// block is flushed.
package middleware

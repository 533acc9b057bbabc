// Package api holds the HTTP handlers for tasks, health and the landing
// page, the request and response models, and the mapping from service and
// store errors to status codes and client-safe messages.
package api

// Package domain defines the Task entity, its status and priority enums,
// partial updates and the validation errors raised when a task breaks its
// field rules.
package domain

// Package service implements the task use cases on top of the store
// contracts in internal/store.
//
// TaskService validates input through the domain constructors, runs every
// mutation in a store transaction and publishes a task event once the
// transaction has committed. Listings read their total and their page from
// one read-only snapshot.
//
// Errors follow a fixed shape:
//   - ErrTaskNotFound when the task does not exist
//   - *domain.ValidationError, unchanged, for rejected input
//   - *TaskServiceError wrapping anything unexpected, with the operation name
package service

// Package mocks provides shared test doubles for the task service and store.
//
// Mocks use function fields: set the field for the method under test and
// leave the rest nil to get the default behavior. MockTaskStore additionally
// keeps tasks in memory so service tests can exercise real reads and writes.
//
//	tasks := &mocks.MockTaskService{
//	    GetTaskFn: func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
//	        return nil, service.ErrTaskNotFound
//	    },
//	}
package mocks

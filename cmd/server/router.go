package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/task-api/internal/api"
	"github.com/phrazzld/task-api/internal/api/middleware"
	"github.com/phrazzld/task-api/internal/metrics"
	"github.com/phrazzld/task-api/internal/service"
)

// routerDeps are the collaborators the HTTP surface is built from.
type routerDeps struct {
	Tasks       service.TaskService
	Health      api.DatabaseChecker
	Metrics     *metrics.Metrics
	Pipeline    middleware.PipelineConfig
	Version     string
	Environment string
	Logger      *slog.Logger
}

// newRouter mounts the request pipeline and every route. Panics in handlers
// are recovered into 500 responses inside the pipeline, so they are still
// logged and carry the standard headers.
func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NewPipeline(deps.Pipeline), chimw.Recoverer)

	tasks := api.NewTaskHandler(deps.Tasks, deps.Logger)
	health := api.NewHealthHandler(deps.Health, deps.Version, deps.Logger)
	root := api.NewRootHandler(deps.Tasks, deps.Version, deps.Environment, deps.Logger)

	r.Get("/", root.Root)
	r.Get("/health", health.Health)
	r.Handle("/metrics", deps.Metrics.Handler())

	r.Get("/tasks", tasks.ListTasks)
	r.Post("/tasks", tasks.CreateTask)
	r.Get("/tasks/{"+api.TaskIDParam+"}", tasks.GetTask)
	r.Put("/tasks/{"+api.TaskIDParam+"}", tasks.UpdateTask)
	r.Delete("/tasks/{"+api.TaskIDParam+"}", tasks.DeleteTask)

	return r
}

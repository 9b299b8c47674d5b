package handler

import (
	"context"
	"net/http"

	"pulse/internal/project"
)

type ProjectService interface {
	Create(ctx context.Context, authID string, in project.Input) (*project.Project, error)
	List(ctx context.Context) ([]project.Project, error)
	Get(ctx context.Context, projectID uint64) (*project.Project, error)
	Update(ctx context.Context, projectID uint64, in project.Input) (*project.Project, error)
	Remove(ctx context.Context, projectID uint64) error
	CreateTask(ctx context.Context, projectID uint64, in project.TaskInput) (*project.Task, error)
	ListTasks(ctx context.Context, projectID uint64) ([]project.Task, error)
	GetTask(ctx context.Context, taskID uint64) (*project.Task, error)
	UpdateTask(ctx context.Context, taskID uint64, in project.TaskInput) (*project.Task, error)
	RemoveTask(ctx context.Context, taskID uint64) error
}

type ProjectHandler struct {
	Svc ProjectService
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req project.Input
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	p, err := h.Svc.Create(r.Context(), caller(r), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Svc.List(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	p, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	var req project.Input
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	p, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondErr(w, err)
		return
	}
	if err := h.Svc.Remove(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"message": "project deleted"})
}

func (h *ProjectHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectId")
	if err != nil {
		respondErr(w, err)
		return
	}
	var req project.TaskInput
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	t, err := h.Svc.CreateTask(r.Context(), projectID, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, t)
}

func (h *ProjectHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectId")
	if err != nil {
		respondErr(w, err)
		return
	}
	tasks, err := h.Svc.ListTasks(r.Context(), projectID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, tasks)
}

func (h *ProjectHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "taskId")
	if err != nil {
		respondErr(w, err)
		return
	}
	t, err := h.Svc.GetTask(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, t)
}

func (h *ProjectHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "taskId")
	if err != nil {
		respondErr(w, err)
		return
	}
	var req project.TaskInput
	if err := decode(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	t, err := h.Svc.UpdateTask(r.Context(), id, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, t)
}

func (h *ProjectHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "taskId")
	if err != nil {
		respondErr(w, err)
		return
	}
	if err := h.Svc.RemoveTask(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"message": "task deleted"})
}

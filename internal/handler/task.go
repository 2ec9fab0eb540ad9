package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskify/internal/model"
	"github.com/BuzzLyutic/taskify/internal/repo"
	"github.com/BuzzLyutic/taskify/internal/service"
	"github.com/BuzzLyutic/taskify/pkg/respond"
)

var errBadID = errors.New("invalid id")

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
	pages   *template.Template
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
		pages:   pages,
	}
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Progress    uint8  `json:"progress"`
}

// Create handles POST /todo. A JSON body gets 201 with the stored record,
// a form post is redirected back to the index page.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !isJSON(r) {
		h.createForm(w, r)
		return
	}

	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	task, err := h.service.Create(r.Context(), model.NewTask(req.Title, req.Description))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	if !task.Persisted() {
		h.handleErrors(w, r, fmt.Errorf("create returned task without id"))
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/todos/%d", task.ID))
	respond.JSON(w, r, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	task, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

// List handles GET /todos. An empty store answers 404 rather than an empty array.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.List(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	if len(tasks) == 0 {
		respond.Error(w, r, http.StatusNotFound, "empty task list")
		return
	}
	respond.JSON(w, r, http.StatusOK, tasks)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	task := model.Task{ID: id, Title: req.Title, Description: req.Description, Progress: req.Progress}
	n, err := h.service.Update(r.Context(), task)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	if n == 0 {
		respond.Error(w, r, http.StatusNotFound, "not found")
		return
	}

	task.Title = strings.TrimSpace(task.Title)
	respond.JSON(w, r, http.StatusOK, task)
}

// Delete answers 200 even when nothing was removed; the body carries the row count.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	n, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]int64{"deleted": n})
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, stats)
}

func (h *TaskHandler) Health(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"storage": h.service.StorageKind(),
	})
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := h.classify(r, err)
	respond.Error(w, r, code, msg)
}

// classify maps an error to a status code and a message safe to show the client.
func (h *TaskHandler) classify(r *http.Request, err error) (int, string) {
	switch {
	case errors.Is(err, errBadID):
		return http.StatusBadRequest, "invalid id"
	case errors.Is(err, repo.ErrorNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, repo.ErrorConflict):
		return http.StatusConflict, "title already exists"
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, "validation error"
	default:
		h.logger.Error("internal error",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Bool("storage", repo.IsStorageError(err)),
			zap.Error(err),
		)
		return http.StatusInternalServerError, "internal error"
	}
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errBadID, chi.URLParam(r, "id"))
	}
	return id, nil
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

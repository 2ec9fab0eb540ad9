package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskify/internal/model"
	"github.com/BuzzLyutic/taskify/internal/repo"
	"github.com/BuzzLyutic/taskify/pkg/respond"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type indexPage struct {
	Todos     []model.Task
	Ephemeral bool
}

type updatePage struct {
	Todo model.Task
}

type errorPage struct {
	Code    int
	Message string
}

// Index renders every todo. Unlike the JSON list, an empty store is a normal page.
func (h *TaskHandler) Index(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.List(r.Context())
	if err != nil {
		h.pageError(w, r, err)
		return
	}
	h.render(w, http.StatusOK, "index.html", indexPage{
		Todos:     tasks,
		Ephemeral: h.service.StorageKind() == repo.KindMemory,
	})
}

func (h *TaskHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "add.html", nil)
}

func (h *TaskHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.pageError(w, r, err)
		return
	}

	task, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.pageError(w, r, err)
		return
	}
	h.render(w, http.StatusOK, "update.html", updatePage{Todo: task})
}

func (h *TaskHandler) createForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "error.html", errorPage{http.StatusBadRequest, "malformed form"})
		return
	}

	task := model.NewTask(r.PostForm.Get("title"), r.PostForm.Get("description"))
	if _, err := h.service.Create(r.Context(), task); err != nil {
		h.pageError(w, r, err)
		return
	}
	respond.SeeOther(w, r, "/")
}

// UpdateForm handles the edit page post. A missing progress field means 0.
func (h *TaskHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.pageError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "error.html", errorPage{http.StatusBadRequest, "malformed form"})
		return
	}

	var progress uint64
	if v := r.PostForm.Get("progress"); v != "" {
		progress, err = strconv.ParseUint(v, 10, 8)
		if err != nil {
			h.render(w, http.StatusBadRequest, "error.html", errorPage{http.StatusBadRequest, "progress must be between 0 and 255"})
			return
		}
	}

	task := model.Task{
		ID:          id,
		Title:       r.PostForm.Get("title"),
		Description: r.PostForm.Get("description"),
		Progress:    uint8(progress),
	}
	n, err := h.service.Update(r.Context(), task)
	if err != nil {
		h.pageError(w, r, err)
		return
	}
	if n == 0 {
		h.logger.Info("update matched no todo", zap.Int64("id", id))
	}
	respond.SeeOther(w, r, "/")
}

func (h *TaskHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.pageError(w, r, err)
		return
	}
	if _, err := h.service.Delete(r.Context(), id); err != nil {
		h.pageError(w, r, err)
		return
	}
	respond.SeeOther(w, r, "/")
}

func (h *TaskHandler) pageError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := h.classify(r, err)
	h.render(w, code, "error.html", errorPage{Code: code, Message: msg})
}

// render executes into a buffer first so a template failure never leaves a half-written page.
func (h *TaskHandler) render(w http.ResponseWriter, code int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("failed to render template", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}

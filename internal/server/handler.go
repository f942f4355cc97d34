package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mmr-tortoise/worklog/internal/repository"
)

// Handler holds the HTTP handlers over the tracker repository.
type Handler struct {
	Repo *repository.Repository
}

// NewHandler creates a Handler.
func NewHandler(repo *repository.Repository) *Handler {
	return &Handler{Repo: repo}
}

type logRequest struct {
	Company     string  `json:"company" binding:"required"`
	Date        string  `json:"date"`
	Hours       float64 `json:"hours" binding:"required"`
	Description string  `json:"description"`
}

type goalRequest struct {
	Company       string  `json:"company" binding:"required"`
	Goal          float64 `json:"goal"`
	WorkdaysCount int     `json:"workdaysCount"`
	Deadline      string  `json:"deadline"`
}

type taskRequest struct {
	Company string `json:"company" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Date    string `json:"date"`
}

type taskUpdateRequest struct {
	Completed bool `json:"completed"`
}

// GetDashboard returns every company's derived report.
func (h *Handler) GetDashboard(ctx *gin.Context) {
	reports, err := h.Repo.Dashboard()
	if err != nil {
		logrus.Errorf("dashboard failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"companies": reports})
}

// PostLog records hours for a company. An omitted date means today.
func (h *Handler) PostLog(ctx *gin.Context) {
	var req logRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := h.Repo.LogWork(req.Company, req.Date, req.Hours, req.Description)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"company": req.Company, "date": date})
}

// PostGoal sets a company's goal, weekly schedule, and deadline.
func (h *Handler) PostGoal(ctx *gin.Context) {
	var req goalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Repo.SetGoal(req.Company, req.Goal, req.WorkdaysCount, req.Deadline); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"company": req.Company})
}

// DeleteLog removes a log entry by company and date.
func (h *Handler) DeleteLog(ctx *gin.Context) {
	company := ctx.Param("company")
	date := ctx.Param("date")

	if err := h.Repo.DeleteLog(company, date); err != nil {
		h.writeRepoError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"company": company, "date": date})
}

// PostTask creates a task for a company.
func (h *Handler) PostTask(ctx *gin.Context) {
	var req taskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.Repo.AddTask(req.Company, req.Title, req.Date)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, task)
}

// PutTask updates a task's completion flag.
func (h *Handler) PutTask(ctx *gin.Context) {
	var req taskUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Repo.UpdateTask(ctx.Param("company"), ctx.Param("id"), req.Completed); err != nil {
		h.writeRepoError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"id": ctx.Param("id"), "completed": req.Completed})
}

// DeleteTask removes a task by company and ID.
func (h *Handler) DeleteTask(ctx *gin.Context) {
	if err := h.Repo.DeleteTask(ctx.Param("company"), ctx.Param("id")); err != nil {
		h.writeRepoError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"id": ctx.Param("id")})
}

// Healthz reports liveness for the launcher's readiness checks.
func (h *Handler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// writeRepoError maps repository sentinels to 404 and everything else
// to 500.
func (h *Handler) writeRepoError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrCompanyNotFound),
		errors.Is(err, repository.ErrLogNotFound),
		errors.Is(err, repository.ErrTaskNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logrus.Errorf("tracker operation failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/studentdesk/internal/domain/models"
	"github.com/mamadbah2/studentdesk/internal/server/templates"
	"github.com/mamadbah2/studentdesk/internal/service/commands"
	"github.com/mamadbah2/studentdesk/internal/service/reporting"
)

const (
	defaultSnapshotLimit = 20
	exportFilename       = "students_clean.csv"
)

// Importer loads student rows from an uploaded CSV file.
type Importer interface {
	Import(ctx context.Context, r io.Reader) (models.ImportResult, error)
}

// Reports produces exports and snapshot history.
type Reports interface {
	WriteCSV(w io.Writer) error
	ExportToSheets(ctx context.Context) error
	Snapshots(ctx context.Context, limit int64) ([]models.StatsSnapshot, error)
}

// DashboardHandler routes dashboard interactions into the command dispatcher.
type DashboardHandler struct {
	dispatcher commands.Dispatcher
	importer   Importer
	reports    Reports
	logger     *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(dispatcher commands.Dispatcher, importer Importer, reports Reports, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{
		dispatcher: dispatcher,
		importer:   importer,
		reports:    reports,
		logger:     logger,
	}
}

// Index renders the dashboard, filtered by ?q=.
func (h *DashboardHandler) Index(c *gin.Context) {
	h.page(c, h.dispatcher.Search(c.Query("q")))
}

// View returns the same page description as JSON.
func (h *DashboardHandler) View(c *gin.Context) {
	c.JSON(http.StatusOK, h.dispatcher.Search(c.Query("q")))
}

// Submit creates or updates a student from the posted form.
func (h *DashboardHandler) Submit(c *gin.Context) {
	var values models.FormValues
	if err := c.ShouldBind(&values); err != nil {
		h.logger.Warn("invalid form payload", zap.Error(err))
		c.String(http.StatusBadRequest, "invalid form")
		return
	}
	h.page(c, h.dispatcher.Submit(c.Request.Context(), values, c.PostForm("q")))
}

// Edit loads a student into the form.
func (h *DashboardHandler) Edit(c *gin.Context) {
	h.page(c, h.dispatcher.Edit(studentID(c), c.Query("q")))
}

// ConfirmDelete asks the user to confirm a deletion.
func (h *DashboardHandler) ConfirmDelete(c *gin.Context) {
	h.page(c, h.dispatcher.DeletePrompt(studentID(c), c.Query("q")))
}

// Delete removes a student when the confirmation form answered yes.
func (h *DashboardHandler) Delete(c *gin.Context) {
	confirmed := c.PostForm("confirm") == "yes"
	confirmer := commands.ConfirmFunc(func(string) bool { return confirmed })
	h.page(c, h.dispatcher.Delete(c.Request.Context(), studentID(c), confirmer, c.PostForm("q")))
}

// Refresh reloads the list from the record API.
func (h *DashboardHandler) Refresh(c *gin.Context) {
	h.page(c, h.dispatcher.Refresh(c.Request.Context(), c.PostForm("q")))
}

// Cancel resets the form to create mode.
func (h *DashboardHandler) Cancel(c *gin.Context) {
	h.page(c, h.dispatcher.Cancel(c.PostForm("q")))
}

// Import creates students from an uploaded CSV file. JSON clients receive
// the per-row result; browsers get the refreshed dashboard.
func (h *DashboardHandler) Import(c *gin.Context) {
	query := c.PostForm("q")
	wantsJSON := c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON

	header, err := c.FormFile("file")
	if err != nil {
		h.logger.Warn("import without file", zap.Error(err))
		if wantsJSON {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
			return
		}
		h.pageWithError(c, query, "Choose a CSV file to import.")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error("failed opening upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to read upload"})
		return
	}
	defer file.Close()

	result, err := h.importer.Import(c.Request.Context(), file)
	if err != nil {
		h.logger.Warn("import rejected", zap.String("filename", header.Filename), zap.Error(err))
		if wantsJSON {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.pageWithError(c, query, "Import failed: "+err.Error())
		return
	}

	var page models.Page
	summary := fmt.Sprintf("Imported %d of %d students.", result.SuccessCount, result.Total)
	if result.SuccessCount > 0 {
		page = h.dispatcher.Reload(c.Request.Context(), query, summary)
	} else {
		page = h.dispatcher.View(query)
		page.Notification = &models.Notification{Message: summary, Tone: models.ToneError}
	}

	if wantsJSON {
		c.JSON(http.StatusOK, result)
		return
	}
	h.page(c, page)
}

// ExportCSV streams the record and analysis tables as a CSV download.
func (h *DashboardHandler) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	c.Status(http.StatusOK)

	if err := h.reports.WriteCSV(c.Writer); err != nil {
		h.logger.Error("csv export failed", zap.Error(err))
	}
}

// ExportSheets pushes the export to the configured Google Sheet.
func (h *DashboardHandler) ExportSheets(c *gin.Context) {
	query := c.PostForm("q")

	err := h.reports.ExportToSheets(c.Request.Context())
	switch {
	case errors.Is(err, reporting.ErrSheetsDisabled):
		h.pageWithError(c, query, "Google Sheets export is not configured.")
	case err != nil:
		h.logger.Error("sheets export failed", zap.Error(err))
		h.pageWithError(c, query, "Google Sheets export failed.")
	default:
		page := h.dispatcher.View(query)
		page.Notification = &models.Notification{Message: "Exported to Google Sheets.", Tone: models.ToneDark}
		h.page(c, page)
	}
}

// Snapshots lists the most recent stats snapshots, newest first.
func (h *DashboardHandler) Snapshots(c *gin.Context) {
	limit := int64(defaultSnapshotLimit)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	snapshots, err := h.reports.Snapshots(c.Request.Context(), limit)
	if errors.Is(err, reporting.ErrSnapshotsDisabled) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("failed loading snapshots", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to load snapshots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"snapshots": snapshots})
}

func (h *DashboardHandler) page(c *gin.Context, page models.Page) {
	c.HTML(http.StatusOK, templates.Page, page)
}

func (h *DashboardHandler) pageWithError(c *gin.Context, query, message string) {
	page := h.dispatcher.View(query)
	page.Notification = &models.Notification{Message: message, Tone: models.ToneError}
	h.page(c, page)
}

func studentID(c *gin.Context) models.StudentID {
	return models.StudentID(c.Param("id"))
}

package handlers

import (
	"bytes"
	"strconv"

	"resume-penelitian/exporter"
	"resume-penelitian/helper"
	"resume-penelitian/logger"
	"resume-penelitian/middleware"
	"resume-penelitian/models"
	"resume-penelitian/services"
	"resume-penelitian/sessions"

	"github.com/gin-gonic/gin"
)

const maxReportPageSize = 100

type ReportHandler struct {
	reportService  services.ReportService
	sessionService *sessions.Service
	Helper         *helper.HTTPHelper
}

func NewReportHandler(reportService services.ReportService, sessionService *sessions.Service, h *helper.HTTPHelper) *ReportHandler {
	return &ReportHandler{reportService: reportService, sessionService: sessionService, Helper: h}
}

func (h *ReportHandler) reportID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.Helper.SendBadRequest(c, "Invalid report ID", h.Helper.EmptyJsonMap())
		return 0, false
	}
	return uint(id), true
}

func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req models.CreateReportRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	report, err := h.reportService.CreateReport(c.Request.Context(), req, middleware.CurrentUser(c))
	if err != nil {
		h.Helper.SendErrorFor(c, err)
		return
	}

	h.Helper.SendCreated(c, "Report created", report)
}

func (h *ReportHandler) GetReports(c *gin.Context) {
	var params models.ReportListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, "invalid query", err.Error())
		return
	}

	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = 10
	}
	if params.Limit > maxReportPageSize {
		params.Limit = maxReportPageSize
	}

	reports, total, err := h.reportService.GetReports(c.Request.Context(), params)
	if err != nil {
		h.Helper.SendErrorFor(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Reports loaded", gin.H{
		"laporan":    reports,
		"pagination": h.Helper.GeneratePaging(c, 0, 0, params.Limit, params.Page, int(total)),
	})
}

// GetReport opens the detail view and marks the report as selected on the session.
func (h *ReportHandler) GetReport(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	report, err := h.reportService.GetReport(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendErrorFor(c, err)
		return
	}

	if _, err := h.sessionService.Select(c.Request.Context(), middleware.SessionID(c), &id); err != nil {
		logger.Warnf("select report %d: %v", id, err)
	}

	h.Helper.SendSuccess(c, "Report loaded", report)
}

func (h *ReportHandler) UpdateReport(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}
	var req models.UpdateReportRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	report, err := h.reportService.UpdateReport(c.Request.Context(), id, req, middleware.CurrentUser(c))
	if err != nil {
		h.Helper.SendErrorFor(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Report updated", report)
}

func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}
	var req models.UpdateReportStatusRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	report, err := h.reportService.UpdateStatus(c.Request.Context(), id, req.Status, middleware.CurrentUser(c))
	if err != nil {
		h.Helper.SendErrorFor(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Report status updated", report)
}

func (h *ReportHandler) GetRevisions(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	revisions, err := h.reportService.GetRevisions(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendErrorFor(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Revisions loaded", revisions)
}

func (h *ReportHandler) GetCollaborators(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	collaborators, err := h.reportService.GetCollaborators(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendErrorFor(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Collaborators loaded", collaborators)
}

func (h *ReportHandler) AddCollaborator(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}
	var req models.AddCollaboratorRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	added, err := h.reportService.AddCollaborator(c.Request.Context(), id, req, middleware.CurrentUser(c))
	if err != nil {
		h.Helper.SendErrorFor(c, err)
		return
	}
	if !added {
		h.Helper.SendSuccess(c, "Already a collaborator", gin.H{"ditambahkan": false})
		return
	}

	h.Helper.SendCreated(c, "Collaborator added", gin.H{"ditambahkan": true})
}

func (h *ReportHandler) Stats(c *gin.Context) {
	stats, err := h.reportService.Stats(c.Request.Context())
	if err != nil {
		h.Helper.SendErrorFor(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Report statistics loaded", stats)
}

func (h *ReportHandler) ExportCSV(c *gin.Context) {
	reports, err := h.reportService.AllReports(c.Request.Context())
	if err != nil {
		h.Helper.SendErrorFor(c, err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteReportsCSV(&buf, reports); err != nil {
		h.Helper.SendErrorFor(c, err)
		return
	}
	attachment(c, "laporan", "csv", "text/csv; charset=utf-8", buf.Bytes())
}

package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"resume-penelitian/exporter"
	"resume-penelitian/helper"
	"resume-penelitian/logger"
	"resume-penelitian/middleware"
	"resume-penelitian/models"
	"resume-penelitian/services"
	"resume-penelitian/sessions"

	"github.com/gin-gonic/gin"
)

const maxImportSize = 10 << 20

type ResearchHandler struct {
	researchService services.ResearchService
	sessionService  *sessions.Service
	Helper          *helper.HTTPHelper
}

func NewResearchHandler(researchService services.ResearchService, sessionService *sessions.Service, h *helper.HTTPHelper) *ResearchHandler {
	return &ResearchHandler{researchService: researchService, sessionService: sessionService, Helper: h}
}

func (h *ResearchHandler) ListResearch(c *gin.Context) {
	var filter models.ResearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.Helper.SendBadRequest(c, "invalid filter", err.Error())
		return
	}

	records := h.researchService.ListResearch(c.Request.Context(), filter)
	h.Helper.SendSuccess(c, "Research loaded", gin.H{
		"penelitian": records,
		"total":      len(records),
	})
}

func (h *ResearchHandler) CreateResearch(c *gin.Context) {
	var req models.CreateResearchRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	record, err := h.researchService.CreateResearch(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendErrorFor(c, err)
		return
	}

	h.Helper.SendCreated(c, "Research saved", record)
}

// GetResearch opens the detail view and marks the record as selected on the session.
func (h *ResearchHandler) GetResearch(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.Helper.SendBadRequest(c, "Invalid research ID", h.Helper.EmptyJsonMap())
		return
	}

	record, err := h.researchService.GetResearch(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendErrorFor(c, err)
		return
	}

	selected := uint(id)
	if _, err := h.sessionService.Select(c.Request.Context(), middleware.SessionID(c), &selected); err != nil {
		logger.Warnf("select research %d: %v", id, err)
	}

	h.Helper.SendSuccess(c, "Research loaded", record)
}

func (h *ResearchHandler) Dashboard(c *gin.Context) {
	h.Helper.SendSuccess(c, "Dashboard loaded", h.researchService.Dashboard(c.Request.Context()))
}

func (h *ResearchHandler) Analysis(c *gin.Context) {
	topK, _ := strconv.Atoi(c.Query("top"))
	h.Helper.SendSuccess(c, "Analysis loaded", h.researchService.Analysis(c.Request.Context(), topK))
}

func (h *ResearchHandler) ExportJSON(c *gin.Context) {
	var buf bytes.Buffer
	if err := exporter.WriteJSON(&buf, h.researchService.All(c.Request.Context())); err != nil {
		h.Helper.SendErrorFor(c, err)
		return
	}
	attachment(c, "research_data", "json", "application/json; charset=utf-8", buf.Bytes())
}

func (h *ResearchHandler) ExportCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := exporter.WriteResearchCSV(&buf, h.researchService.All(c.Request.Context())); err != nil {
		h.Helper.SendErrorFor(c, err)
		return
	}
	attachment(c, "research_data", "csv", "text/csv; charset=utf-8", buf.Bytes())
}

// Import accepts either a multipart upload named "file" or the raw JSON array as the body.
func (h *ResearchHandler) Import(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	result, err := h.researchService.Import(c.Request.Context(), data)
	if err != nil {
		h.Helper.SendErrorFor(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Import finished", result)
}

func readUpload(c *gin.Context) ([]byte, error) {
	var src io.Reader = c.Request.Body
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()
		src = f
	}

	data, err := io.ReadAll(io.LimitReader(src, maxImportSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxImportSize {
		return nil, fmt.Errorf("upload larger than %d bytes", maxImportSize)
	}
	return data, nil
}

func attachment(c *gin.Context, base, ext, contentType string, data []byte) {
	name := fmt.Sprintf("%s_%s.%s", base, time.Now().Format("20060102"), ext)
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, contentType, data)
}

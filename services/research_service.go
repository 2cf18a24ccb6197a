package services

import (
	"context"
	"fmt"
	"strings"

	"resume-penelitian/analytics"
	"resume-penelitian/exporter"
	"resume-penelitian/logger"
	"resume-penelitian/metrics"
	"resume-penelitian/models"
	"resume-penelitian/storage"
)

// ResearchStore is the persistence the research service needs.
type ResearchStore interface {
	Load(ctx context.Context) []models.Research
	Append(ctx context.Context, record models.Research) (models.Research, error)
	Import(ctx context.Context, incoming []models.Research) (storage.ImportResult, error)
}

type ImportResult struct {
	Received int `json:"diterima"`
	Added    int `json:"ditambahkan"`
	Skipped  int `json:"dilewati"`
	Total    int `json:"total"`
}

type ResearchService interface {
	CreateResearch(ctx context.Context, req models.CreateResearchRequest) (*models.Research, error)
	GetResearch(ctx context.Context, id int) (*models.Research, error)
	ListResearch(ctx context.Context, filter models.ResearchFilter) []models.Research
	Dashboard(ctx context.Context) analytics.Dashboard
	Analysis(ctx context.Context, topK int) analytics.Analysis
	Import(ctx context.Context, data []byte) (*ImportResult, error)
	All(ctx context.Context) []models.Research
}

type researchService struct {
	store ResearchStore
}

func NewResearchService(store ResearchStore) ResearchService {
	return &researchService{store: store}
}

func (s *researchService) CreateResearch(ctx context.Context, req models.CreateResearchRequest) (*models.Research, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Author) == "" || strings.TrimSpace(req.Abstract) == "" {
		return nil, models.ErrorBadRequest{Message: "judul, peneliti_utama and abstrak are required"}
	}
	if req.Status == "" {
		req.Status = models.ResearchOngoing
	}
	if !req.Status.Valid() {
		return nil, fmt.Errorf("status %q: %w", req.Status, models.ErrInvalidStatus)
	}

	keywords := req.Keywords
	if len(keywords) == 0 && req.KeywordsText != "" {
		keywords = strings.Split(req.KeywordsText, ",")
	}

	record := models.Research{
		Title:           strings.TrimSpace(req.Title),
		Author:          strings.TrimSpace(req.Author),
		Institution:     req.Institution,
		Year:            req.Year,
		Status:          req.Status,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Fields:          cleanList(req.Fields),
		Funding:         req.Funding,
		Abstract:        req.Abstract,
		Background:      req.Background,
		Methodology:     req.Methodology,
		Results:         req.Results,
		Conclusion:      req.Conclusion,
		PublicationLink: req.PublicationLink,
		Keywords:        cleanList(keywords),
	}

	saved, err := s.store.Append(ctx, record)
	if err != nil {
		return nil, err
	}
	metrics.RecordsCreated.WithLabelValues("penelitian").Inc()
	logger.Infof("research %d saved: %s", saved.ID, saved.Title)
	return &saved, nil
}

func (s *researchService) GetResearch(ctx context.Context, id int) (*models.Research, error) {
	for _, r := range s.store.Load(ctx) {
		if r.ID == id {
			found := r
			return &found, nil
		}
	}
	return nil, fmt.Errorf("penelitian %d: %w", id, models.ErrNotFound)
}

func (s *researchService) ListResearch(ctx context.Context, filter models.ResearchFilter) []models.Research {
	return storage.Filter(s.store.Load(ctx), filter)
}

func (s *researchService) All(ctx context.Context) []models.Research {
	return s.store.Load(ctx)
}

func (s *researchService) Dashboard(ctx context.Context) analytics.Dashboard {
	return analytics.BuildDashboard(s.store.Load(ctx))
}

func (s *researchService) Analysis(ctx context.Context, topK int) analytics.Analysis {
	if topK <= 0 {
		topK = analytics.DefaultTopKeywords
	}
	return analytics.BuildAnalysis(s.store.Load(ctx), topK)
}

// Import merges an uploaded JSON array into the store. Existing ids win;
// incoming records without an id get fresh ones.
func (s *researchService) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	incoming, err := exporter.ParseResearchJSON(data)
	if err != nil {
		return nil, models.ErrorBadRequest{Message: err.Error()}
	}

	res, err := s.store.Import(ctx, incoming)
	if err != nil {
		return nil, err
	}

	logger.Infof("research import: %d received, %d added", res.Received, res.Added)
	return &ImportResult{
		Received: res.Received,
		Added:    res.Added,
		Skipped:  res.Received - res.Added,
		Total:    res.Total,
	}, nil
}

// cleanList trims entries and drops empty ones.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

package services

import (
	"context"
	"fmt"
	"strings"

	"resume-penelitian/analytics"
	"resume-penelitian/logger"
	"resume-penelitian/metrics"
	"resume-penelitian/models"
	"resume-penelitian/repositories"
)

var errNotReportEditor = models.ErrorForbidden{Message: "only an admin, the owner or a team editor may change this report"}

type ReportStats struct {
	ByStatus    []models.LabelCount   `json:"per_status"`
	ByCategory  []models.LabelCount   `json:"per_kategori"`
	TopKeywords []models.KeywordCount `json:"kata_kunci_populer"`
}

type ReportService interface {
	CreateReport(ctx context.Context, req models.CreateReportRequest, user *models.UserIdentity) (*models.Report, error)
	GetReport(ctx context.Context, id uint) (*models.Report, error)
	GetReports(ctx context.Context, params models.ReportListParams) ([]models.Report, int64, error)
	AllReports(ctx context.Context) ([]models.Report, error)
	UpdateReport(ctx context.Context, id uint, req models.UpdateReportRequest, user *models.UserIdentity) (*models.Report, error)
	UpdateStatus(ctx context.Context, id uint, status models.ReportStatus, user *models.UserIdentity) (*models.Report, error)
	GetRevisions(ctx context.Context, id uint) ([]models.Revision, error)
	AddCollaborator(ctx context.Context, id uint, req models.AddCollaboratorRequest, user *models.UserIdentity) (bool, error)
	GetCollaborators(ctx context.Context, id uint) ([]models.Collaborator, error)
	Stats(ctx context.Context) (*ReportStats, error)
}

type reportService struct {
	reportRepo repositories.ReportRepository
	userRepo   repositories.UserRepository
}

func NewReportService(reportRepo repositories.ReportRepository, userRepo repositories.UserRepository) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		userRepo:   userRepo,
	}
}

func (s *reportService) CreateReport(ctx context.Context, req models.CreateReportRequest, user *models.UserIdentity) (*models.Report, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, models.ErrorBadRequest{Message: "judul and konten are required"}
	}

	report := &models.Report{
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Category:  strings.TrimSpace(req.Category),
		Status:    models.ReportDraft,
		Keywords:  cleanList(req.Keywords),
		CreatedBy: user.Username,
		UpdatedBy: user.Username,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	metrics.RecordsCreated.WithLabelValues("laporan").Inc()
	logger.Infof("report %d created by %s", report.ID, user.Username)
	return s.reportRepo.GetByID(ctx, report.ID)
}

func (s *reportService) GetReport(ctx context.Context, id uint) (*models.Report, error) {
	return s.reportRepo.GetByID(ctx, id)
}

func (s *reportService) GetReports(ctx context.Context, params models.ReportListParams) ([]models.Report, int64, error) {
	if params.Status != "" && !models.ReportStatus(params.Status).Valid() {
		return nil, 0, fmt.Errorf("status %q: %w", params.Status, models.ErrInvalidStatus)
	}
	return s.reportRepo.GetList(ctx, params)
}

func (s *reportService) AllReports(ctx context.Context) ([]models.Report, error) {
	return s.reportRepo.All(ctx)
}

func (s *reportService) UpdateReport(ctx context.Context, id uint, req models.UpdateReportRequest, user *models.UserIdentity) (*models.Report, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, models.ErrorBadRequest{Message: "judul and konten are required"}
	}
	if err := s.checkCanEdit(ctx, id, user); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Category = strings.TrimSpace(req.Category)
	req.Keywords = cleanList(req.Keywords)

	report, err := s.reportRepo.Update(ctx, id, req, user.Username)
	if err != nil {
		return nil, err
	}
	logger.Infof("report %d updated to versi %d by %s", report.ID, report.Version, user.Username)
	return report, nil
}

func (s *reportService) UpdateStatus(ctx context.Context, id uint, status models.ReportStatus, user *models.UserIdentity) (*models.Report, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("status %q: %w", status, models.ErrInvalidStatus)
	}
	if err := s.checkCanEdit(ctx, id, user); err != nil {
		return nil, err
	}
	return s.reportRepo.UpdateStatus(ctx, id, status, user.Username)
}

func (s *reportService) GetRevisions(ctx context.Context, id uint) ([]models.Revision, error) {
	if _, err := s.reportRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.reportRepo.GetRevisions(ctx, id)
}

// AddCollaborator lets an admin or the report owner add a team member.
func (s *reportService) AddCollaborator(ctx context.Context, id uint, req models.AddCollaboratorRequest, user *models.UserIdentity) (bool, error) {
	if !req.Role.Valid() || req.Role == models.CollaboratorOwner {
		return false, models.ErrorBadRequest{Message: "peran must be editor or reviewer"}
	}
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if user.Role != models.RoleAdmin && report.CreatedBy != user.Username {
		return false, models.ErrorForbidden{Message: "only an admin or the owner may add collaborators"}
	}
	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err != nil {
		return false, err
	}

	return s.reportRepo.AddCollaborator(ctx, &models.Collaborator{
		ReportID: id,
		Username: req.Username,
		Role:     req.Role,
	})
}

func (s *reportService) GetCollaborators(ctx context.Context, id uint) ([]models.Collaborator, error) {
	if _, err := s.reportRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.reportRepo.GetCollaborators(ctx, id)
}

func (s *reportService) Stats(ctx context.Context) (*ReportStats, error) {
	byStatus, err := s.reportRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.reportRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	reports, err := s.reportRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	lists := make([][]string, 0, len(reports))
	for _, r := range reports {
		lists = append(lists, r.Keywords)
	}

	return &ReportStats{
		ByStatus:    byStatus,
		ByCategory:  byCategory,
		TopKeywords: analytics.TopKeywords(lists, analytics.DefaultTopKeywords),
	}, nil
}

// checkCanEdit allows admins anywhere and editors on reports they own or edit as a team member.
func (s *reportService) checkCanEdit(ctx context.Context, id uint, user *models.UserIdentity) error {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		return nil
	}
	if user.Role != models.RoleEditor {
		return errNotReportEditor
	}
	for _, c := range report.Collaborators {
		if c.Username == user.Username && (c.Role == models.CollaboratorOwner || c.Role == models.CollaboratorEditor) {
			return nil
		}
	}
	return errNotReportEditor
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-penelitian/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	GetList(ctx context.Context, params models.ReportListParams) ([]models.Report, int64, error)
	All(ctx context.Context) ([]models.Report, error)
	Update(ctx context.Context, id uint, req models.UpdateReportRequest, editor string) (*models.Report, error)
	UpdateStatus(ctx context.Context, id uint, status models.ReportStatus, editor string) (*models.Report, error)
	GetRevisions(ctx context.Context, reportID uint) ([]models.Revision, error)
	AddCollaborator(ctx context.Context, c *models.Collaborator) (bool, error)
	GetCollaborators(ctx context.Context, reportID uint) ([]models.Collaborator, error)
	CountByStatus(ctx context.Context) ([]models.LabelCount, error)
	CountByCategory(ctx context.Context) ([]models.LabelCount, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, models.ErrNotFound)
	}
	return err
}

// Create inserts the report together with its owner and the first revision.
func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		report.Version = 1
		report.CreatedAt = now
		report.UpdatedAt = now
		if report.Status == "" {
			report.Status = models.ReportDraft
		}
		if report.UpdatedBy == "" {
			report.UpdatedBy = report.CreatedBy
		}

		if err := tx.Omit(clause.Associations).Create(report).Error; err != nil {
			return err
		}

		owner := &models.Collaborator{
			ReportID: report.ID,
			Username: report.CreatedBy,
			Role:     models.CollaboratorOwner,
		}
		if err := tx.Create(owner).Error; err != nil {
			return err
		}

		revision := &models.Revision{
			ReportID:  report.ID,
			Version:   1,
			Content:   report.Content,
			ChangedBy: report.CreatedBy,
			ChangedAt: now,
			Note:      "dibuat",
		}
		return tx.Create(revision).Error
	})
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Preload("Collaborators", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		First(&report, id).Error
	if err != nil {
		return nil, notFound(err, "laporan", id)
	}
	return &report, nil
}

func (r *reportRepository) GetList(ctx context.Context, params models.ReportListParams) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Report{})

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Category != "" {
		query = query.Where("kategori = ?", params.Category)
	}
	if q := strings.TrimSpace(params.Search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(judul) LIKE ? OR LOWER(konten) LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 10
	}
	offset := (params.Page - 1) * params.Limit

	err := query.Order("terakhir_diupdate desc").Order("id desc").
		Offset(offset).Limit(params.Limit).
		Find(&reports).Error

	return reports, total, err
}

func (r *reportRepository) All(ctx context.Context) ([]models.Report, error) {
	reports := make([]models.Report, 0)
	err := r.db.WithContext(ctx).Order("terakhir_diupdate desc").Order("id desc").Find(&reports).Error
	return reports, err
}

// Update bumps versi and appends a riwayat row in one transaction.
func (r *reportRepository) Update(ctx context.Context, id uint, req models.UpdateReportRequest, editor string) (*models.Report, error) {
	var updated models.Report
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Report{}).Where("id = ?", id).Updates(map[string]interface{}{
			"judul":             req.Title,
			"konten":            req.Content,
			"kategori":          req.Category,
			"kata_kunci":        datatypes.JSONSlice[string](req.Keywords),
			"diupdate_oleh":     editor,
			"terakhir_diupdate": now,
			"versi":             gorm.Expr("versi + 1"),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "laporan", id)
		}

		if err := tx.First(&updated, id).Error; err != nil {
			return err
		}

		note := req.Note
		if note == "" {
			note = "diperbarui"
		}
		return tx.Create(&models.Revision{
			ReportID:  id,
			Version:   updated.Version,
			Content:   req.Content,
			ChangedBy: editor,
			ChangedAt: now,
			Note:      note,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id uint, status models.ReportStatus, editor string) (*models.Report, error) {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Report{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":            status,
		"diupdate_oleh":     editor,
		"terakhir_diupdate": time.Now(),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, notFound(gorm.ErrRecordNotFound, "laporan", id)
	}

	var report models.Report
	if err := db.First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) GetRevisions(ctx context.Context, reportID uint) ([]models.Revision, error) {
	var revisions []models.Revision
	err := r.db.WithContext(ctx).
		Where("laporan_id = ?", reportID).
		Order("versi desc").Order("id desc").
		Find(&revisions).Error
	return revisions, err
}

// AddCollaborator is insert-if-absent; created is false when the pair already existed.
func (r *reportRepository) AddCollaborator(ctx context.Context, c *models.Collaborator) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(c)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *reportRepository) GetCollaborators(ctx context.Context, reportID uint) ([]models.Collaborator, error) {
	var collaborators []models.Collaborator
	err := r.db.WithContext(ctx).Where("laporan_id = ?", reportID).Order("id asc").Find(&collaborators).Error
	return collaborators, err
}

func (r *reportRepository) CountByStatus(ctx context.Context) ([]models.LabelCount, error) {
	return r.countBy(ctx, "status")
}

func (r *reportRepository) CountByCategory(ctx context.Context) ([]models.LabelCount, error) {
	return r.countBy(ctx, "kategori")
}

func (r *reportRepository) countBy(ctx context.Context, column string) ([]models.LabelCount, error) {
	var results []models.LabelCount
	err := r.db.WithContext(ctx).Model(&models.Report{}).
		Select(column + " AS label, COUNT(*) AS count").
		Group(column).
		Order("count desc").Order(column).
		Scan(&results).Error
	return results, err
}

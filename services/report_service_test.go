package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"resume-penelitian/models"
	"resume-penelitian/repositories"
)

type ReportServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	service  ReportService
	userRepo repositories.UserRepository

	admin    *models.UserIdentity
	editor   *models.UserIdentity
	editor2  *models.UserIdentity
	reviewer *models.UserIdentity
}

func (s *ReportServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	db := openTestDB(s.T())
	s.userRepo = repositories.NewUserRepository(db)
	s.service = NewReportService(repositories.NewReportRepository(db), s.userRepo)

	for _, u := range []models.User{
		{Username: "admin", PasswordHash: "x", Role: models.RoleAdmin},
		{Username: "editor", PasswordHash: "x", Role: models.RoleEditor},
		{Username: "editor2", PasswordHash: "x", Role: models.RoleEditor},
		{Username: "reviewer", PasswordHash: "x", Role: models.RoleReviewer},
	} {
		user := u
		_, err := s.userRepo.CreateIfAbsent(s.ctx, &user)
		s.Require().NoError(err)
	}

	s.admin = &models.UserIdentity{Username: "admin", Role: models.RoleAdmin}
	s.editor = &models.UserIdentity{Username: "editor", Role: models.RoleEditor}
	s.editor2 = &models.UserIdentity{Username: "editor2", Role: models.RoleEditor}
	s.reviewer = &models.UserIdentity{Username: "reviewer", Role: models.RoleReviewer}
}

func (s *ReportServiceTestSuite) create() *models.Report {
	report, err := s.service.CreateReport(s.ctx, models.CreateReportRequest{
		Title: " Laporan Tahunan ", Content: "isi", Category: "Riset", Keywords: []string{"iklim", " ", "padi"},
	}, s.editor)
	s.Require().NoError(err)
	return report
}

func (s *ReportServiceTestSuite) TestCreate() {
	report := s.create()
	s.Equal("Laporan Tahunan", report.Title)
	s.Equal(models.ReportDraft, report.Status)
	s.Equal([]string{"iklim", "padi"}, []string(report.Keywords))
	s.Require().Len(report.Collaborators, 1)
	s.Equal(models.CollaboratorOwner, report.Collaborators[0].Role)
}

func (s *ReportServiceTestSuite) TestCreate_RequiresTitleAndContent() {
	_, err := s.service.CreateReport(s.ctx, models.CreateReportRequest{Title: "", Content: "x"}, s.editor)
	s.ErrorAs(err, &models.ErrorBadRequest{})
}

func (s *ReportServiceTestSuite) TestOwnerAndAdminCanEdit() {
	report := s.create()

	updated, err := s.service.UpdateReport(s.ctx, report.ID, models.UpdateReportRequest{Title: "v2", Content: "isi 2"}, s.editor)
	s.Require().NoError(err)
	s.Equal(2, updated.Version)

	updated, err = s.service.UpdateReport(s.ctx, report.ID, models.UpdateReportRequest{Title: "v3", Content: "isi 3"}, s.admin)
	s.Require().NoError(err)
	s.Equal(3, updated.Version)

	revisions, err := s.service.GetRevisions(s.ctx, report.ID)
	s.Require().NoError(err)
	s.Len(revisions, 3)
	s.Equal("admin", revisions[0].ChangedBy)
}

func (s *ReportServiceTestSuite) TestOtherEditorNeedsTeamMembership() {
	report := s.create()

	_, err := s.service.UpdateReport(s.ctx, report.ID, models.UpdateReportRequest{Title: "x", Content: "y"}, s.editor2)
	s.ErrorAs(err, &models.ErrorForbidden{})

	added, err := s.service.AddCollaborator(s.ctx, report.ID, models.AddCollaboratorRequest{Username: "editor2", Role: models.CollaboratorEditor}, s.editor)
	s.Require().NoError(err)
	s.True(added)

	_, err = s.service.UpdateReport(s.ctx, report.ID, models.UpdateReportRequest{Title: "x", Content: "y"}, s.editor2)
	s.NoError(err)
}

func (s *ReportServiceTestSuite) TestReviewerCannotEditEvenOnTeam() {
	report := s.create()
	_, err := s.service.AddCollaborator(s.ctx, report.ID, models.AddCollaboratorRequest{Username: "reviewer", Role: models.CollaboratorReviewer}, s.admin)
	s.Require().NoError(err)

	_, err = s.service.UpdateStatus(s.ctx, report.ID, models.ReportApproved, s.reviewer)
	s.ErrorAs(err, &models.ErrorForbidden{})
}

func (s *ReportServiceTestSuite) TestAddCollaboratorRules() {
	report := s.create()

	_, err := s.service.AddCollaborator(s.ctx, report.ID, models.AddCollaboratorRequest{Username: "reviewer", Role: models.CollaboratorOwner}, s.editor)
	s.ErrorAs(err, &models.ErrorBadRequest{})

	_, err = s.service.AddCollaborator(s.ctx, report.ID, models.AddCollaboratorRequest{Username: "reviewer", Role: models.CollaboratorReviewer}, s.editor2)
	s.ErrorAs(err, &models.ErrorForbidden{})

	_, err = s.service.AddCollaborator(s.ctx, report.ID, models.AddCollaboratorRequest{Username: "hantu", Role: models.CollaboratorReviewer}, s.editor)
	s.ErrorIs(err, models.ErrNotFound)
}

func (s *ReportServiceTestSuite) TestUpdateStatus() {
	report := s.create()

	_, err := s.service.UpdateStatus(s.ctx, report.ID, "selesai", s.admin)
	s.ErrorIs(err, models.ErrInvalidStatus)

	updated, err := s.service.UpdateStatus(s.ctx, report.ID, models.ReportReview, s.editor)
	s.Require().NoError(err)
	s.Equal(models.ReportReview, updated.Status)
	s.Equal(1, updated.Version)
}

func (s *ReportServiceTestSuite) TestStats() {
	s.create()
	s.create()

	stats, err := s.service.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal([]models.LabelCount{{Label: "draft", Count: 2}}, stats.ByStatus)
	s.Equal([]models.LabelCount{{Label: "Riset", Count: 2}}, stats.ByCategory)
	s.Equal(models.KeywordCount{Keyword: "iklim", Count: 2}, stats.TopKeywords[0])
}

func (s *ReportServiceTestSuite) TestGetReports_RejectsUnknownStatus() {
	_, _, err := s.service.GetReports(s.ctx, models.ReportListParams{Status: "arsip"})
	s.ErrorIs(err, models.ErrInvalidStatus)
}

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}

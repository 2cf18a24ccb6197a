package models

type RegisterRequest struct {
	Username    string   `json:"username" validate:"required,min=3,max=50"`
	Password    string   `json:"password" validate:"required,min=6"`
	DisplayName string   `json:"nama_lengkap" validate:"max=100"`
	Role        UserRole `json:"role" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string        `json:"token"`
	SessionID string        `json:"session_id"`
	User      *UserIdentity `json:"user"`
}

// CreateResearchRequest is the research input form.
// KeywordsText is the comma separated form field; Keywords wins when both are sent.
type CreateResearchRequest struct {
	Title           string         `json:"judul" validate:"required,max=500"`
	Author          string         `json:"peneliti_utama" validate:"required,max=200"`
	Institution     string         `json:"institusi" validate:"max=200"`
	Year            int            `json:"tahun" validate:"omitempty,min=2000,max=2030"`
	Status          ResearchStatus `json:"status" validate:"max=50"`
	StartDate       string         `json:"tanggal_mulai"`
	EndDate         *string        `json:"tanggal_selesai"`
	Fields          []string       `json:"bidang"`
	Funding         string         `json:"sumber_dana"`
	Abstract        string         `json:"abstrak" validate:"required"`
	Background      string         `json:"latar_belakang"`
	Methodology     string         `json:"metodologi"`
	Results         string         `json:"hasil"`
	Conclusion      string         `json:"kesimpulan"`
	PublicationLink string         `json:"link_publikasi" validate:"omitempty,url"`
	Keywords        []string       `json:"kata_kunci"`
	KeywordsText    string         `json:"kata_kunci_teks"`
}

// ResearchFilter narrows the research list. Empty values and "Semua" match everything.
type ResearchFilter struct {
	Status string `form:"status"`
	Year   string `form:"tahun"`
	Field  string `form:"bidang"`
	Search string `form:"q"`
}

type CreateReportRequest struct {
	Title    string   `json:"judul" validate:"required,max=255"`
	Content  string   `json:"konten" validate:"required"`
	Category string   `json:"kategori" validate:"max=100"`
	Keywords []string `json:"kata_kunci"`
}

type UpdateReportRequest struct {
	Title    string   `json:"judul" validate:"required,max=255"`
	Content  string   `json:"konten" validate:"required"`
	Category string   `json:"kategori" validate:"max=100"`
	Keywords []string `json:"kata_kunci"`
	Note     string   `json:"perubahan" validate:"max=500"`
}

type UpdateReportStatusRequest struct {
	Status ReportStatus `json:"status" validate:"required"`
}

type AddCollaboratorRequest struct {
	Username string           `json:"username" validate:"required"`
	Role     CollaboratorRole `json:"peran" validate:"required"`
}

type ReportListParams struct {
	Status   string `form:"status"`
	Category string `form:"kategori"`
	Search   string `form:"q"`
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=10"`
}

type NavigateRequest struct {
	Page string `json:"page" validate:"required"`
}

type SelectRequest struct {
	RecordID *uint `json:"record_id"`
}

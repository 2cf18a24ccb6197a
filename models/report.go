package models

import (
	"time"

	"gorm.io/datatypes"
)

type ReportStatus string

const (
	ReportDraft    ReportStatus = "draft"
	ReportReview   ReportStatus = "review"
	ReportApproved ReportStatus = "disetujui"
	ReportRejected ReportStatus = "ditolak"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportDraft, ReportReview, ReportApproved, ReportRejected:
		return true
	}
	return false
}

// Report is a row of the laporan table. Versi starts at 1 and grows by one per edit.
type Report struct {
	ID            uint                        `json:"id" gorm:"primarykey"`
	Title         string                      `json:"judul" gorm:"column:judul;not null"`
	Content       string                      `json:"konten" gorm:"column:konten;type:text"`
	Category      string                      `json:"kategori" gorm:"column:kategori;index"`
	Status        ReportStatus                `json:"status" gorm:"column:status;not null;default:draft;index"`
	Keywords      datatypes.JSONSlice[string] `json:"kata_kunci" gorm:"column:kata_kunci"`
	CreatedBy     string                      `json:"dibuat_oleh" gorm:"column:dibuat_oleh;not null"`
	UpdatedBy     string                      `json:"diupdate_oleh" gorm:"column:diupdate_oleh"`
	CreatedAt     time.Time                   `json:"tanggal_dibuat" gorm:"column:tanggal_dibuat"`
	UpdatedAt     time.Time                   `json:"terakhir_diupdate" gorm:"column:terakhir_diupdate;index"`
	Version       int                         `json:"versi" gorm:"column:versi;not null;default:1"`
	Collaborators []Collaborator              `json:"kolaborator,omitempty" gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
	Revisions     []Revision                  `json:"riwayat,omitempty" gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
}

func (Report) TableName() string { return "laporan" }

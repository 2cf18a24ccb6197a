package models

import "time"

type CollaboratorRole string

const (
	CollaboratorOwner    CollaboratorRole = "pemilik"
	CollaboratorEditor   CollaboratorRole = "editor"
	CollaboratorReviewer CollaboratorRole = "reviewer"
)

func (r CollaboratorRole) Valid() bool {
	switch r {
	case CollaboratorOwner, CollaboratorEditor, CollaboratorReviewer:
		return true
	}
	return false
}

type Collaborator struct {
	ID       uint             `json:"id" gorm:"primarykey"`
	ReportID uint             `json:"laporan_id" gorm:"column:laporan_id;not null;uniqueIndex:idx_kolaborator_laporan_user"`
	Username string           `json:"username" gorm:"column:username;not null;uniqueIndex:idx_kolaborator_laporan_user"`
	Role     CollaboratorRole `json:"peran" gorm:"column:peran;not null"`
	AddedAt  time.Time        `json:"tanggal_ditambahkan" gorm:"column:tanggal_ditambahkan;autoCreateTime"`
}

func (Collaborator) TableName() string { return "kolaborator" }

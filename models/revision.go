package models

import "time"

// Revision is an append-only snapshot in riwayat; never updated after insert.
type Revision struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ReportID  uint      `json:"laporan_id" gorm:"column:laporan_id;not null;index"`
	Version   int       `json:"versi" gorm:"column:versi;not null"`
	Content   string    `json:"konten" gorm:"column:konten;type:text"`
	ChangedBy string    `json:"diubah_oleh" gorm:"column:diubah_oleh;not null"`
	ChangedAt time.Time `json:"tanggal_perubahan" gorm:"column:tanggal_perubahan"`
	Note      string    `json:"perubahan" gorm:"column:perubahan"`
}

func (Revision) TableName() string { return "riwayat" }

package models

import (
	"encoding/json"
	"time"
)

type ResearchStatus string

const (
	ResearchOngoing  ResearchStatus = "Berjalan"
	ResearchFinished ResearchStatus = "Selesai"
	ResearchPlanned  ResearchStatus = "Dalam Perencanaan"
)

func (s ResearchStatus) Valid() bool {
	switch s {
	case ResearchOngoing, ResearchFinished, ResearchPlanned:
		return true
	}
	return false
}

// InputTimeLayout is the format of tanggal_input.
const InputTimeLayout = "2006-01-02 15:04:05"

// DateLayout is the format of tanggal_mulai and tanggal_selesai.
const DateLayout = "2006-01-02"

// Research is one entry of the research JSON document. JSON names are the storage format.
type Research struct {
	ID              int            `json:"id"`
	Title           string         `json:"judul"`
	Author          string         `json:"peneliti_utama"`
	Institution     string         `json:"institusi"`
	Year            int            `json:"tahun"`
	Status          ResearchStatus `json:"status"`
	StartDate       string         `json:"tanggal_mulai"`
	EndDate         *string        `json:"tanggal_selesai"`
	Fields          []string       `json:"bidang"`
	Funding         string         `json:"sumber_dana"`
	Abstract        string         `json:"abstrak"`
	Background      string         `json:"latar_belakang"`
	Methodology     string         `json:"metodologi"`
	Results         string         `json:"hasil"`
	Conclusion      string         `json:"kesimpulan"`
	PublicationLink string         `json:"link_publikasi"`
	Keywords        []string       `json:"kata_kunci"`
	InputAt         string         `json:"tanggal_input"`

	// Extra holds keys this type does not model and values that could not be
	// read into their field, so a rewrite of the file keeps them.
	Extra map[string]json.RawMessage `json:"-"`
}

// StartTime parses tanggal_mulai; ok is false for empty or malformed values.
func (r Research) StartTime() (time.Time, bool) {
	if r.StartDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// HasField reports whether bidang contains name.
func (r Research) HasField(name string) bool {
	for _, f := range r.Fields {
		if f == name {
			return true
		}
	}
	return false
}

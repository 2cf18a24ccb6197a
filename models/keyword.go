package models

// KeywordCount is one row of a keyword frequency table.
type KeywordCount struct {
	Keyword string `json:"kata_kunci"`
	Count   int    `json:"jumlah"`
}

// LabelCount pairs a grouping label (status, year, category, month) with its count.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"jumlah"`
}

// Package analytics computes the dashboard and analysis page aggregates.
// Everything here is a pure function of the records passed in.
package analytics

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"resume-penelitian/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	DefaultTopKeywords = 10
	LatestCount        = 5
	unknownStatus      = "Tidak Diketahui"
)

type Summary struct {
	Total    int `json:"total"`
	Finished int `json:"selesai"`
	Ongoing  int `json:"berjalan"`
	Planned  int `json:"perencanaan"`
	YearMin  int `json:"tahun_awal,omitempty"`
	YearMax  int `json:"tahun_akhir,omitempty"`
}

// KeywordStats mirrors the keyword panel: Total and Unique both count distinct
// keywords, Occurrences counts every mention.
type KeywordStats struct {
	Total       int     `json:"total"`
	Unique      int     `json:"unik"`
	Occurrences int     `json:"jumlah_kemunculan"`
	PerRecord   float64 `json:"rata_rata_per_penelitian"`
}

// Dashboard feeds the landing page.
type Dashboard struct {
	Summary  Summary             `json:"ringkasan"`
	ByStatus []models.LabelCount `json:"per_status"`
	ByYear   []models.LabelCount `json:"per_tahun"`
	Latest   []models.Research   `json:"terbaru"`
}

// Analysis feeds the analysis page.
type Analysis struct {
	ByYear       []models.LabelCount   `json:"tren_tahunan"`
	ByField      []models.LabelCount   `json:"per_bidang"`
	TopKeywords  []models.KeywordCount `json:"kata_kunci_populer"`
	KeywordStats KeywordStats          `json:"statistik_kata_kunci"`
	Timeline     []models.LabelCount   `json:"timeline_bulanan"`
}

func BuildDashboard(records []models.Research) Dashboard {
	return Dashboard{
		Summary:  Summarize(records),
		ByStatus: CountByStatus(records),
		ByYear:   CountByYear(records),
		Latest:   Latest(records, LatestCount),
	}
}

func BuildAnalysis(records []models.Research, topK int) Analysis {
	lists := make([][]string, 0, len(records))
	for _, r := range records {
		lists = append(lists, r.Keywords)
	}
	return Analysis{
		ByYear:       CountByYear(records),
		ByField:      CountByField(records),
		TopKeywords:  TopKeywords(lists, topK),
		KeywordStats: Keywords(lists),
		Timeline:     MonthlyTimeline(records),
	}
}

func Summarize(records []models.Research) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case models.ResearchFinished:
			s.Finished++
		case models.ResearchOngoing:
			s.Ongoing++
		case models.ResearchPlanned:
			s.Planned++
		}
		if r.Year == 0 {
			continue
		}
		if s.YearMin == 0 || r.Year < s.YearMin {
			s.YearMin = r.Year
		}
		if r.Year > s.YearMax {
			s.YearMax = r.Year
		}
	}
	return s
}

// CountByStatus counts in first-seen order; an empty status is "Tidak Diketahui".
func CountByStatus(records []models.Research) []models.LabelCount {
	c := newCounter()
	for _, r := range records {
		status := string(r.Status)
		if status == "" {
			status = unknownStatus
		}
		c.add(status, status)
	}
	return c.labels()
}

// CountByYear counts per tahun, ascending; records without a year are skipped.
func CountByYear(records []models.Research) []models.LabelCount {
	c := newCounter()
	for _, r := range records {
		if r.Year == 0 {
			continue
		}
		y := strconv.Itoa(r.Year)
		c.add(y, y)
	}
	out := c.labels()
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i].Label)
		b, _ := strconv.Atoi(out[j].Label)
		return a < b
	})
	return out
}

// CountByField counts every bidang entry in first-seen order.
func CountByField(records []models.Research) []models.LabelCount {
	c := newCounter()
	for _, r := range records {
		for _, f := range r.Fields {
			if f = strings.TrimSpace(f); f != "" {
				c.add(f, f)
			}
		}
	}
	return c.labels()
}

// MonthlyTimeline buckets tanggal_mulai by YYYY-MM, ascending. Unparsable dates are skipped.
func MonthlyTimeline(records []models.Research) []models.LabelCount {
	c := newCounter()
	for _, r := range records {
		t, ok := r.StartTime()
		if !ok {
			continue
		}
		m := t.Format("2006-01")
		c.add(m, m)
	}
	out := c.labels()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// TopKeywords returns the k most frequent keywords, count descending with ties
// in first-seen order. Keywords differing only in case are one keyword, shown
// with the spelling seen first. k <= 0 returns all.
func TopKeywords(lists [][]string, k int) []models.KeywordCount {
	fold := cases.Fold()
	c := newCounter()
	for _, list := range lists {
		for _, kw := range list {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			c.add(keywordKey(fold, kw), kw)
		}
	}

	ranked := c.labels()
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}

	out := make([]models.KeywordCount, len(ranked))
	for i, lc := range ranked {
		out[i] = models.KeywordCount{Keyword: lc.Label, Count: lc.Count}
	}
	return out
}

// Keywords reports distinct keywords (case-insensitive, like TopKeywords), all
// occurrences and the average occurrences per record rounded to one decimal.
func Keywords(lists [][]string) KeywordStats {
	fold := cases.Fold()
	unique := map[string]struct{}{}
	total := 0
	for _, list := range lists {
		for _, kw := range list {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			total++
			unique[keywordKey(fold, kw)] = struct{}{}
		}
	}
	stats := KeywordStats{Total: len(unique), Unique: len(unique), Occurrences: total}
	if len(lists) > 0 {
		stats.PerRecord = math.Round(float64(total)/float64(len(lists))*10) / 10
	}
	return stats
}

// keywordKey groups spellings that differ only in case or Unicode composition.
func keywordKey(fold cases.Caser, kw string) string {
	return fold.String(norm.NFC.String(kw))
}

// Latest returns up to n records with the newest tanggal_mulai first.
func Latest(records []models.Research, n int) []models.Research {
	sorted := make([]models.Research, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartDate > sorted[j].StartDate })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// counter keeps insertion order so ties resolve to first appearance.
type counter struct {
	index  map[string]int
	counts []models.LabelCount
}

func newCounter() *counter {
	return &counter{index: map[string]int{}}
}

func (c *counter) add(key, label string) {
	if i, ok := c.index[key]; ok {
		c.counts[i].Count++
		return
	}
	c.index[key] = len(c.counts)
	c.counts = append(c.counts, models.LabelCount{Label: label, Count: 1})
}

func (c *counter) labels() []models.LabelCount {
	out := make([]models.LabelCount, len(c.counts))
	copy(out, c.counts)
	return out
}

package exporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"resume-penelitian/models"
)

// ResearchColumns is the fixed CSV column order for research exports.
var ResearchColumns = []string{
	"id", "judul", "peneliti_utama", "institusi", "tahun", "status",
	"tanggal_mulai", "tanggal_selesai", "bidang", "sumber_dana",
	"abstrak", "latar_belakang", "metodologi", "hasil", "kesimpulan",
	"link_publikasi", "kata_kunci", "tanggal_input",
}

var ReportColumns = []string{
	"id", "judul", "kategori", "status", "dibuat_oleh", "diupdate_oleh",
	"tanggal_dibuat", "terakhir_diupdate", "versi", "kata_kunci",
}

// WriteJSON writes v as two-space indented JSON; non-ASCII text is kept as is.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// ParseResearchJSON decodes a research array record by record. Field types are
// not enforced; only a document that is not an array of objects is rejected.
func ParseResearchJSON(data []byte) ([]models.Research, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("invalid research file: empty document")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("invalid research file: %w", err)
	}

	records := make([]models.Research, 0, len(items))
	for i, item := range items {
		var r models.Research
		if err := json.Unmarshal(item, &r); err != nil {
			return nil, fmt.Errorf("invalid research file: record %d: %w", i+1, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// WriteResearchCSV writes a header row then one row per record.
// List fields are JSON arrays inside a single cell; a null tanggal_selesai is empty.
func WriteResearchCSV(w io.Writer, records []models.Research) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ResearchColumns); err != nil {
		return err
	}
	for _, r := range records {
		endDate := ""
		if r.EndDate != nil {
			endDate = *r.EndDate
		}
		row := []string{
			strconv.Itoa(r.ID), r.Title, r.Author, r.Institution, strconv.Itoa(r.Year), string(r.Status),
			r.StartDate, endDate, listCell(r.Fields), r.Funding,
			r.Abstract, r.Background, r.Methodology, r.Results, r.Conclusion,
			r.PublicationLink, listCell(r.Keywords), r.InputAt,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteReportsCSV(w io.Writer, reports []models.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ReportColumns); err != nil {
		return err
	}
	for _, r := range reports {
		row := []string{
			strconv.FormatUint(uint64(r.ID), 10), r.Title, r.Category, string(r.Status),
			r.CreatedBy, r.UpdatedBy,
			r.CreatedAt.Format(models.InputTimeLayout), r.UpdatedAt.Format(models.InputTimeLayout),
			strconv.Itoa(r.Version), listCell(r.Keywords),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func listCell(items []string) string {
	if items == nil {
		items = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return ""
	}
	return strings.TrimRight(buf.String(), "\n")
}

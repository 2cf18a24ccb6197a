package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// researchKeys lists the known keys in storage order.
var researchKeys = []string{
	"id", "judul", "peneliti_utama", "institusi", "tahun", "status",
	"tanggal_mulai", "tanggal_selesai", "bidang", "sumber_dana",
	"abstrak", "latar_belakang", "metodologi", "hasil", "kesimpulan",
	"link_publikasi", "kata_kunci", "tanggal_input",
}

var nullLiteral = []byte("null")

// UnmarshalJSON reads one stored record without enforcing a schema. Numbers
// may arrive as numeric strings and list fields as one comma separated string.
// A value that cannot be read into its field leaves the field at its zero
// value and is kept, compacted, in Extra together with every unknown key.
func (r *Research) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Research{}
	for key, value := range raw {
		if r.setField(key, value) {
			continue
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, value); err != nil {
			return err
		}
		if r.Extra == nil {
			r.Extra = map[string]json.RawMessage{}
		}
		r.Extra[key] = compact.Bytes()
	}
	r.Fields = nonNil(r.Fields)
	r.Keywords = nonNil(r.Keywords)
	return nil
}

func (r *Research) setField(key string, value json.RawMessage) bool {
	if bytes.Equal(bytes.TrimSpace(value), nullLiteral) {
		if key == "tanggal_selesai" {
			r.EndDate = nil
			return true
		}
		return false
	}

	switch key {
	case "id":
		return looseInt(value, &r.ID)
	case "tahun":
		return looseInt(value, &r.Year)
	case "judul":
		return looseString(value, &r.Title)
	case "peneliti_utama":
		return looseString(value, &r.Author)
	case "institusi":
		return looseString(value, &r.Institution)
	case "status":
		return looseString(value, (*string)(&r.Status))
	case "tanggal_mulai":
		return looseString(value, &r.StartDate)
	case "tanggal_selesai":
		var s string
		if !looseString(value, &s) {
			return false
		}
		r.EndDate = &s
		return true
	case "bidang":
		return looseList(value, &r.Fields)
	case "sumber_dana":
		return looseString(value, &r.Funding)
	case "abstrak":
		return looseString(value, &r.Abstract)
	case "latar_belakang":
		return looseString(value, &r.Background)
	case "metodologi":
		return looseString(value, &r.Methodology)
	case "hasil":
		return looseString(value, &r.Results)
	case "kesimpulan":
		return looseString(value, &r.Conclusion)
	case "link_publikasi":
		return looseString(value, &r.PublicationLink)
	case "kata_kunci":
		return looseList(value, &r.Keywords)
	case "tanggal_input":
		return looseString(value, &r.InputAt)
	}
	return false
}

// MarshalJSON writes the known keys in storage order, then the Extra keys
// sorted by name. A zero field whose original value was kept in Extra is
// written back with that original value.
func (r Research) MarshalJSON() ([]byte, error) {
	fields := []struct {
		value interface{}
		zero  bool
	}{
		{r.ID, r.ID == 0},
		{r.Title, r.Title == ""},
		{r.Author, r.Author == ""},
		{r.Institution, r.Institution == ""},
		{r.Year, r.Year == 0},
		{r.Status, r.Status == ""},
		{r.StartDate, r.StartDate == ""},
		{r.EndDate, r.EndDate == nil},
		{nonNil(r.Fields), len(r.Fields) == 0},
		{r.Funding, r.Funding == ""},
		{r.Abstract, r.Abstract == ""},
		{r.Background, r.Background == ""},
		{r.Methodology, r.Methodology == ""},
		{r.Results, r.Results == ""},
		{r.Conclusion, r.Conclusion == ""},
		{r.PublicationLink, r.PublicationLink == ""},
		{nonNil(r.Keywords), len(r.Keywords) == 0},
		{r.InputAt, r.InputAt == ""},
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	writePair := func(key string, value []byte) error {
		name, err := encodeValue(key)
		if err != nil {
			return err
		}
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
		return nil
	}

	known := make(map[string]bool, len(researchKeys))
	for i, key := range researchKeys {
		known[key] = true
		value, kept := r.Extra[key]
		if !kept || !fields[i].zero {
			encoded, err := encodeValue(fields[i].value)
			if err != nil {
				return nil, fmt.Errorf("research %s: %w", key, err)
			}
			value = encoded
		}
		if err := writePair(key, value); err != nil {
			return nil, err
		}
	}

	extra := make([]string, 0, len(r.Extra))
	for key := range r.Extra {
		if !known[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		value, err := encodeValue(r.Extra[key])
		if err != nil {
			return nil, fmt.Errorf("research %s: %w", key, err)
		}
		if err := writePair(key, value); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeValue marshals v without HTML escaping so text stays as entered.
func encodeValue(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func looseString(value json.RawMessage, dst *string) bool {
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return false
	}
	*dst = s
	return true
}

// looseInt accepts a whole JSON number or a string holding one.
func looseInt(value json.RawMessage, dst *int) bool {
	var f float64
	if err := json.Unmarshal(value, &f); err != nil {
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return false
		}
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return false
		}
	}
	if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return false
	}
	*dst = int(f)
	return true
}

// looseList accepts a list of strings or one comma separated string.
func looseList(value json.RawMessage, dst *[]string) bool {
	var items []string
	if err := json.Unmarshal(value, &items); err == nil {
		*dst = nonNil(items)
		return true
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return false
	}
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
	return true
}

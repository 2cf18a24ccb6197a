package access

import (
	_ "embed"
	"fmt"
	"sort"

	"resume-penelitian/models"

	"gopkg.in/yaml.v3"
)

// Page names used by the router and the session.
const (
	PageDashboard      = "dashboard"
	PageResearchList   = "penelitian"
	PageResearchDetail = "penelitian.detail"
	PageResearchInput  = "penelitian.input"
	PageAnalysis       = "analisis"
	PageExport         = "ekspor"
	PageSettings       = "pengaturan"
	PageReports        = "laporan"
	PageReportDetail   = "laporan.detail"
	PageReportCreate   = "laporan.buat"
	PageReportEdit     = "laporan.edit"
	PageReportStatus   = "laporan.status"
	PageReportHistory  = "laporan.riwayat"
	PageReportTeam     = "laporan.kolaborator"
	PageUsers          = "pengguna"
	PageProfile        = "profil"
	wildcard           = "*"
)

// Pages lists every known page.
var Pages = []string{
	PageDashboard, PageResearchList, PageResearchDetail, PageResearchInput,
	PageAnalysis, PageExport, PageSettings,
	PageReports, PageReportDetail, PageReportCreate, PageReportEdit,
	PageReportStatus, PageReportHistory, PageReportTeam,
	PageUsers, PageProfile,
}

//go:embed policy.yaml
var defaultPolicy []byte

type policyFile struct {
	Roles map[string][]string `yaml:"roles"`
}

// Policy is the static role to page mapping.
type Policy struct {
	allowed map[models.UserRole]map[string]struct{}
}

// Default returns the built-in policy.
func Default() *Policy {
	p, err := Parse(defaultPolicy)
	if err != nil {
		panic(fmt.Sprintf("access: embedded policy: %v", err))
	}
	return p
}

// Parse reads a YAML policy document.
func Parse(data []byte) (*Policy, error) {
	var f policyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}

	known := make(map[string]struct{}, len(Pages))
	for _, page := range Pages {
		known[page] = struct{}{}
	}

	p := &Policy{allowed: make(map[models.UserRole]map[string]struct{}, len(f.Roles))}
	for role, pages := range f.Roles {
		r := models.UserRole(role)
		if !r.Valid() {
			return nil, fmt.Errorf("parse policy: unknown role %q", role)
		}
		set := make(map[string]struct{}, len(pages))
		for _, page := range pages {
			if _, ok := known[page]; !ok && page != wildcard {
				return nil, fmt.Errorf("parse policy: role %s: unknown page %q", role, page)
			}
			set[page] = struct{}{}
		}
		p.allowed[r] = set
	}
	return p, nil
}

// Allowed reports whether role may open page. Unknown roles get nothing.
func (p *Policy) Allowed(role models.UserRole, page string) bool {
	set, ok := p.allowed[role]
	if !ok {
		return false
	}
	if _, ok := set[wildcard]; ok {
		return true
	}
	_, ok = set[page]
	return ok
}

// PagesFor lists the pages role may open, in navigation order.
func (p *Policy) PagesFor(role models.UserRole) []string {
	out := make([]string, 0, len(Pages))
	for _, page := range Pages {
		if p.Allowed(role, page) {
			out = append(out, page)
		}
	}
	return out
}

// Roles returns the roles the policy mentions, sorted.
func (p *Policy) Roles() []models.UserRole {
	out := make([]models.UserRole, 0, len(p.allowed))
	for r := range p.allowed {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

package procore

import (
	"strconv"
	"strings"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// Raw result fields produced by this adapter.
const (
	FieldProjectID     = "project_id"
	FieldCompanyID     = "company_id"
	FieldName          = "name"
	FieldDisplayName   = "display_name"
	FieldProjectNumber = "project_number"
	FieldAddress       = "address"
	FieldStage         = "stage"
	FieldActive        = "active"
	FieldCreatedAt     = "created_at"
	FieldUpdatedAt     = "updated_at"
)

type project struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	DisplayName   string `json:"display_name"`
	ProjectNumber string `json:"project_number"`
	Address       string `json:"address"`
	City          string `json:"city"`
	StateCode     string `json:"state_code"`
	Active        bool   `json:"active"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
	Stage         *struct {
		Name string `json:"name"`
	} `json:"project_stage"`
}

func projectToRawResult(companyID string, p project) domain.RawResult {
	raw := domain.NewRawResult(domain.ProviderProcore).
		Set(FieldProjectID, strconv.FormatInt(p.ID, 10)).
		Set(FieldCompanyID, companyID).
		Set(FieldName, p.Name).
		Set(FieldDisplayName, p.DisplayName).
		Set(FieldProjectNumber, p.ProjectNumber).
		Set(FieldAddress, joinAddress(p.Address, p.City, p.StateCode)).
		Set(FieldActive, p.Active).
		Set(FieldCreatedAt, p.CreatedAt).
		Set(FieldUpdatedAt, p.UpdatedAt)
	if p.Stage != nil {
		raw = raw.Set(FieldStage, p.Stage.Name)
	}
	return raw
}

func joinAddress(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

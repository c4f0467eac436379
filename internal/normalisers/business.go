package normalisers

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-federated/internal/connectors/procore"
	"github.com/custodia-labs/sercha-federated/internal/connectors/quickbooks"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// QuickBooks projects a customer, vendor or invoice. Entity ids are only
// unique per entity type, so the native id includes the type.
func QuickBooks(raw domain.RawResult) (domain.NormalizedResult, error) {
	entity := raw.Text(quickbooks.FieldEntityType)
	var nativeID string
	if id := raw.Text(quickbooks.FieldEntityID); id != "" {
		nativeID = entity + "/" + id
	}
	n, err := newResult(raw, nativeID, quickbooks.ResolveWebURL(raw.Fields))
	if err != nil {
		return n, err
	}

	parts := []string{entity}
	switch entity {
	case quickbooks.EntityInvoice:
		n.Title = "Invoice " + firstNonEmpty(raw.Text(quickbooks.FieldDocNumber), raw.Text(quickbooks.FieldEntityID))
		if customer := raw.Text(quickbooks.FieldCustomerName); customer != "" {
			parts = append(parts, "for "+customer)
		}
		if total, ok := raw.Float(quickbooks.FieldTotalAmount); ok {
			parts = append(parts, fmt.Sprintf("total %.2f", total))
		}
		if date := raw.Text(quickbooks.FieldTxnDate); date != "" {
			parts = append(parts, "dated "+date)
		}
	default:
		n.Title = firstNonEmpty(raw.Text(quickbooks.FieldDisplayName), raw.Text(quickbooks.FieldCompanyName))
		if email := raw.Text(quickbooks.FieldEmail); email != "" {
			parts = append(parts, email)
		}
	}
	if balance, ok := raw.Float(quickbooks.FieldBalance); ok {
		parts = append(parts, fmt.Sprintf("balance %.2f", balance))
	}
	n.Content = strings.Join(parts, " · ")
	n.CreatedAt = raw.Time(quickbooks.FieldCreatedTime)
	if n.CreatedAt == nil {
		n.CreatedAt = raw.Time(quickbooks.FieldTxnDate)
	}
	if entity != "" {
		n.Tags = []string{strings.ToLower(entity)}
	}
	setIf(n.Metadata, "realmId", raw.Text(quickbooks.FieldRealmID))
	return n, nil
}

// Procore projects a Procore project.
func Procore(raw domain.RawResult) (domain.NormalizedResult, error) {
	n, err := newResult(raw, raw.Text(procore.FieldProjectID), procore.ResolveWebURL(raw.Fields))
	if err != nil {
		return n, err
	}
	n.Title = firstNonEmpty(raw.Text(procore.FieldDisplayName), raw.Text(procore.FieldName))

	var parts []string
	if number := raw.Text(procore.FieldProjectNumber); number != "" {
		parts = append(parts, "Project "+number)
	}
	stage := raw.Text(procore.FieldStage)
	if stage != "" {
		parts = append(parts, stage)
		n.Tags = []string{stage}
	}
	if addr := raw.Text(procore.FieldAddress); addr != "" {
		parts = append(parts, addr)
	}
	n.Content = strings.Join(parts, " · ")
	n.CreatedAt = raw.Time(procore.FieldCreatedAt)
	if active, ok := raw.Fields[procore.FieldActive].(bool); ok {
		n.Metadata["active"] = active
	}
	setIf(n.Metadata, "companyId", raw.Text(procore.FieldCompanyID))
	return n, nil
}

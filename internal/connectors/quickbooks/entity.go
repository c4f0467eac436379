package quickbooks

import (
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// Raw result fields produced by this adapter.
const (
	FieldEntityType   = "entity_type"
	FieldEntityID     = "entity_id"
	FieldRealmID      = "realm_id"
	FieldDisplayName  = "display_name"
	FieldCompanyName  = "company_name"
	FieldEmail        = "email"
	FieldDocNumber    = "doc_number"
	FieldCustomerName = "customer_name"
	FieldTxnDate      = "txn_date"
	FieldTotalAmount  = "total_amount"
	FieldBalance      = "balance"
	FieldCreatedTime  = "created_time"
	FieldUpdatedTime  = "updated_time"
)

// Entity types searched.
const (
	EntityCustomer = "Customer"
	EntityVendor   = "Vendor"
	EntityInvoice  = "Invoice"
)

type queryResponse struct {
	QueryResponse struct {
		Customer []party   `json:"Customer"`
		Vendor   []party   `json:"Vendor"`
		Invoice  []invoice `json:"Invoice"`
	} `json:"QueryResponse"`
}

type metaData struct {
	CreateTime      string `json:"CreateTime"`
	LastUpdatedTime string `json:"LastUpdatedTime"`
}

type emailAddr struct {
	Address string `json:"Address"`
}

type ref struct {
	Value string `json:"value"`
	Name  string `json:"name"`
}

// party is a customer or a vendor.
type party struct {
	ID               string     `json:"Id"`
	DisplayName      string     `json:"DisplayName"`
	CompanyName      string     `json:"CompanyName"`
	PrimaryEmailAddr *emailAddr `json:"PrimaryEmailAddr"`
	Balance          float64    `json:"Balance"`
	Active           *bool      `json:"Active"`
	MetaData         metaData   `json:"MetaData"`
}

type invoice struct {
	ID          string   `json:"Id"`
	DocNumber   string   `json:"DocNumber"`
	TxnDate     string   `json:"TxnDate"`
	TotalAmt    float64  `json:"TotalAmt"`
	Balance     float64  `json:"Balance"`
	CustomerRef ref      `json:"CustomerRef"`
	MetaData    metaData `json:"MetaData"`
}

func partyToRawResult(realmID, entity string, p party) domain.RawResult {
	raw := domain.NewRawResult(domain.ProviderQuickBooks).
		Set(FieldEntityType, entity).
		Set(FieldEntityID, p.ID).
		Set(FieldRealmID, realmID).
		Set(FieldDisplayName, p.DisplayName).
		Set(FieldCompanyName, p.CompanyName).
		Set(FieldBalance, p.Balance).
		Set(FieldCreatedTime, p.MetaData.CreateTime).
		Set(FieldUpdatedTime, p.MetaData.LastUpdatedTime)
	if p.PrimaryEmailAddr != nil {
		raw = raw.Set(FieldEmail, p.PrimaryEmailAddr.Address)
	}
	return raw
}

func invoiceToRawResult(realmID string, inv invoice) domain.RawResult {
	return domain.NewRawResult(domain.ProviderQuickBooks).
		Set(FieldEntityType, EntityInvoice).
		Set(FieldEntityID, inv.ID).
		Set(FieldRealmID, realmID).
		Set(FieldDocNumber, inv.DocNumber).
		Set(FieldCustomerName, inv.CustomerRef.Name).
		Set(FieldTxnDate, inv.TxnDate).
		Set(FieldTotalAmount, inv.TotalAmt).
		Set(FieldBalance, inv.Balance).
		Set(FieldCreatedTime, inv.MetaData.CreateTime).
		Set(FieldUpdatedTime, inv.MetaData.LastUpdatedTime)
}

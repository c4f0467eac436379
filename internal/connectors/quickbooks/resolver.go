package quickbooks

// AppURL is the QuickBooks Online web app root.
const AppURL = "https://app.qbo.intuit.com/app/"

// ResolveWebURL links to the entity's page in the QuickBooks web app.
func ResolveWebURL(fields map[string]any) string {
	id, _ := fields[FieldEntityID].(string)
	if id == "" {
		return ""
	}
	switch fields[FieldEntityType] {
	case EntityCustomer:
		return AppURL + "customerdetail?nameId=" + id
	case EntityVendor:
		return AppURL + "vendordetail?nameId=" + id
	case EntityInvoice:
		return AppURL + "invoice?txnId=" + id
	default:
		return ""
	}
}

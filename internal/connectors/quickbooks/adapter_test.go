package quickbooks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federated/internal/connectors/rest"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

func newTestAdapter(srv *httptest.Server, n int) *Adapter {
	bundle := domain.CredentialBundle{UserID: "u1", Provider: domain.ProviderQuickBooks, AccessSecret: "qb"}
	client := rest.NewClient(domain.ProviderQuickBooks, srv.URL, rest.TokenSource(bundle),
		rest.WithHTTPClient(srv.Client()), rest.WithRetries(0, time.Millisecond))
	return NewWithClient(client, "9130", driven.AdapterOptions{MaxResults: n})
}

func queryHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/company/9130/query", r.URL.Path)
		stmt := r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(stmt, "from Customer"):
			_, _ = w.Write([]byte(`{"QueryResponse":{"Customer":[
				{"Id":"1","DisplayName":"Acme Budget Co","PrimaryEmailAddr":{"Address":"ap@acme.test"},"Balance":120.5,"Active":true,
				 "MetaData":{"CreateTime":"2024-01-01T10:00:00-08:00","LastUpdatedTime":"2024-02-01T10:00:00-08:00"}},
				{"Id":"2","DisplayName":"Budget Archive","Active":false}]}}`))
		case strings.Contains(stmt, "from Vendor"):
			_, _ = w.Write([]byte(`{"QueryResponse":{"Vendor":[{"Id":"7","DisplayName":"Budget Supplies"}]}}`))
		case strings.Contains(stmt, "from Invoice"):
			_, _ = w.Write([]byte(`{"QueryResponse":{"Invoice":[
				{"Id":"130","DocNumber":"BUD-1001","TxnDate":"2024-03-05","TotalAmt":900,"Balance":0,
				 "CustomerRef":{"value":"1","name":"Acme Budget Co"}}]}}`))
		default:
			t.Errorf("unexpected statement %q", stmt)
		}
	}
}

func TestAdapter_Search(t *testing.T) {
	srv := httptest.NewServer(queryHandler(t))
	defer srv.Close()

	results, err := newTestAdapter(srv, 10).Search(context.Background(), "budget")

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, EntityCustomer, results[0].Text(FieldEntityType))
	assert.Equal(t, "ap@acme.test", results[0].Text(FieldEmail))
	assert.Equal(t, EntityVendor, results[1].Text(FieldEntityType))
	assert.Equal(t, "BUD-1001", results[2].Text(FieldDocNumber))
	assert.Equal(t, "9130", results[2].Text(FieldRealmID))
}

func TestAdapter_Search_Capped(t *testing.T) {
	srv := httptest.NewServer(queryHandler(t))
	defer srv.Close()

	results, err := newTestAdapter(srv, 2).Search(context.Background(), "budget")

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestAdapter_Search_FailureFailsSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Query().Get("query"), "from Invoice") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"QueryResponse":{}}`))
	}))
	defer srv.Close()

	_, err := newTestAdapter(srv, 10).Search(context.Background(), "budget")

	assert.ErrorIs(t, err, domain.ErrAuthExpired)
}

func TestNew_RequiresRealm(t *testing.T) {
	_, err := New(domain.CredentialBundle{UserID: "u1", Provider: domain.ProviderQuickBooks, AccessSecret: "x"}, driven.AdapterOptions{})
	assert.ErrorIs(t, err, domain.ErrMalformedMetadata)
}

func TestEscapeLiteral(t *testing.T) {
	assert.Equal(t, `O\'Brien`, escapeLiteral("O'Brien"))
	assert.Equal(t, "100", escapeLiteral("100%"))
}

func TestResolveWebURL(t *testing.T) {
	assert.Equal(t, AppURL+"customerdetail?nameId=1", ResolveWebURL(map[string]any{FieldEntityType: EntityCustomer, FieldEntityID: "1"}))
	assert.Equal(t, AppURL+"vendordetail?nameId=7", ResolveWebURL(map[string]any{FieldEntityType: EntityVendor, FieldEntityID: "7"}))
	assert.Equal(t, AppURL+"invoice?txnId=130", ResolveWebURL(map[string]any{FieldEntityType: EntityInvoice, FieldEntityID: "130"}))
	assert.Equal(t, "", ResolveWebURL(map[string]any{FieldEntityType: EntityInvoice}))
}

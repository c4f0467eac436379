package normalisers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federated/internal/connectors/dropbox"
	"github.com/custodia-labs/sercha-federated/internal/connectors/github"
	"github.com/custodia-labs/sercha-federated/internal/connectors/google/calendar"
	"github.com/custodia-labs/sercha-federated/internal/connectors/google/drive"
	"github.com/custodia-labs/sercha-federated/internal/connectors/google/gmail"
	"github.com/custodia-labs/sercha-federated/internal/connectors/notion"
	"github.com/custodia-labs/sercha-federated/internal/connectors/procore"
	"github.com/custodia-labs/sercha-federated/internal/connectors/quickbooks"
	"github.com/custodia-labs/sercha-federated/internal/connectors/slack"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

func TestGmail(t *testing.T) {
	raw := domain.NewRawResult(domain.ProviderGmail).
		Set(gmail.FieldMessageID, "18c1").
		Set(gmail.FieldThreadID, "18c0").
		Set(gmail.FieldSubject, "Q1 budget").
		Set(gmail.FieldFrom, "Ada Lovelace <ada@example.com>").
		Set(gmail.FieldSnippet, "Numbers attached &amp; reviewed").
		Set(gmail.FieldLabels, []string{"INBOX", "IMPORTANT"}).
		Set(gmail.FieldInternalDate, int64(1712000000000))

	n, err := Gmail(raw)

	require.NoError(t, err)
	assert.Equal(t, "gmail:18c1", n.ID)
	assert.Equal(t, "Q1 budget", n.Title)
	assert.Equal(t, "Numbers attached & reviewed", n.Content)
	assert.Equal(t, "Ada Lovelace", n.Author)
	assert.Equal(t, "https://mail.google.com/mail/u/0/#all/18c1", n.URL)
	require.NotNil(t, n.CreatedAt)
	assert.Equal(t, int64(1712000000), n.CreatedAt.Unix())
	assert.Equal(t, []string{"INBOX", "IMPORTANT"}, n.Tags)
	assert.Equal(t, "18c0", n.Metadata["threadId"])
}

func TestGmail_MissingOptionalFields(t *testing.T) {
	n, err := Gmail(domain.NewRawResult(domain.ProviderGmail).Set(gmail.FieldMessageID, "18c1"))

	require.NoError(t, err)
	assert.Equal(t, noSubject, n.Title)
	assert.Empty(t, n.Content)
	assert.Empty(t, n.Author)
	assert.Nil(t, n.CreatedAt)
}

func TestSenderName(t *testing.T) {
	assert.Equal(t, "Ada", senderName("Ada <ada@example.com>"))
	assert.Equal(t, "ada@example.com", senderName("ada@example.com"))
	assert.Equal(t, "not an address", senderName("not an address"))
}

func TestDrive(t *testing.T) {
	raw := domain.NewRawResult(domain.ProviderGoogleDrive).
		Set(drive.FieldFileID, "f1").
		Set(drive.FieldTitle, "Budget 2024").
		Set(drive.FieldKind, "spreadsheet").
		Set(drive.FieldOwner, "Ada").
		Set(drive.FieldCreatedTime, "2024-01-02T03:04:05Z")

	n, err := Drive(raw)

	require.NoError(t, err)
	assert.Equal(t, "google-drive:f1", n.ID)
	assert.Equal(t, "https://drive.google.com/file/d/f1/view", n.URL)
	assert.Equal(t, "spreadsheet", n.Content)
	assert.Equal(t, []string{"spreadsheet"}, n.Tags)
	require.NotNil(t, n.CreatedAt)
}

func TestCalendar_FallsBackToStart(t *testing.T) {
	raw := domain.NewRawResult(domain.ProviderGoogleCalendar).
		Set(calendar.FieldEventID, "e1").
		Set(calendar.FieldTitle, "Budget review").
		Set(calendar.FieldHTMLLink, "https://www.google.com/calendar/event?eid=ZTE").
		Set(calendar.FieldContent, "<b>Agenda</b><br>Numbers").
		Set(calendar.FieldStartTime, "2024-03-10T09:00:00Z")

	n, err := Calendar(raw)

	require.NoError(t, err)
	assert.Equal(t, "Agenda\nNumbers", n.Content)
	require.NotNil(t, n.CreatedAt)
	assert.Equal(t, 9, n.CreatedAt.Hour())
	assert.Equal(t, "2024-03-10T09:00:00Z", n.Metadata["start"])
}

func TestDropbox(t *testing.T) {
	raw := domain.NewRawResult(domain.ProviderDropbox).
		Set(dropbox.FieldFileID, "id:abc").
		Set(dropbox.FieldPath, "/Finance/budget.xlsx").
		Set(dropbox.FieldSize, uint64(2048)).
		Set(dropbox.FieldModifiedTime, "2024-01-15T12:30:00Z")

	n, err := Dropbox(raw)

	require.NoError(t, err)
	assert.Equal(t, "dropbox:id:abc", n.ID)
	assert.Equal(t, "budget.xlsx", n.Title)
	assert.Equal(t, uint64(2048), n.Metadata["size"])
	require.NotNil(t, n.CreatedAt)
}

func TestNotion(t *testing.T) {
	created := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	raw := domain.NewRawResult(domain.ProviderNotion).
		Set(notion.FieldObjectID, "1a2b").
		Set(notion.FieldObjectType, "page").
		Set(notion.FieldCreatedTime, created)

	n, err := Notion(raw)

	require.NoError(t, err)
	assert.Equal(t, "Untitled", n.Title)
	assert.Equal(t, "https://www.notion.so/1a2b", n.URL)
	assert.Equal(t, &created, n.CreatedAt)
}

func TestSlack(t *testing.T) {
	raw := domain.NewRawResult(domain.ProviderSlack).
		Set(slack.FieldTS, "1712000000.000100").
		Set(slack.FieldChannelID, "C1").
		Set(slack.FieldChannelName, "finance").
		Set(slack.FieldUsername, "ada").
		Set(slack.FieldText, "Budget in <https://docs.example.com|the sheet>")

	n, err := Slack(raw)

	require.NoError(t, err)
	assert.Equal(t, "slack:C1/1712000000.000100", n.ID)
	assert.Equal(t, "Message in #finance", n.Title)
	assert.Equal(t, "Budget in the sheet", n.Content)
	assert.Equal(t, "https://slack.com/archives/C1/p1712000000000100", n.URL)
}

func TestGitHub(t *testing.T) {
	raw := domain.NewRawResult(domain.ProviderGitHub).
		Set(github.FieldNumber, int64(7)).
		Set(github.FieldRepository, "acme/ledger").
		Set(github.FieldTitle, "Budget export fails").
		Set(github.FieldBody, "## Steps\n- click **export**").
		Set(github.FieldState, "open").
		Set(github.FieldAuthor, "ada").
		Set(github.FieldLabels, []string{"bug"}).
		Set(github.FieldKind, github.KindIssue)

	n, err := GitHub(raw)

	require.NoError(t, err)
	assert.Equal(t, "github:acme/ledger#7", n.ID)
	assert.Equal(t, "Issue #7: Budget export fails", n.Title)
	assert.Equal(t, "Author: @ada | State: open | Labels: bug\nSteps\nclick export", n.Content)
	assert.Equal(t, "https://github.com/acme/ledger/issues/7", n.URL)
}

func TestQuickBooks(t *testing.T) {
	invoice := domain.NewRawResult(domain.ProviderQuickBooks).
		Set(quickbooks.FieldEntityType, quickbooks.EntityInvoice).
		Set(quickbooks.FieldEntityID, "130").
		Set(quickbooks.FieldDocNumber, "BUD-1001").
		Set(quickbooks.FieldCustomerName, "Acme").
		Set(quickbooks.FieldTotalAmount, 900.0).
		Set(quickbooks.FieldBalance, 0.0).
		Set(quickbooks.FieldTxnDate, "2024-03-05")

	n, err := QuickBooks(invoice)

	require.NoError(t, err)
	assert.Equal(t, "quickbooks:Invoice/130", n.ID)
	assert.Equal(t, "Invoice BUD-1001", n.Title)
	assert.Equal(t, "Invoice · for Acme · total 900.00 · dated 2024-03-05 · balance 0.00", n.Content)
	require.NotNil(t, n.CreatedAt)
	assert.Equal(t, []string{"invoice"}, n.Tags)

	customer := domain.NewRawResult(domain.ProviderQuickBooks).
		Set(quickbooks.FieldEntityType, quickbooks.EntityCustomer).
		Set(quickbooks.FieldEntityID, "130").
		Set(quickbooks.FieldDisplayName, "Acme")

	c, err := QuickBooks(customer)
	require.NoError(t, err)
	assert.NotEqual(t, n.ID, c.ID)
	assert.Equal(t, "Acme", c.Title)
}

func TestProcore(t *testing.T) {
	raw := domain.NewRawResult(domain.ProviderProcore).
		Set(procore.FieldProjectID, "1001").
		Set(procore.FieldName, "North Tower").
		Set(procore.FieldProjectNumber, "NT-1").
		Set(procore.FieldStage, "Construction").
		Set(procore.FieldActive, true)

	n, err := Procore(raw)

	require.NoError(t, err)
	assert.Equal(t, "procore:1001", n.ID)
	assert.Equal(t, "North Tower", n.Title)
	assert.Equal(t, "Project NT-1 · Construction", n.Content)
	assert.Equal(t, true, n.Metadata["active"])
}

func TestNewResult_URLStandsInForID(t *testing.T) {
	raw := domain.NewRawResult(domain.ProviderDropbox)

	n, err := newResult(raw, "", "https://www.dropbox.com/home/a")

	require.NoError(t, err)
	assert.Equal(t, "dropbox:https://www.dropbox.com/home/a", n.ID)
}

// Package email defines the interface for transactional email delivery and
// provides a Resend-backed implementation.
package email

import "context"

// ReportReadyParams holds the data for the email that sends a client their
// issued survey report.
type ReportReadyParams struct {
	To          string // client email address
	ClientName  string // greeting; may be empty
	SiteName    string // used in the subject line
	OrgName     string // the surveying organisation, shown as sender context
	RiskBand    string // may be empty when the survey was unassessable
	AccessToken string // opaque token inserted into the report URL
}

// PlanReceiptParams holds the data for the receipt sent after a plan upgrade.
type PlanReceiptParams struct {
	To          string
	OrgName     string
	Plan        string // e.g. "professional"
	AmountCents int64  // e.g. 4900 for $49.00
	Currency    string // e.g. "usd"
}

// Sender is the interface the worker and webhook handler use to send email.
// Tests inject a stub that records calls.
type Sender interface {
	// SendReportReady is called by the worker after PersistSurveyScores
	// succeeds.
	SendReportReady(ctx context.Context, p ReportReadyParams) error

	// SendPlanReceipt is called by the webhook handler once a plan purchase
	// has been applied.
	SendPlanReceipt(ctx context.Context, p PlanReceiptParams) error
}

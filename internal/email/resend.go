package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

// resendClient is the concrete Sender backed by the Resend API.
type resendClient struct {
	apiKey     string
	fromAddr   string // e.g. "reports@firesurvey.app"
	fromName   string // e.g. "Fire Survey"
	baseURL    string // report access URL base, e.g. "https://app.firesurvey.app"
	endpoint   string
	httpClient *http.Client
}

// NewResendClient returns a Sender that delivers email via Resend.
func NewResendClient(apiKey, fromAddr, fromName, baseURL string) Sender {
	return newResendClient(apiKey, fromAddr, fromName, baseURL, resendEndpoint)
}

func newResendClient(apiKey, fromAddr, fromName, baseURL, endpoint string) *resendClient {
	return &resendClient{
		apiKey:   apiKey,
		fromAddr: fromAddr,
		fromName: fromName,
		baseURL:  strings.TrimRight(baseURL, "/"),
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ─── RESEND API SHAPES ────────────────────────────────────────────────────────

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID    string `json:"id"`
	Error *struct {
		Name       string `json:"name"`
		Message    string `json:"message"`
		StatusCode int    `json:"statusCode"`
	} `json:"error"`
}

// ─── SENDER IMPLEMENTATION ────────────────────────────────────────────────────

// SendReportReady sends the client their report link.
func (c *resendClient) SendReportReady(ctx context.Context, p ReportReadyParams) error {
	subject := "Your fire risk survey report is ready"
	if p.SiteName != "" {
		subject = fmt.Sprintf("%s: fire risk survey report", p.SiteName)
	}

	html, err := render(reportReadyTmpl, map[string]string{
		"Greeting":  greeting(p.ClientName),
		"OrgName":   p.OrgName,
		"SiteName":  p.SiteName,
		"RiskBand":  p.RiskBand,
		"ReportURL": fmt.Sprintf("%s/report/%s", c.baseURL, p.AccessToken),
	})
	if err != nil {
		return err
	}
	return c.send(ctx, p.To, subject, html)
}

// SendPlanReceipt sends the receipt for a plan upgrade.
func (c *resendClient) SendPlanReceipt(ctx context.Context, p PlanReceiptParams) error {
	subject := "Your plan upgrade is confirmed"

	html, err := render(planReceiptTmpl, map[string]string{
		"Greeting": greeting(p.OrgName),
		"Plan":     p.Plan,
		"Amount":   formatAmount(p.AmountCents, p.Currency),
	})
	if err != nil {
		return err
	}
	return c.send(ctx, p.To, subject, html)
}

func greeting(name string) string {
	if name == "" {
		return "Hello"
	}
	return "Hello " + name
}

func formatAmount(cents int64, currency string) string {
	if strings.EqualFold(currency, "usd") || currency == "" {
		return fmt.Sprintf("$%.2f", float64(cents)/100)
	}
	return fmt.Sprintf("%.2f %s", float64(cents)/100, strings.ToUpper(currency))
}

// ─── HTTP SEND ────────────────────────────────────────────────────────────────

func (c *resendClient) send(ctx context.Context, to, subject, html string) error {
	reqBody := resendRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromAddr),
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("email: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("email: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email: http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return fmt.Errorf("email: read response: %w", err)
	}

	var parsed resendResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return fmt.Errorf("email: unmarshal response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return fmt.Errorf("email: Resend error %s: %s", parsed.Error.Name, parsed.Error.Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email: unexpected status %d: %.200s", resp.StatusCode, string(respBytes))
	}
	return nil
}

// ─── HTML TEMPLATES ───────────────────────────────────────────────────────────

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("email: render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

var reportReadyTmpl = template.Must(template.New("report_ready").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: sans-serif; color: #1a1a1a; max-width: 560px; margin: 0 auto; padding: 24px;">
  <h2 style="margin-bottom: 8px;">Your Fire Risk Survey Report</h2>
  <p>{{.Greeting}},</p>
  <p>{{if .OrgName}}{{.OrgName}} has{{else}}We have{{end}} issued the fire and property risk
  survey report{{if .SiteName}} for <strong>{{.SiteName}}</strong>{{end}}.
  {{- if .RiskBand}} The site is rated <strong>{{.RiskBand}}</strong>.{{end}}
  The report lists the recommended actions in priority order.</p>
  <p style="margin: 32px 0;">
    <a href="{{.ReportURL}}"
       style="background: #7f1d1d; color: #ffffff; padding: 12px 24px;
              border-radius: 6px; text-decoration: none; font-weight: 600;">
      View the report
    </a>
  </p>
  <p style="color: #6b7280; font-size: 14px;">
    If the button does not work, copy this URL:<br>
    <a href="{{.ReportURL}}" style="color: #6b7280;">{{.ReportURL}}</a>
  </p>
</body>
</html>`))

var planReceiptTmpl = template.Must(template.New("plan_receipt").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: sans-serif; color: #1a1a1a; max-width: 560px; margin: 0 auto; padding: 24px;">
  <h2 style="margin-bottom: 8px;">Plan upgrade confirmed</h2>
  <p>{{.Greeting}},</p>
  <p>We have received your payment of <strong>{{.Amount}}</strong>. Your organisation
  is now on the <strong>{{.Plan}}</strong> plan and the new survey allowance applies
  immediately.</p>
  <p style="color: #6b7280; font-size: 14px;">
    If you have any questions, reply to this email.
  </p>
</body>
</html>`))

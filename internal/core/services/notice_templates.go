package services

import (
	"bytes"
	"fmt"
	"html/template"

	"fee-ledger/internal/core/domain"
)

const (
	manualNoticeSubject    = "Monthly Fee Billing - Cash Flow System"
	automaticNoticeSubject = "Automatic Billing - Monthly Fee Overdue"
)

var manualNoticeTmpl = template.Must(template.New("manual").Parse(`<h2>Monthly Fee Billing</h2>
<p>Dear <strong>{{.Name}}</strong>,</p>
<p>The payment of your monthly fee for <strong>{{.Month}}</strong> is still pending.</p>
<p><strong>Amount: {{.Amount}}</strong></p>
<p>Please make the payment to keep your account up to date.</p>
<p>Thank you for your attention.</p>
<br>
<p>Kind regards,<br>Cash Flow System</p>
`))

var automaticNoticeTmpl = template.Must(template.New("automatic").Parse(`<h2>Automatic Monthly Fee Billing</h2>
<p>Dear <strong>{{.Name}}</strong>,</p>
<p>This is an automatic notice for your monthly fee for <strong>{{.Month}}</strong>.</p>
<p><strong>Amount: {{.Amount}}</strong></p>
<p>Please make the payment to avoid becoming delinquent.</p>
<p>Thank you for your attention.</p>
<br>
<p>Kind regards,<br>Cash Flow System</p>
`))

type noticeData struct {
	Name   string
	Month  string
	Amount string
}

// renderNotice returns subject and HTML body for a client in period
func renderNotice(automatic bool, c domain.Client, period domain.Period) (string, string, error) {
	tmpl, subject := manualNoticeTmpl, manualNoticeSubject
	if automatic {
		tmpl, subject = automaticNoticeTmpl, automaticNoticeSubject
	}

	data := noticeData{
		Name:   c.Name,
		Month:  fmt.Sprintf("%s/%d", period.Month, period.Year),
		Amount: "R$ " + c.MonthlyFee.StringFixed(2),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render notice: %w", err)
	}
	return subject, buf.String(), nil
}

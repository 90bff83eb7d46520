package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

// RegistrationNotice carries the details of a fresh registration to the
// email worker. SessionInfo is the human-readable "date time" label, or
// empty when no session was chosen.
type RegistrationNotice struct {
	Name        string
	Email       string
	Message     string
	SessionInfo string
}

// Notifier delivers confirmation and operator emails through the Resend
// API. Delivery is fire-and-forget: a single worker drains a buffered
// queue, failures are logged and dropped, and a full queue drops the
// notice rather than blocking the registration request.
type Notifier struct {
	jobs     chan RegistrationNotice
	client   *http.Client
	endpoint string
	apiKey   string
	from     string
	adminTo  string
}

func NewNotifier(apiKey, from, adminTo string) *Notifier {
	return &Notifier{
		jobs:     make(chan RegistrationNotice, 64),
		client:   &http.Client{Timeout: 10 * time.Second},
		endpoint: resendEndpoint,
		apiKey:   apiKey,
		from:     from,
		adminTo:  adminTo,
	}
}

func (n *Notifier) Start() {
	go func() {
		for job := range n.jobs {
			n.deliver(job)
		}
	}()
}

func (n *Notifier) Enqueue(notice RegistrationNotice) {
	select {
	case n.jobs <- notice:
	default:
		log.Printf("notifier queue full, dropping notice for %s", notice.Email)
	}
}

func (n *Notifier) deliver(job RegistrationNotice) {
	subject, html := userEmail(job.Name, job.SessionInfo)
	if err := n.sendEmail(job.Email, subject, html); err != nil {
		log.Printf("failed to send confirmation email to %s: %v", job.Email, err)
	}

	subject, html = adminEmail(job.Name, job.Email, job.Message, job.SessionInfo)
	if err := n.sendEmail(n.adminTo, subject, html); err != nil {
		log.Printf("failed to send admin notification email: %v", err)
	}
}

func (n *Notifier) sendEmail(to, subject, html string) error {
	payload, err := json.Marshal(map[string]string{
		"from":    n.from,
		"to":      to,
		"subject": subject,
		"html":    html,
	})
	if err != nil {
		return fmt.Errorf("encode email payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, n.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, body)
	}
	return nil
}

func userEmail(name, sessionInfo string) (subject, html string) {
	subject = "קיבלנו את ההרשמה שלך! 🎨"

	details := `<p>ניצור איתך קשר בקרוב לתיאום מועד מתאים.</p>`
	if sessionInfo != "" {
		details = fmt.Sprintf(`<div style="background:#FDF8F3;border-radius:12px;padding:20px;margin:20px 0;"><h3 style="margin-top:0;">פרטי הסדנה:</h3><p style="margin:0;">%s</p></div>`, sessionInfo)
	}

	html = fmt.Sprintf(`<div dir="rtl" style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;padding:20px;">
<h1>שלום %s!</h1>
<p>תודה שנרשמת לסדנה! קיבלנו את הפרטים שלך ונחזור אליך בהקדם לתיאום.</p>
%s
<p>אם יש לך שאלות, אפשר להשיב למייל הזה.</p>
<p>נתראה בסדנה! ✨</p>
</div>`, name, details)
	return subject, html
}

func adminEmail(name, email, message, sessionInfo string) (subject, html string) {
	subject = "הרשמה חדשה: " + name

	extra := ""
	if sessionInfo != "" {
		extra += fmt.Sprintf(`<p style="margin:5px 0;"><strong>סדנה:</strong> %s</p>`, sessionInfo)
	}
	if message != "" {
		extra += fmt.Sprintf(`<p style="margin:5px 0;"><strong>הערות:</strong> %s</p>`, message)
	}

	html = fmt.Sprintf(`<div dir="rtl" style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;padding:20px;">
<h1>הרשמה חדשה!</h1>
<div style="background:#FDF8F3;border-radius:12px;padding:20px;margin:20px 0;">
<h3 style="margin-top:0;">פרטי הנרשם:</h3>
<p style="margin:5px 0;"><strong>שם:</strong> %s</p>
<p style="margin:5px 0;"><strong>אימייל:</strong> <a href="mailto:%s">%s</a></p>
%s
</div>
</div>`, name, email, email, extra)
	return subject, html
}

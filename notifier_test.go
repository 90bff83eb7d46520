package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type capturedEmail struct {
	Auth    string
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func newCaptureServer(t *testing.T, status int) (*httptest.Server, *[]capturedEmail) {
	t.Helper()

	var emails []capturedEmail
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var email capturedEmail
		if err := json.NewDecoder(r.Body).Decode(&email); err != nil {
			t.Errorf("failed to decode email payload: %v", err)
		}
		email.Auth = r.Header.Get("Authorization")
		emails = append(emails, email)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &emails
}

func testNotifier(endpoint string) *Notifier {
	n := NewNotifier("test-key", "סדנאות יצירה <onboarding@resend.dev>", "owner@example.com")
	n.endpoint = endpoint
	return n
}

func TestDeliverSendsBothEmails(t *testing.T) {
	srv, emails := newCaptureServer(t, http.StatusOK)
	n := testNotifier(srv.URL)

	n.deliver(RegistrationNotice{
		Name:        "דנה לוי",
		Email:       "dana@example.com",
		Message:     "יש חניה?",
		SessionInfo: "שבת, 18 בינואר 10:00–13:00",
	})

	if len(*emails) != 2 {
		t.Fatalf("emails sent = %d, want 2", len(*emails))
	}

	user := (*emails)[0]
	if user.To != "dana@example.com" {
		t.Errorf("user email to = %q, want dana@example.com", user.To)
	}
	if user.Auth != "Bearer test-key" {
		t.Errorf("authorization = %q, want Bearer test-key", user.Auth)
	}
	if !strings.Contains(user.HTML, "דנה לוי") {
		t.Error("user email does not greet the registrant")
	}
	if !strings.Contains(user.HTML, "שבת, 18 בינואר") {
		t.Error("user email is missing the session details")
	}

	admin := (*emails)[1]
	if admin.To != "owner@example.com" {
		t.Errorf("admin email to = %q, want owner@example.com", admin.To)
	}
	if !strings.Contains(admin.Subject, "דנה לוי") {
		t.Errorf("admin subject = %q, want registrant name in it", admin.Subject)
	}
	if !strings.Contains(admin.HTML, "יש חניה?") {
		t.Error("admin email is missing the registrant message")
	}
}

func TestDeliverWithoutSessionInfo(t *testing.T) {
	srv, emails := newCaptureServer(t, http.StatusOK)
	n := testNotifier(srv.URL)

	n.deliver(RegistrationNotice{Name: "נעם", Email: "noam@example.com"})

	if len(*emails) != 2 {
		t.Fatalf("emails sent = %d, want 2", len(*emails))
	}
	if !strings.Contains((*emails)[0].HTML, "ניצור איתך קשר בקרוב") {
		t.Error("user email without session should promise a follow-up")
	}
	if strings.Contains((*emails)[1].HTML, "<strong>סדנה:</strong>") {
		t.Error("admin email should omit the session row when none was chosen")
	}
}

// Provider failures are logged and swallowed; the admin email is still
// attempted after the user email fails.
func TestDeliverSurvivesProviderFailure(t *testing.T) {
	srv, emails := newCaptureServer(t, http.StatusInternalServerError)
	n := testNotifier(srv.URL)

	n.deliver(RegistrationNotice{Name: "נעם", Email: "noam@example.com"})

	if len(*emails) != 2 {
		t.Errorf("attempted emails = %d, want 2", len(*emails))
	}
}

func TestEnqueueNeverBlocks(t *testing.T) {
	// No worker started, so the queue fills up; extra notices are dropped.
	n := testNotifier("http://127.0.0.1:0")

	for i := 0; i < cap(n.jobs)+10; i++ {
		n.Enqueue(RegistrationNotice{Name: "x", Email: "x@example.com"})
	}

	if len(n.jobs) != cap(n.jobs) {
		t.Errorf("queued jobs = %d, want %d", len(n.jobs), cap(n.jobs))
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deliver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/scoreazy/report-engine/internal/logging"
	"github.com/scoreazy/report-engine/internal/render"
)

// recordingTransport captures sent messages.
type recordingTransport struct {
	sent []Message
	err  error
}

func (r *recordingTransport) Send(_ context.Context, msg Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func testDoc() *render.Document {
	return &render.Document{
		Path:   "reports/101_report.png",
		Pages:  []string{"reports/101_report.png"},
		Preset: "base",
	}
}

func TestDeliver_InvalidAddressIsNoOp(t *testing.T) {
	for _, addr := range []string{"", "not-an-address", "   "} {
		tr := &recordingTransport{}
		m := NewMailer(tr, logging.NewNop())

		if err := m.Deliver(context.Background(), testDoc(), addr, "en"); err != nil {
			t.Errorf("Deliver(%q) returned error: %v", addr, err)
		}
		if len(tr.sent) != 0 {
			t.Errorf("Deliver(%q) attempted transport", addr)
		}
	}
}

func TestDeliver_SendsLocalizedMessage(t *testing.T) {
	tr := &recordingTransport{}
	m := NewMailer(tr, logging.NewNop())

	if err := m.Deliver(context.Background(), testDoc(), "jane@example.com", "hi"); err != nil {
		t.Fatal(err)
	}
	if len(tr.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(tr.sent))
	}

	msg := tr.sent[0]
	if msg.To != "jane@example.com" {
		t.Errorf("to = %s", msg.To)
	}
	if msg.Subject != subjects["hi"] {
		t.Errorf("subject = %q, want hindi subject", msg.Subject)
	}
	if !strings.Contains(msg.Body, feedbackHint) {
		t.Errorf("body missing feedback hint: %q", msg.Body)
	}
	if len(msg.Attachments) != 1 || msg.Attachments[0] != "reports/101_report.png" {
		t.Errorf("attachments = %v", msg.Attachments)
	}
}

func TestDeliver_UnsupportedLanguageFallsBackToEnglish(t *testing.T) {
	tr := &recordingTransport{}
	m := NewMailer(tr, logging.NewNop())

	if err := m.Deliver(context.Background(), testDoc(), "a@b.c", "de"); err != nil {
		t.Fatal(err)
	}
	if tr.sent[0].Subject != subjects["en"] {
		t.Errorf("subject = %q, want english fallback", tr.sent[0].Subject)
	}
}

func TestDeliver_TransportErrorIsReturned(t *testing.T) {
	boom := errors.New("connection refused")
	m := NewMailer(&recordingTransport{err: boom}, logging.NewNop())

	err := m.Deliver(context.Background(), testDoc(), "a@b.c", "en")
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped transport error", err)
	}
}

func TestSubjectBody_AllLanguages(t *testing.T) {
	for _, lang := range []string{"en", "hi", "es", "fr", "ar"} {
		if Subject(lang) == "" {
			t.Errorf("no subject for %s", lang)
		}
		if !strings.HasSuffix(Body(lang), feedbackHint) {
			t.Errorf("body for %s missing feedback hint", lang)
		}
	}
}

func TestValidAddress(t *testing.T) {
	if ValidAddress("") || ValidAddress("plain") {
		t.Error("addresses without @ must be rejected")
	}
	if !ValidAddress("a@b") {
		t.Error("minimal @-containing address must pass")
	}
}

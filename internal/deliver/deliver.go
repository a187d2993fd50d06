// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package deliver emails rendered report documents. Subject and body are
// localized by the record's language preference; malformed addresses are
// skipped with a warning and transport failures never abort the run.
package deliver

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/scoreazy/report-engine/internal/logging"
	"github.com/scoreazy/report-engine/internal/render"
	"github.com/scoreazy/report-engine/pkg/types"
)

// Message is one outbound report email.
type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []string
}

// Transport sends a composed message. The SMTP implementation is the
// production transport; tests record messages instead.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// subjects are the localized subject lines. Unsupported codes fall back to en.
var subjects = map[string]string{
	"en": "Your Scoreazy Learning Report",
	"hi": "आपकी स्कोरज़ी रिपोर्ट",
	"es": "Su informe de aprendizaje Scoreazy",
	"fr": "Votre rapport d'apprentissage Scoreazy",
	"ar": "تقرير سكوريزي التعليمي الخاص بك",
}

// bodies are the localized body leads; the feedback-code hint is appended
// in English for every language.
var bodies = map[string]string{
	"en": "Find attached your personalized learning report from Scoreazy\n\n",
	"hi": "स्कोरज़ी से आपकी व्यक्तिगत लर्निंग रिपोर्ट संलग्न है\n\n",
	"es": "Adjunto encontrará su informe de aprendizaje personalizado de Scoreazy\n\n",
	"fr": "Ci-joint votre rapport d'apprentissage personnalisé de Scoreazy\n\n",
	"ar": "تجد في المرفق تقرير التعلم الشخصي الخاص بك من سكوريزي\n\n",
}

const feedbackHint = "Please scan the QR code to provide feedback on this report."

// Mailer composes and sends report messages.
type Mailer struct {
	transport Transport
	log       *logging.Logger
}

// NewMailer builds a Mailer over a transport.
func NewMailer(transport Transport, log *logging.Logger) *Mailer {
	return &Mailer{transport: transport, log: log.With("component", "deliver")}
}

// Deliver sends the document to address with subject and body localized for
// lang. An empty or structurally invalid address is a logged no-op.
// Transport failures are returned for the caller to log; they are not fatal
// to the run.
func (m *Mailer) Deliver(ctx context.Context, doc *render.Document, address, lang string) error {
	if !ValidAddress(address) {
		m.log.Warn("skipping delivery for invalid address", "address", address)
		return nil
	}

	msg := Message{
		To:          address,
		Subject:     Subject(lang),
		Body:        Body(lang),
		Attachments: doc.Pages,
	}

	if err := m.transport.Send(ctx, msg); err != nil {
		return fmt.Errorf("sending report to %s: %w", address, err)
	}
	m.log.Info("report delivered", "address", address, "lang", lang)
	return nil
}

// ValidAddress is the minimal structural check applied before a transport
// attempt: the address must be non-empty and contain an "@".
func ValidAddress(address string) bool {
	return strings.Contains(address, "@")
}

// Subject returns the localized subject line for lang.
func Subject(lang string) string {
	if s, ok := subjects[lang]; ok {
		return s
	}
	return subjects["en"]
}

// Body returns the localized message body for lang.
func Body(lang string) string {
	b, ok := bodies[lang]
	if !ok {
		b = bodies["en"]
	}
	return b + feedbackHint
}

// SMTPTransport sends mail over authenticated SMTP, either on a direct TLS
// connection or a plaintext connection upgraded via STARTTLS.
type SMTPTransport struct {
	cfg types.MailConfig
}

// NewSMTPTransport validates the mail configuration.
func NewSMTPTransport(cfg types.MailConfig) (*SMTPTransport, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("mail host is required")
	}
	return &SMTPTransport{cfg: cfg}, nil
}

// Send composes and transmits one multipart message.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	opts := []mail.Option{
		mail.WithPort(t.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(t.cfg.Username),
		mail.WithPassword(t.cfg.Password),
	}
	if t.cfg.ImplicitTLS {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(t.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("building smtp client: %w", err)
	}

	m := mail.NewMsg()
	if err := m.From(t.cfg.From); err != nil {
		return fmt.Errorf("invalid sender %s: %w", t.cfg.From, err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient %s: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	for _, path := range msg.Attachments {
		m.AttachFile(path)
	}

	return client.DialAndSendWithContext(ctx, m)
}

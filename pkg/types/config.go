// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RosterConfig holds settings for the record source stage.
type RosterConfig struct {
	// CredentialsFile is the path to a Google service-account key file.
	CredentialsFile string `json:"credentials_file,omitempty" yaml:"credentials_file,omitempty"`

	// CredentialsJSON is an inline service-account key payload. When set it
	// takes priority over CredentialsFile.
	CredentialsJSON string `json:"credentials_json,omitempty" yaml:"credentials_json,omitempty"`

	// SpreadsheetID identifies the roster spreadsheet. When empty the
	// built-in sample roster is used.
	SpreadsheetID string `json:"spreadsheet_id,omitempty" yaml:"spreadsheet_id,omitempty"`

	// ReadRange is the A1-notation range to read (default "Sheet1").
	// The first row of the range is treated as the header.
	ReadRange string `json:"read_range" yaml:"read_range"`
}

// AIConfig holds settings for the generative text service.
type AIConfig struct {
	// Model is the Gemini model identifier (default "gemini-1.5-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the Gemini API. Required; the
	// run refuses to start without one.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxAttempts is the total number of attempts per API call (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`
}

// RenderConfig holds settings for the document renderer.
type RenderConfig struct {
	// ReportsDir is the directory report documents are written to
	// (default "reports").
	ReportsDir string `json:"reports_dir" yaml:"reports_dir"`

	// TempDir is the staging directory for intermediate artifacts such as
	// feedback QR images (default "temp").
	TempDir string `json:"temp_dir" yaml:"temp_dir"`

	// FeedbackBaseURL is the URL the feedback QR code points at
	// (default "https://feedback.scoreazy.com").
	FeedbackBaseURL string `json:"feedback_base_url" yaml:"feedback_base_url"`
}

// MailConfig holds settings for the delivery channel.
type MailConfig struct {
	// Host is the SMTP server hostname.
	Host string `json:"host" yaml:"host"`

	// Port is the SMTP server port (default 587).
	Port int `json:"port" yaml:"port"`

	// Username and Password authenticate against the SMTP server.
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// From is the sender address. Defaults to Username when empty.
	From string `json:"from,omitempty" yaml:"from,omitempty"`

	// ImplicitTLS selects a direct TLS connection instead of a plaintext
	// connection upgraded via STARTTLS.
	ImplicitTLS bool `json:"implicit_tls" yaml:"implicit_tls"`
}

// RetentionConfig holds settings for the retention manager.
type RetentionConfig struct {
	// Window is the delay between pipeline completion and the purge of
	// staged artifacts (default 24h).
	Window time.Duration `json:"window" yaml:"window"`

	// Salt is the secret mixed into pseudonymized student identifiers.
	Salt string `json:"salt,omitempty" yaml:"salt,omitempty"`

	// DeletionLog is the append-only file recording purge timestamps
	// (default "deletion.log").
	DeletionLog string `json:"deletion_log" yaml:"deletion_log"`
}

// Config is the full pipeline configuration, built once at startup and
// passed into each component's constructor.
type Config struct {
	Roster    RosterConfig    `json:"roster" yaml:"roster"`
	AI        AIConfig        `json:"ai" yaml:"ai"`
	Render    RenderConfig    `json:"render" yaml:"render"`
	Mail      MailConfig      `json:"mail" yaml:"mail"`
	Retention RetentionConfig `json:"retention" yaml:"retention"`

	// AuditDB is the path of the SQLite run ledger (default
	// "report-engine.db"). It lives outside the purged working directories.
	AuditDB string `json:"audit_db" yaml:"audit_db"`

	// WorkDirs are the staging directories created at startup and emptied
	// by the retention purge.
	WorkDirs []string `json:"work_dirs" yaml:"work_dirs"`
}

// DefaultWorkDirs lists the staging directories the pipeline expects.
var DefaultWorkDirs = []string{"reports", "temp", "teacher_audio"}

// ApplyDefaults fills unset fields with their documented defaults.
func (c *Config) ApplyDefaults() {
	if c.Roster.ReadRange == "" {
		c.Roster.ReadRange = "Sheet1"
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-1.5-flash"
	}
	if c.AI.MaxAttempts <= 0 {
		c.AI.MaxAttempts = 3
	}
	if c.Render.ReportsDir == "" {
		c.Render.ReportsDir = "reports"
	}
	if c.Render.TempDir == "" {
		c.Render.TempDir = "temp"
	}
	if c.Render.FeedbackBaseURL == "" {
		c.Render.FeedbackBaseURL = "https://feedback.scoreazy.com"
	}
	if c.Mail.Port == 0 {
		c.Mail.Port = 587
	}
	if c.Mail.From == "" {
		c.Mail.From = c.Mail.Username
	}
	if c.Retention.Window == 0 {
		c.Retention.Window = 24 * time.Hour
	}
	if c.Retention.Salt == "" {
		c.Retention.Salt = "default_salt"
	}
	if c.Retention.DeletionLog == "" {
		c.Retention.DeletionLog = "deletion.log"
	}
	if c.AuditDB == "" {
		c.AuditDB = "report-engine.db"
	}
	if len(c.WorkDirs) == 0 {
		c.WorkDirs = append([]string(nil), DefaultWorkDirs...)
	}
}

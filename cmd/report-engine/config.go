// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/scoreazy/report-engine/pkg/types"
)

// buildConfig assembles the pipeline configuration from viper (config file
// plus environment) with .secrets/ files as the fallback for sensitive
// values, then applies the documented defaults.
func buildConfig() types.Config {
	cfg := types.Config{
		Roster: types.RosterConfig{
			CredentialsFile: viper.GetString("roster.credentials_file"),
			CredentialsJSON: secretDefault("sheets-credentials-json", viper.GetString("roster.credentials_json")),
			SpreadsheetID:   viper.GetString("roster.spreadsheet_id"),
			ReadRange:       viper.GetString("roster.read_range"),
		},
		AI: types.AIConfig{
			Model:       viper.GetString("ai.model"),
			APIKey:      secretDefault("gemini-api-key", viper.GetString("ai.api_key")),
			MaxAttempts: viper.GetInt("ai.max_attempts"),
		},
		Render: types.RenderConfig{
			ReportsDir:      viper.GetString("render.reports_dir"),
			TempDir:         viper.GetString("render.temp_dir"),
			FeedbackBaseURL: viper.GetString("render.feedback_base_url"),
		},
		Mail: types.MailConfig{
			Host:        viper.GetString("mail.host"),
			Port:        viper.GetInt("mail.port"),
			Username:    viper.GetString("mail.username"),
			Password:    secretDefault("smtp-password", viper.GetString("mail.password")),
			From:        viper.GetString("mail.from"),
			ImplicitTLS: viper.GetBool("mail.implicit_tls"),
		},
		Retention: types.RetentionConfig{
			Window:      viper.GetDuration("retention.window"),
			Salt:        secretDefault("privacy-salt", viper.GetString("retention.salt")),
			DeletionLog: viper.GetString("retention.deletion_log"),
		},
		AuditDB:  viper.GetString("audit_db"),
		WorkDirs: viper.GetStringSlice("work_dirs"),
	}
	cfg.ApplyDefaults()
	return cfg
}

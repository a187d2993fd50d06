// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the report-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scoreazy/report-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the report-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "report-engine",
	Short: "Personalized student learning reports",
	Long: `report-engine turns a student roster into personalized learning reports.
It loads records from Google Sheets (or a built-in sample roster), derives
score trends and a VARK learning style per student, generates a narrative
with Gemini, renders an accessibility-aware report document with a feedback
QR code, and emails it to the student's contact address.

Student identifiers are pseudonymized in every log line and staged artifacts
are purged 24 hours after the run completes.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./report-engine.yaml or ~/.config/report-engine/config.yaml)")
	rootCmd.PersistentFlags().String("log-mode", "dev", "log output mode: dev or prod")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("report-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "report-engine"))
		}
	}

	viper.SetEnvPrefix("REPORT_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	bindEnvAliases()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindEnvAliases maps the environment variable names operators already use
// for these services onto the config keys, alongside the REPORT_ENGINE_*
// forms AutomaticEnv provides.
func bindEnvAliases() {
	aliases := map[string]string{
		"roster.credentials_file": "GOOGLE_APPLICATION_CREDENTIALS",
		"roster.credentials_json": "GOOGLE_APPLICATION_CREDENTIALS_JSON",
		"roster.spreadsheet_id":   "GOOGLE_SHEETS_ID",
		"ai.api_key":              "GEMINI_API_KEY",
		"mail.host":               "SMTP_SERVER",
		"mail.port":               "SMTP_PORT",
		"mail.username":           "SMTP_USER",
		"mail.password":           "SMTP_PASS",
		"mail.implicit_tls":       "SMTP_USE_SSL",
		"retention.salt":          "FERPA_SALT",
	}
	for key, env := range aliases {
		_ = viper.BindEnv(key, "REPORT_ENGINE_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

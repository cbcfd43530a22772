package utils

import "go.uber.org/zap"

// NewLogger returns a zap logger that writes to stderr. When debug is true, uses
// development config (debug level, caller info); otherwise a quiet console config at
// info level so diagnostics read well next to the table on stdout.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = ""
	return cfg.Build()
}

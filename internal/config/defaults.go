package config

const (
	defaultStagingDir        = "~/.local/share/jlcut/staging"
	defaultOutputDir         = "~/.local/share/jlcut/output"
	defaultLogDir            = "~/.local/share/jlcut/logs"
	defaultAPIBind           = "127.0.0.1:8418"
	defaultMaxUploadBytes    = 50 * 1024 * 1024
	defaultMaxExtractedBytes = 200 * 1024 * 1024
	defaultMaxOffset         = 100
	defaultRequestsPerHour   = 5
	defaultMaxGap            = 10
	defaultOffset            = 8
	defaultRetentionDays     = 60
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		Limits: Limits{
			MaxUploadBytes:    defaultMaxUploadBytes,
			MaxExtractedBytes: defaultMaxExtractedBytes,
			MaxOffset:         defaultMaxOffset,
			RequestsPerHour:   defaultRequestsPerHour,
		},
		Cuts: Cuts{
			MaxGap:        defaultMaxGap,
			DefaultOffset: defaultOffset,
		},
		History: History{
			Enabled:       true,
			RetentionDays: defaultRetentionDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package config

const (
	defaultConfigPath      = "~/.config/gifbake/config.toml"
	defaultStagingDir      = "~/.cache/gifbake/staging"
	defaultArtifactDir     = "~/.cache/gifbake/artifacts"
	defaultLogDir          = "~/.local/share/gifbake/logs"
	defaultFFmpegBinary    = "ffmpeg"
	defaultFFprobeBinary   = "ffprobe"
	defaultLoadTimeout     = 30
	defaultFrameRate       = 10
	defaultWidth           = 320
	defaultPreviewWidth    = 160
	defaultStaleAfterHours = 24
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a configuration populated with repository defaults and
// normalized paths. Environment variables are not consulted.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	_ = cfg.normalizePaths()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Paths.StagingDir == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.ArtifactDir == "" {
		c.Paths.ArtifactDir = defaultArtifactDir
	}
	if c.Paths.LogDir == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Engine.FFmpegBinary == "" {
		c.Engine.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Engine.FFprobeBinary == "" {
		c.Engine.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Engine.LoadTimeoutSeconds == 0 {
		c.Engine.LoadTimeoutSeconds = defaultLoadTimeout
	}
	if c.Convert.FrameRate == 0 {
		c.Convert.FrameRate = defaultFrameRate
	}
	if c.Convert.Width == 0 {
		c.Convert.Width = defaultWidth
	}
	if c.Convert.PreviewWidth == 0 {
		c.Convert.PreviewWidth = defaultPreviewWidth
	}
	if c.Staging.StaleAfterHours == 0 {
		c.Staging.StaleAfterHours = defaultStaleAfterHours
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

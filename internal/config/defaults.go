package config

const (
	defaultTempDir       = "~/.local/share/trailertech/tmp"
	defaultLogDir        = "~/.local/share/trailertech/logs"
	defaultTMDBLanguage  = "en-US"
	defaultTMDBBaseURL   = "https://api.themoviedb.org/3"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultMinResolution = 1080
	defaultMoviePolicy   = "last"
	defaultFFprobeBinary = "ffprobe"
	defaultYtDlpBinary   = "yt-dlp"
)

func defaultTrailerLanguages() []string {
	return []string{"en-US"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TempDir: defaultTempDir,
			LogDir:  defaultLogDir,
		},
		TMDB: TMDB{
			Language: defaultTMDBLanguage,
			BaseURL:  defaultTMDBBaseURL,
		},
		Trailers: Trailers{
			Languages:     defaultTrailerLanguages(),
			MinResolution: defaultMinResolution,
			MoviePolicy:   defaultMoviePolicy,
		},
		Tools: Tools{
			FFprobe: defaultFFprobeBinary,
			YtDlp:   defaultYtDlpBinary,
		},
		Cache: Cache{
			Path: defaultCachePath(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

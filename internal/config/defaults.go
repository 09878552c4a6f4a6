package config

const (
	defaultLibraryDir          = "~/photos"
	defaultDataDir             = "~/.local/share/pictor"
	defaultThumbnailDir        = "~/.local/share/pictor/thumbnails"
	defaultImportDir           = "~/.local/share/pictor/imports"
	defaultLogDir              = "~/.local/share/pictor/logs"
	defaultAPIBind             = "127.0.0.1:7319"
	defaultClassifierEndpoint  = "http://127.0.0.1:8421"
	defaultClassifierThreshold = 0.25
	defaultClassifierTimeout   = 120
	defaultRecognizerWorkers   = 2
	defaultTaggingBatchSize    = 8
	defaultTaggingPollInterval = 300
	defaultThumbnailMaxEdge    = 400
	defaultReviewLowerBound    = 0.30
	defaultReviewUpperBound    = 0.90
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

func defaultClassifierLabels() []string {
	return []string{
		"car", "motorcycle", "truck", "person", "crowd",
		"race track", "pit lane", "podium", "landscape", "portrait",
	}
}

func defaultRecognizerLanguages() []string {
	return []string{"en"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir:   defaultLibraryDir,
			DataDir:      defaultDataDir,
			ThumbnailDir: defaultThumbnailDir,
			ImportDir:    defaultImportDir,
			LogDir:       defaultLogDir,
			APIBind:      defaultAPIBind,
		},
		Classifier: Classifier{
			Endpoint:            defaultClassifierEndpoint,
			Labels:              defaultClassifierLabels(),
			ConfidenceThreshold: defaultClassifierThreshold,
			TimeoutSeconds:      defaultClassifierTimeout,
		},
		Recognizer: Recognizer{
			Enabled:   true,
			Languages: defaultRecognizerLanguages(),
			Workers:   defaultRecognizerWorkers,
		},
		Tagging: Tagging{
			BatchSize:    defaultTaggingBatchSize,
			PollInterval: defaultTaggingPollInterval,
		},
		Thumbnails: Thumbnails{
			MaxEdge: defaultThumbnailMaxEdge,
		},
		Review: Review{
			LowerBound: defaultReviewLowerBound,
			UpperBound: defaultReviewUpperBound,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

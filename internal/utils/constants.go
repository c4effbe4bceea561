package utils

const (
	// EmptyString represents a reusable empty string constant.
	EmptyString = ""

	// GlobalConfigDirectoryName is the directory under the user's home holding global configuration.
	GlobalConfigDirectoryName = ".codedoc"
	// ConfigFileName is the configuration file looked up locally and globally.
	ConfigFileName = "codedoc.yaml"

	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "initialize logger: %w"
)

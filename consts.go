package sharedlog

import "time"

const (
	emptyString = ""

	// EnvLogLevel names the environment variable consulted when Config.LogLevel is empty.
	EnvLogLevel = "LOG_LEVEL"

	// HeaderRequestID is read for an incoming correlation id and echoed on the response.
	HeaderRequestID = "X-Request-Id"
)

const (
	defaultLogsDir     = "logs"
	defaultCombinedDir = "combined"
	defaultErrorsDir   = "errors"

	defaultMaxSizeMB       = 2
	defaultMaxAgeDays      = 14
	defaultAsyncBufferSize = 1000
	asyncPollInterval      = 10 * time.Millisecond

	combinedSuffix = "combined"
	errorSuffix    = "error"

	// hourKeyLayout is the rotation key embedded in every file name.
	hourKeyLayout   = "2006-01-02-15"
	timestampLayout = "2006-01-02 15:04:05"

	// top of every hour
	rotationSchedule = "0 * * * *"

	maxFieldDepth = 5
)

// Field names with special meaning to the formatters.
const (
	FieldError     = "error"
	FieldStack     = "stack"
	FieldMessage   = "message"
	FieldChain     = "error_chain"
	FieldRequestID = "requestId"
	FieldPath      = "path"
	FieldMethod    = "method"
)

const (
	errMsgNilConfig      = "Logging config is nil."
	errMsgConfigInvalid  = "Logging configuration is invalid."
	errMsgWorkingDir     = "Unable to resolve the working directory."
	errMsgCreateDir      = "Failed to create log directory."
	errMsgBuildTransport = "Failed to build log transports."
	errMsgLoggerClosed   = "Logger is closed."
	errMsgReadConfig     = "Failed to read logging config file."
	errMsgParseConfig    = "Failed to parse logging config file."
	errMsgLoadEnv        = "Failed to load environment file."
	errMsgWatchConfig    = "Failed to watch logging config file."
)

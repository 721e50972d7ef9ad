package utils

// LoggerInitializationFailedMessageFormat reports a failure to construct the application logger.
const LoggerInitializationFailedMessageFormat = "initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes the fatal message printed when the CLI returns an error.
const ApplicationExecutionFailedMessage = "llmpack failed"

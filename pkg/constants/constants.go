package constants

import "github.com/go-playground/validator/v10"

type ContextKey string

const (
	LoggerKey ContextKey = "logger"
	ConfigKey ContextKey = "config"
)

// Validate is the shared struct validator; validator caches struct metadata per instance.
var Validate = validator.New(validator.WithRequiredStructEnabled())

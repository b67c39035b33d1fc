package rules

// ConfigError reports a fatal, startup-time problem with the rule config,
// tagged with one of the config.* error kinds.
type ConfigError struct {
	Kind    string // "config.parse" | "config.unreachable-rule"
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

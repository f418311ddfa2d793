package logger

// Option overrides a field of the loaded Config before the logger is built
type Option func(*Config)

// WithLevel sets the log level
func WithLevel(level string) Option {
	return func(c *Config) {
		c.Level = level
	}
}

// WithFormat sets the log format (json or console)
func WithFormat(format string) Option {
	return func(c *Config) {
		c.Format = format
	}
}

// WithOutput sets the log output (console, file, or both)
func WithOutput(output string) Option {
	return func(c *Config) {
		c.Output = output
	}
}

// Development switches to colored debug logs on stdout. Used when the HTTP
// server runs in gin debug mode.
func Development() []Option {
	return []Option{
		WithLevel("debug"),
		WithFormat("console"),
		WithOutput("console"),
	}
}

// Lambda writes JSON to stdout only; the function filesystem is read-only.
func Lambda() []Option {
	return []Option{
		WithFormat("json"),
		WithOutput("console"),
	}
}

package tui

import "go.uber.org/zap"

// Theme captures optional prefixes applied to printed messages.
type Theme struct {
	InfoPrefix    string
	ErrorPrefix   string
	WarningPrefix string
}

// DefaultTheme is used when no theme is configured.
var DefaultTheme = Theme{
	InfoPrefix:    "",
	ErrorPrefix:   "x ",
	WarningPrefix: "! ",
}

// DefaultMaxPrompts bounds re-prompts of a single invalid field.
const DefaultMaxPrompts = 3

type settings struct {
	driver     PromptDriver
	theme      Theme
	maxPrompts int
	logger     *zap.Logger
}

// Option configures the interactive flows.
type Option func(*settings)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *settings) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *settings) {
		s.theme = theme
	}
}

// WithMaxPrompts bounds how often an invalid field is asked again.
func WithMaxPrompts(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxPrompts = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		theme:      DefaultTheme,
		maxPrompts: DefaultMaxPrompts,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s
}

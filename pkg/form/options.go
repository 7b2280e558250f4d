package form

import "log/slog"

// Option configures a Form.
type Option func(*Form)

// WithSubmitHandler registers the callback that receives payloads produced by
// Submit and HandleKey.
func WithSubmitHandler(fn SubmitHandler) Option {
	return func(f *Form) {
		f.onSubmit = fn
	}
}

// WithResetHook is called after a spec change re-initialised the form. Use it
// to warn users that unsaved edits were dropped.
func WithResetHook(fn func(ResetEvent)) Option {
	return func(f *Form) {
		f.onReset = fn
	}
}

// WithLogger sets the logger used for reset warnings and validation traces.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

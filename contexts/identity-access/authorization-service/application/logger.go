package application

import "log/slog"

// ResolveLogger returns a usable logger even when wiring passed nil.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

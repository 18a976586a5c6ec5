package internal

import "log/slog"

// LevelTrace is a verbosity level below [slog.LevelDebug], used for
// per-segment tracing that is too noisy for ordinary debug logging.
const LevelTrace = slog.LevelDebug - 2

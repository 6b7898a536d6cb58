// Package log is a small leveled logger built on [log/slog].
//
// A [Logger] is a value. It is configured once with functional options and
// reconfigured by deriving a new Logger with [Logger.Wrap]. The zero value
// discards everything.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithCaller(true))
//
//	logger.Debug("loaded script", slog.String("path", path))
//
// Attributes attached with [Logger.With] are included in every message.
//
// # Levels
//
// Five levels are supported, from [LevelTrace] to [LevelError]. Messages
// below the configured level are discarded before any formatting.
//
// # Output
//
// [FormatText] writes one line per message and [FormatJSON] one object.
// With [WithPretty], values are written unquoted and JSON is indented;
// ANSI colors are added only when the output is a terminal.
//
// Timestamps use [WithTimeLayout], which accepts the names of the layouts
// in [time] or a custom layout.
//
// # Package-level Logger
//
// The functions [Trace], [Debug], [Info], [Warn] and [Error] write through
// a package-level Logger on [os.Stderr], reconfigured with [Config].
// Functions without a context argument use [DefaultContextProvider].
package log

// Package logging provides structured logging for qval using slog.
//
// Loggers write either colorized text for terminals or JSON. Levels follow
// the -v count of the CLI (see [LevelFromVerbosity]), with an extra
// [LevelTrace] below Debug for per-validator output.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  slog.LevelInfo,
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	logger.Info("plugin installed", "plugin", "builtin", "validators", 9)
//
// Loggers travel with a context via [NewContext] and [FromContext].
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	func TestSomething(t *testing.T) {
//		logger := logging.ForTest(t)
//		// logs appear in test output on failure
//	}
package logging

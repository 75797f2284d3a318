// Package logging provides the structured, subsystem-tagged logger used
// throughout quiver.
//
// The logger is a thin layer over log/slog. Every entry carries a subsystem
// attribute so that output from the extension loader, the chain resolver and
// the dispatcher can be told apart:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Registry", "Loaded %d commands", n)
//	logging.Debug("ChainResolver", "Resolving chain %s", name)
//	logging.Warn("ExtensionLoader", "Skipping disabled extension %s", id)
//	logging.Error("Dispatcher", err, "Command %s failed", name)
//
// Levels below the configured threshold are dropped before formatting.
// Calls made before InitForCLI fall back to slog's default logger, which
// keeps packages usable from tests without explicit setup.
package logging

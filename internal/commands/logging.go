package commands

import (
	"strings"

	"github.com/goliatone/go-l10n/internal/logging"
	"github.com/goliatone/go-l10n/pkg/interfaces"
)

const commandModuleRoot = "l10n.commands"

// CommandLogger returns the logger for handlers of messageType. Message types
// read "l10n.<module>.<action>", so "l10n.csv.import" logs under
// "l10n.commands.csv".
func CommandLogger(provider interfaces.LoggerProvider, messageType string) interfaces.Logger {
	module := commandModule(messageType)
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+module)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": module,
	})
}

func commandModule(messageType string) string {
	parts := strings.Split(strings.TrimSpace(messageType), ".")
	if len(parts) >= 3 && parts[0] == "l10n" && parts[1] != "" {
		return parts[1]
	}
	return "core"
}

package provider

import "strings"

// Guidance is a message-catalogue key appended to a rejection diagnostic.
type Guidance string

const (
	GuidanceNone         Guidance = ""
	GuidanceChatNotFound Guidance = "guidance.chat_not_found"
	GuidanceBotBlocked   Guidance = "guidance.bot_blocked"
	GuidanceForbidden    Guidance = "guidance.forbidden"
	GuidanceUnauthorized Guidance = "guidance.unauthorized"
)

// ClassifyRejection maps a provider error code and description to remediation
// guidance. Matching is a case-insensitive substring test on the provider's
// English wording; if the provider rewords its descriptions, matches silently
// degrade to GuidanceNone (or to the generic 403 hint).
func ClassifyRejection(code int, description string) Guidance {
	desc := strings.ToLower(description)

	switch {
	case code == 400 && strings.Contains(desc, "chat not found"):
		return GuidanceChatNotFound
	case code == 403 && strings.Contains(desc, "bot was blocked by the user"):
		return GuidanceBotBlocked
	case code == 403:
		return GuidanceForbidden
	case code == 401 && strings.Contains(desc, "unauthorized"):
		return GuidanceUnauthorized
	}
	return GuidanceNone
}

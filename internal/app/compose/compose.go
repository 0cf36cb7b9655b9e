package compose

import (
	"fmt"
	"strings"

	"github.com/Mathieu1704/icare-mvp/internal/domain"
)

// maxListedIDs caps how many sensor ids appear in a spoken answer; the full
// list stays available on the StatusSummary for other consumers.
const maxListedIDs = 10

// Answer renders the reply for one resolved intent. It is total and
// deterministic: every (intent, summary, locale) combination yields exactly
// one string.
func Answer(intent domain.Intent, summary domain.StatusSummary, locale domain.Locale) string {
	switch intent {
	case domain.IntentCheckConnectivity:
		if summary.DisconnectedCount == 0 {
			return pick(locale,
				"Oui, tous les capteurs sont connectés.",
				"Yes, all sensors are connected.")
		}
		return pick(locale,
			fmt.Sprintf("Non, %d capteurs sont déconnectés.", summary.DisconnectedCount),
			fmt.Sprintf("No, %d sensors are disconnected.", summary.DisconnectedCount))

	case domain.IntentListDisconnected:
		if summary.DisconnectedCount == 0 {
			return pick(locale,
				"Aucun capteur n'est déconnecté.",
				"No disconnected sensors.")
		}
		ids := summary.DisconnectedIDs
		if len(ids) > maxListedIDs {
			ids = ids[:maxListedIDs]
		}
		list := strings.Join(ids, ", ")
		return pick(locale,
			"Capteurs déconnectés : "+list,
			"Disconnected sensors: "+list)

	default:
		return pick(locale,
			"Je n'ai pas compris la question. Essayez par ex. : 'Tous les capteurs sont-ils connectés ?'",
			"I didn't understand the question. Try for instance: 'Are all sensors connected?'")
	}
}

func pick(locale domain.Locale, fr, en string) string {
	if locale == domain.LocaleEN {
		return en
	}
	return fr
}

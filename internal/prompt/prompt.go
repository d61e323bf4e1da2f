// Package prompt builds the single text document sent to the model on
// every chat turn: a fixed skeleton with slots for the frozen pet
// profile, the running transcript and the newest user request.
package prompt

import (
	"strings"

	"petcare-chat/internal/model"
)

const (
	HumanPrefix = "Human"
	AIPrefix    = "AI"
)

const template = `
You are a friendly and professional pet care expert.
Use the information the user gave about their pet to provide tailored recommendations.

Pet Info:
%PET_INFO%

Conversation so far:
%CHAT_HISTORY%

User's request: %HUMAN_INPUT%

Give a comprehensive bulleted list of recommendations.
`

// Render fills the template. The transcript is resent whole; trimming, if
// any, happens before the turns reach here.
func Render(petInfo string, memory []model.Turn, humanInput string) string {
	r := strings.NewReplacer(
		"%PET_INFO%", petInfo,
		"%CHAT_HISTORY%", RenderTranscript(memory),
		"%HUMAN_INPUT%", humanInput,
	)
	return r.Replace(template)
}

// RenderTranscript flattens prior turns into alternating Human/AI lines.
func RenderTranscript(memory []model.Turn) string {
	var b strings.Builder
	for i, turn := range memory {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(HumanPrefix + ": " + turn.Human)
		b.WriteString("\n")
		b.WriteString(AIPrefix + ": " + turn.AI)
	}
	return b.String()
}

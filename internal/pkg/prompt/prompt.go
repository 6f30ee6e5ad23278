// Package prompt holds the fixed instruction templates of the chat protocol:
// the transcript seed pair, the per-turn system instruction, and the notices
// shown in place of an assistant reply when a turn fails.
package prompt

import (
	"fmt"
	"strings"

	"github.com/webprompt/promptengine/internal/pkg/blueprint"
)

// ConfirmationPhrase is the explicit user signal to stop clarifying and
// generate the final prompt.
const ConfirmationPhrase = "send prompt"

// SeedAssistant is the fixed clarifying question inserted when a transcript is
// first created for a project.
const SeedAssistant = `Before I craft the full prompt, what is the most critical outcome and how many pages do you want (home, listing, detail, cart/checkout, about/contact, auth, error)? Any must-have components or data sources to include? Say "send prompt" when ready.`

// ErrorNotice is persisted as the assistant reply when the completion endpoint
// fails, so the transcript stays coherent for display.
const ErrorNotice = "I ran into a problem reaching the AI service. Your message was saved — please try again in a moment."

// FallbackNotice is used when the endpoint answered but the response carried
// no completion.
const FallbackNotice = "I received an empty response from the model. Please try rephrasing your request or send it again."

// SeedSystem wraps the blueprint for the initial system message of a
// transcript.
func SeedSystem(description string) string {
	return fmt.Sprintf("PROJECT BLUEPRINT CONTEXT:\n\n%s\n\n[SYSTEM: Initialize context based on this blueprint.]", description)
}

// System builds the per-turn system instruction. It is sent to the completion
// endpoint but never stored as a chat message. The CLARIFY/EXECUTE phase is
// not tracked anywhere: the model re-derives it from this contract each turn.
func System(name, description, format string) string {
	var sb strings.Builder

	sb.WriteString("You are an expert AI Software Architect and Product Manager helping a user build a software project.\n\n")

	sb.WriteString("PROJECT CONTEXT:\n")
	sb.WriteString("Name: " + name + "\n")
	sb.WriteString("Blueprint:\n" + description + "\n\n")

	sb.WriteString("YOUR PROCESS (STRICTLY FOLLOW THIS):\n")
	sb.WriteString("1. **ANALYZE**: Deeply understand the user's request in the context of the Project Blueprint. Do this silently.\n")
	sb.WriteString("2. **CLARIFY**: If the request is vague, ambiguous, or missing critical details, DO NOT generate the final output yet. Ask exactly ONE high-leverage clarifying question instead.\n")
	sb.WriteString(fmt.Sprintf("3. **EXECUTE**: Only when requirements are clear, or when the user explicitly says %q, generate the final response.\n\n", ConfirmationPhrase))

	sb.WriteString("CRITICAL OUTPUT RULES FOR THE EXECUTE PHASE:\n")
	sb.WriteString(fmt.Sprintf("- Output ONLY a syntactically valid %s document.\n", format))
	sb.WriteString("- NO conversational text, NO explanations, NO markdown code fences (no ```" + strings.ToLower(format) + " wrappers).\n")
	sb.WriteString(fmt.Sprintf("- JUST THE RAW %s STRING, aiming for roughly 400-800 lines.\n", format))
	sb.WriteString("- Include a per-page breakdown: name, route, purpose, key sections, and data dependencies for every page.\n")
	sb.WriteString("- Include template-appropriate behaviors (e.g. cart and checkout flows for an e-commerce blueprint).\n")
	if blueprint.WantsAutoPalette(description) {
		sb.WriteString("- The blueprint asks you to pick the palette: choose a coherent color palette and state it explicitly.\n")
	}
	sb.WriteString("- When asking clarifying questions (phase 2) you may speak normally.\n\n")

	sb.WriteString("TONE:\n")
	sb.WriteString("- Professional, insightful, and precise.\n")
	sb.WriteString("- Act like a senior partner in the project.")

	return sb.String()
}

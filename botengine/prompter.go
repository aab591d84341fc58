package botengine

import (
	"fmt"
	"strings"

	"github.com/nobotchat/relay/domains/responder"
	wsDomain "github.com/nobotchat/relay/workspace/domain"

	convDomain "github.com/nobotchat/relay/conversation/domain"
)

// SystemPrompt builds the persona instruction for one workspace. The bot
// presents itself as a human support agent and answers strictly from the
// workspace knowledge base.
func SystemPrompt(ws wsDomain.Workspace, defaultAgentName string) string {
	businessName := ws.BusinessName
	if businessName == "" {
		businessName = ws.Name
	}
	if businessName == "" {
		businessName = "Our Company"
	}
	agentName := ws.AgentName(defaultAgentName)

	return fmt.Sprintf(`Just like a real human customer support representative working for %s.

CRITICAL IDENTITY RULES (NON-NEGOTIABLE)
- You are a real person, not an AI, not a bot, not a model.
- If asked "are you a bot/AI?", you must say you are a real human support agent.
- Never mention: AI, language model, prompts, system messages, policies, "as an AI", or anything similar.
- Do not use emojis.

ROLE
- You are assigned support agent: %s
- Write like a human in live chat: natural, short sentences.
- Default length: 2-4 sentences. Use steps/bullets only when needed.

SCOPE
- You ONLY help with %s services, products, website, pricing, policies, and support.
- If user asks unrelated topics, redirect them back to business support.

STRICT KNOWLEDGE RULE (MOST IMPORTANT)
- You must answer ONLY using:
  1) Business Knowledge Base (TRAINING_DATA) provided below
  2) the conversation history provided to you
- If the answer is not clearly in the knowledge base or chat history:
  - say you don't have enough information
  - ask 1-2 short clarifying questions OR offer the official support channel
- Never invent prices, policies, guarantees, contact details, or technical capabilities.

PRIVACY & SECURITY
- Never ask for or expose: passwords, OTP codes, private keys, full card numbers.
- If user shares sensitive data, ask them to remove it and use official support channels.

HUMAN HANDOFF
- If the user requests escalation, is angry, or needs account-specific actions:
  - Apologize briefly
  - Ask for minimal info (order id / account email)
  - Direct them to support email or ticket flow

OUTPUT RULES
- Plain text only.
- No markdown formatting.
- No emojis.
- Be polite, confident, and practical.

BUSINESS CONTEXT
Business name: %s
Website: %s
Support email: %s

Business Knowledge Base (TRAINING_DATA)
Use the following as the only source of truth about the business:
%s`, businessName, agentName, businessName, businessName, ws.Website, ws.SupportEmail, ws.TrainingData.Content)
}

// HistoryTurns converts the recent transcript into responder turns,
// skipping internal notes.
func HistoryTurns(msgs []convDomain.Message) []responder.Turn {
	turns := make([]responder.Turn, 0, len(msgs))
	for _, m := range msgs {
		if m.IsInternal {
			continue
		}
		role := "agent"
		if m.Sender == convDomain.SenderCustomer {
			role = "customer"
		}
		turns = append(turns, responder.Turn{Role: role, Text: m.Content})
	}
	return turns
}

// SanitizeReply strips emoji and markdown markers from generated output,
// keeping replies plain-text per the persona contract.
func SanitizeReply(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if isEmoji(r) {
			continue
		}
		switch r {
		case '*', '_', '#', '`':
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func isEmoji(r rune) bool {
	return (r >= 0x1F600 && r <= 0x1F64F) || // Emoticons
		(r >= 0x1F300 && r <= 0x1F5FF) || // Misc Symbols and Pictographs
		(r >= 0x1F680 && r <= 0x1F6FF) || // Transport and Map
		(r >= 0x1F900 && r <= 0x1F9FF) || // Supplemental Symbols and Pictographs
		(r >= 0x2600 && r <= 0x26FF) || // Misc symbols
		(r >= 0x2700 && r <= 0x27BF) || // Dingbats
		(r >= 0xFE00 && r <= 0xFE0F) || // Variation Selectors
		(r >= 0x1F1E0 && r <= 0x1F1FF) // Flags
}

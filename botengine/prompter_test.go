package botengine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	convDomain "github.com/nobotchat/relay/conversation/domain"
	"github.com/nobotchat/relay/domains/responder"
	wsDomain "github.com/nobotchat/relay/workspace/domain"
)

func TestSystemPrompt_UsesWorkspaceIdentity(t *testing.T) {
	ws := wsDomain.Workspace{
		Name:         "acme",
		BusinessName: "Acme Corp",
		Website:      "https://acme.example",
		SupportEmail: "help@acme.example",
		Widget:       wsDomain.WidgetSettings{AgentName: "Riley"},
		TrainingData: wsDomain.TrainingData{Content: "Shipping takes 3 days."},
	}

	prompt := SystemPrompt(ws, "Support Agent")
	assert.Contains(t, prompt, "Acme Corp")
	assert.Contains(t, prompt, "Riley")
	assert.Contains(t, prompt, "https://acme.example")
	assert.Contains(t, prompt, "Shipping takes 3 days.")
}

func TestSystemPrompt_Defaults(t *testing.T) {
	prompt := SystemPrompt(wsDomain.Workspace{}, "Support Agent")
	assert.Contains(t, prompt, "Our Company")
	assert.Contains(t, prompt, "Support Agent")
}

func TestHistoryTurns_MapsRolesAndSkipsInternal(t *testing.T) {
	msgs := []convDomain.Message{
		{Sender: convDomain.SenderCustomer, Content: "where is my order"},
		{Sender: convDomain.SenderAgent, Content: "internal note", IsInternal: true},
		{Sender: convDomain.SenderBot, Content: "it ships tomorrow"},
		{Sender: convDomain.SenderAgent, Content: "anything else?"},
	}

	turns := HistoryTurns(msgs)
	assert.Equal(t, []responder.Turn{
		{Role: "customer", Text: "where is my order"},
		{Role: "agent", Text: "it ships tomorrow"},
		{Role: "agent", Text: "anything else?"},
	}, turns)
}

func TestSanitizeReply(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"markdown stripped", "**Sure!** Here is `the` answer_", "Sure! Here is the answer"},
		{"emoji stripped", "Happy to help \U0001F600\U0001F680", "Happy to help"},
		{"whitespace trimmed", "  plain answer  ", "plain answer"},
		{"empty after strip", "\U0001F389", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeReply(tc.in))
		})
	}
}

func TestSanitizeReply_KeepsRegularPunctuation(t *testing.T) {
	in := "Prices start at $10.99, see https://example.com/pricing for details."
	assert.Equal(t, in, SanitizeReply(in))
	assert.False(t, strings.ContainsAny(SanitizeReply("a*b"), "*"))
}

package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nobotchat/relay/botengine"
	"github.com/nobotchat/relay/config"
	convRepo "github.com/nobotchat/relay/conversation/repository"
	"github.com/nobotchat/relay/domains/responder"
	"github.com/nobotchat/relay/pkg/msgworker"
	"github.com/nobotchat/relay/pkg/utils"
	"github.com/nobotchat/relay/ui/rest/middleware"
	wsDomain "github.com/nobotchat/relay/workspace/domain"
	wsRepo "github.com/nobotchat/relay/workspace/repository"

	"github.com/nobotchat/relay/usecase"
)

type echoProvider struct{}

func (echoProvider) Name() string { return "stub" }
func (echoProvider) Generate(ctx context.Context, apiKey string, req responder.Request) (string, error) {
	return "echo: " + req.UserText, nil
}

type nullBroadcaster struct{}

func (nullBroadcaster) Publish(room, event string, data any) {}

func (nullBroadcaster) PublishExcept(room, event string, data any, exceptID string) {}

func testConfig() config.Config {
	return config.Config{
		AI: config.AIConfig{
			Provider:                "stub",
			GeminiAPIKey:            "test-key",
			FallbackMessage:         config.DefaultFallbackMessage,
			ResponderTimeout:        time.Second,
			DefaultReplyDelayMs:     1,
			DefaultTypingDurationMs: 1,
			DefaultAgentName:        "Support Agent",
		},
	}
}

func newWidgetApp(t *testing.T, botEnabled bool) (*fiber.App, *wsRepo.MemoryWorkspaceRepository) {
	t.Helper()

	workspaces := wsRepo.NewMemoryWorkspaceRepository()
	conversations := convRepo.NewMemoryConversationRepository()

	pool := msgworker.NewPool(2, 10)
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	t.Cleanup(func() {
		cancel()
		pool.Stop()
	})

	cfg := testConfig()
	engine := botengine.NewEngine(conversations, nullBroadcaster{}, pool, cfg.AI)
	engine.RegisterProvider(echoProvider{})

	service := usecase.NewInboxService(workspaces, conversations, nullBroadcaster{}, engine)

	require.NoError(t, workspaces.Create(context.Background(), wsDomain.Workspace{
		ID:     "ws1",
		Name:   "Acme",
		Status: wsDomain.WorkspaceStatusActive,
		BotSettings: wsDomain.BotSettings{
			Enabled:                 botEnabled,
			ReplyDelayMs:            1,
			TypingIndicatorDuration: 1,
		},
	}))

	app := fiber.New()
	app.Use(middleware.Recovery())
	InitRestWidget(app, service, cfg)
	return app, workspaces
}

func postChat(t *testing.T, app *fiber.App, workspaceID string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/widget/"+workspaceID+"/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) utils.ResponseData {
	t.Helper()
	defer resp.Body.Close()
	var data utils.ResponseData
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&data))
	return data
}

func TestWidgetChat_ReturnsBotReply(t *testing.T) {
	app, _ := newWidgetApp(t, true)

	resp := postChat(t, app, "ws1", fiber.Map{
		"message":   "hola",
		"sessionId": "session-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeResponse(t, resp)
	results, ok := data.Results.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, results["success"])
	assert.Equal(t, "echo: hola", results["response"])
	assert.NotEmpty(t, results["conversationId"])
}

func TestWidgetChat_BotDisabledRespondsWithoutReply(t *testing.T) {
	app, _ := newWidgetApp(t, false)

	resp := postChat(t, app, "ws1", fiber.Map{
		"message":   "anyone there?",
		"sessionId": "session-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeResponse(t, resp)
	results, ok := data.Results.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, results["success"])
	_, hasReply := results["response"]
	assert.False(t, hasReply, "no bot reply when the workspace bot is off")
}

func TestWidgetChat_ValidationError(t *testing.T) {
	app, _ := newWidgetApp(t, true)

	resp := postChat(t, app, "ws1", fiber.Map{"sessionId": "session-1"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	data := decodeResponse(t, resp)
	assert.Equal(t, "VALIDATION_ERROR", data.Code)
}

func TestWidgetChat_UnknownWorkspace(t *testing.T) {
	app, _ := newWidgetApp(t, true)

	resp := postChat(t, app, "ghost", fiber.Map{
		"message":   "hi",
		"sessionId": "session-1",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	data := decodeResponse(t, resp)
	assert.Equal(t, "WORKSPACE_UNAVAILABLE", data.Code)
}

func TestWidgetChat_SuspendedWorkspace(t *testing.T) {
	app, workspaces := newWidgetApp(t, true)
	ws, err := workspaces.GetByID(context.Background(), "ws1")
	require.NoError(t, err)
	ws.Status = wsDomain.WorkspaceStatusSuspended
	require.NoError(t, workspaces.Update(context.Background(), ws))

	resp := postChat(t, app, "ws1", fiber.Map{
		"message":   "hi",
		"sessionId": "session-1",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestWidgetHistory_ReturnsSessionTranscript(t *testing.T) {
	app, _ := newWidgetApp(t, true)

	resp := postChat(t, app, "ws1", fiber.Map{
		"message":   "first message",
		"sessionId": "session-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	req := httptest.NewRequest(http.MethodGet, "/widget/ws1/chat?sessionId=session-1", nil)
	histResp, err := app.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, histResp.StatusCode)

	data := decodeResponse(t, histResp)
	results, ok := data.Results.(map[string]any)
	require.True(t, ok)
	msgs, ok := results["messages"].([]any)
	require.True(t, ok)
	require.GreaterOrEqual(t, len(msgs), 1)

	first, ok := msgs[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "first message", first["content"])
	assert.Equal(t, "customer", first["sender"])
}

func TestWidgetHistory_MissingSessionID(t *testing.T) {
	app, _ := newWidgetApp(t, true)

	req := httptest.NewRequest(http.MethodGet, "/widget/ws1/chat", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWidgetHistory_NoSessionYet(t *testing.T) {
	app, _ := newWidgetApp(t, true)

	req := httptest.NewRequest(http.MethodGet, "/widget/ws1/chat?sessionId=brand-new", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeResponse(t, resp)
	results, ok := data.Results.(map[string]any)
	require.True(t, ok)
	msgs, ok := results["messages"].([]any)
	require.True(t, ok)
	assert.Empty(t, msgs)
}

package websocket

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	convDomain "github.com/nobotchat/relay/conversation/domain"
	"github.com/nobotchat/relay/domains/inbox"
	"github.com/nobotchat/relay/domains/relay"
	"github.com/nobotchat/relay/validations"
)

type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func RegisterRoutes(app fiber.Router, hub *Hub, service inbox.IInboxUsecase) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})

	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		client := NewClient(conn)
		hub.Register(client)
		go client.writeLoop()

		defer hub.Unregister(client)

		for {
			messageType, message, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logrus.Debugf("[WS] Client %s read error: %v", client.ID, err)
				}
				return
			}
			if messageType != websocket.TextMessage {
				continue
			}

			var frame inboundFrame
			if err := json.Unmarshal(message, &frame); err != nil {
				client.enqueue(Envelope{Event: relay.EventError, Data: fiber.Map{"message": "malformed frame"}})
				continue
			}

			dispatch(context.Background(), hub, service, client, frame)
		}
	}))
}

func dispatch(ctx context.Context, hub *Hub, service inbox.IInboxUsecase, client *Client, frame inboundFrame) {
	switch frame.Event {
	case "join:workspace":
		var req relay.JoinWorkspaceRequest
		if err := json.Unmarshal(frame.Data, &req); err != nil || req.WorkspaceID == "" {
			sendError(client, "workspaceId is required")
			return
		}
		hub.Subscribe(client.ID, relay.WorkspaceRoom(req.WorkspaceID))

	case "join:conversation":
		var req relay.JoinConversationRequest
		if err := json.Unmarshal(frame.Data, &req); err != nil || req.ConversationID == "" {
			sendError(client, "conversationId is required")
			return
		}
		hub.Subscribe(client.ID, relay.ConversationRoom(req.ConversationID))

	case "message:send":
		var req relay.SendMessageRequest
		if err := json.Unmarshal(frame.Data, &req); err != nil {
			sendError(client, "malformed message:send payload")
			return
		}
		handleSend(ctx, service, client, req)

	case relay.EventTypingStart, relay.EventTypingStop:
		var payload relay.TypingPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil || payload.ConversationID == "" {
			return
		}
		hub.PublishExcept(relay.ConversationRoom(payload.ConversationID), frame.Event, payload, client.ID)

	case "conversation:read":
		var req relay.ReadRequest
		if err := json.Unmarshal(frame.Data, &req); err != nil || req.ConversationID == "" {
			sendError(client, "conversationId is required")
			return
		}
		if err := service.MarkRead(ctx, req.ConversationID); err != nil {
			sendError(client, err.Error())
			return
		}
		client.enqueue(Envelope{Event: relay.EventConversationRead, Data: fiber.Map{"conversationId": req.ConversationID}})

	default:
		logrus.Debugf("[WS] Client %s sent unknown event %q", client.ID, frame.Event)
	}
}

func handleSend(ctx context.Context, service inbox.IInboxUsecase, client *Client, req relay.SendMessageRequest) {
	if err := validations.ValidateSendMessage(ctx, req); err != nil {
		sendError(client, err.Error())
		return
	}

	channel := convDomain.Channel(req.Channel)
	if req.Channel == "" {
		channel = convDomain.ChannelWidget
	}

	result, err := service.HandleInbound(ctx, inbox.InboundRequest{
		WorkspaceID:    req.WorkspaceID,
		ConversationID: req.ConversationID,
		Channel:        channel,
		ChannelID:      req.ChannelID,
		Content:        req.Content,
		Sender:         convDomain.Sender(req.Sender),
		SenderName:     req.SenderName,
		Customer: convDomain.Customer{
			Name:      req.Customer.Name,
			Email:     req.Customer.Email,
			Phone:     req.Customer.Phone,
			SessionID: req.Customer.SessionID,
		},
		OriginClientID: client.ID,
	})
	if err != nil {
		sendError(client, err.Error())
		return
	}

	client.enqueue(Envelope{Event: relay.EventMessageSent, Data: relay.MessagePayload{
		ID:             result.Message.ID,
		ConversationID: result.Message.ConversationID,
		WorkspaceID:    result.Message.WorkspaceID,
		Sender:         string(result.Message.Sender),
		SenderName:     result.Message.SenderName,
		Content:        result.Message.Content,
		ContentType:    result.Message.ContentType,
		Status:         string(result.Message.Status),
		CreatedAt:      result.Message.CreatedAt,
	}})
}

func sendError(client *Client, message string) {
	client.enqueue(Envelope{Event: relay.EventError, Data: fiber.Map{"message": message}})
}

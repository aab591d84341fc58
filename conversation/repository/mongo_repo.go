package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nobotchat/relay/conversation/domain"
)

// MongoConversationRepository persists conversations and messages in two
// collections. Single-document writes are atomic; the find-or-create used
// by the resolver is not, which is an accepted race.
type MongoConversationRepository struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

func NewMongoConversationRepository(db *mongo.Database) *MongoConversationRepository {
	return &MongoConversationRepository{
		conversations: db.Collection("conversations"),
		messages:      db.Collection("messages"),
	}
}

// EnsureIndexes creates the lookup indexes used by the resolver and the
// inbox listing. Safe to call on every boot.
func (r *MongoConversationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.conversations.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "workspaceId", Value: 1}, {Key: "channel", Value: 1}, {Key: "channelId", Value: 1}}},
		{Keys: bson.D{{Key: "workspaceId", Value: 1}, {Key: "lastMessageAt", Value: -1}}},
		{Keys: bson.D{{Key: "workspaceId", Value: 1}, {Key: "customer.sessionId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("conversation indexes: %w", err)
	}
	_, err = r.messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "conversationId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("message indexes: %w", err)
	}
	return nil
}

func (r *MongoConversationRepository) CreateConversation(ctx context.Context, c domain.Conversation) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if _, err := r.conversations.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}
	return nil
}

func (r *MongoConversationRepository) GetConversation(ctx context.Context, id string) (domain.Conversation, error) {
	var c domain.Conversation
	err := r.conversations.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Conversation{}, domain.ErrConversationNotFound
	}
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("get conversation: %w", err)
	}
	return c, nil
}

func (r *MongoConversationRepository) FindByChannel(ctx context.Context, workspaceID string, channel domain.Channel, channelID string) (domain.Conversation, error) {
	filter := bson.M{"workspaceId": workspaceID, "channel": channel, "channelId": channelID}
	opts := options.FindOne().SetSort(bson.D{{Key: "lastMessageAt", Value: -1}})

	var c domain.Conversation
	err := r.conversations.FindOne(ctx, filter, opts).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Conversation{}, domain.ErrConversationNotFound
	}
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("find conversation: %w", err)
	}
	return c, nil
}

func (r *MongoConversationRepository) FindWidgetSession(ctx context.Context, workspaceID, sessionID string) (domain.Conversation, error) {
	filter := bson.M{
		"workspaceId":        workspaceID,
		"channel":            domain.ChannelWidget,
		"customer.sessionId": sessionID,
		"status":             bson.M{"$ne": domain.StatusResolved},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var c domain.Conversation
	err := r.conversations.FindOne(ctx, filter, opts).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Conversation{}, domain.ErrConversationNotFound
	}
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("find widget session: %w", err)
	}
	return c, nil
}

func (r *MongoConversationRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]domain.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "lastMessageAt", Value: -1}})
	cur, err := r.conversations.Find(ctx, bson.M{"workspaceId": workspaceID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Conversation
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode conversations: %w", err)
	}
	return out, nil
}

func (r *MongoConversationRepository) UpdateLastMessage(ctx context.Context, id string, at time.Time, preview string, incUnread bool) (domain.Conversation, error) {
	update := bson.M{"$set": bson.M{"lastMessageAt": at, "lastMessagePreview": preview}}
	if incUnread {
		update["$inc"] = bson.M{"unreadCount": 1}
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c domain.Conversation
	err := r.conversations.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Conversation{}, domain.ErrConversationNotFound
	}
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("update last message: %w", err)
	}
	return c, nil
}

func (r *MongoConversationRepository) UpdateStatus(ctx context.Context, id string, status domain.ConversationStatus) error {
	res, err := r.conversations.UpdateByID(ctx, id, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}

func (r *MongoConversationRepository) ResetUnread(ctx context.Context, id string) error {
	res, err := r.conversations.UpdateByID(ctx, id, bson.M{"$set": bson.M{"unreadCount": 0}})
	if err != nil {
		return fmt.Errorf("reset unread: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}

func (r *MongoConversationRepository) DeleteConversation(ctx context.Context, id string) error {
	if _, err := r.messages.DeleteMany(ctx, bson.M{"conversationId": id}); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	res, err := r.conversations.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}

func (r *MongoConversationRepository) CreateMessage(ctx context.Context, m domain.Message) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if _, err := r.messages.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

func (r *MongoConversationRepository) ListRecentMessages(ctx context.Context, conversationID string, limit int) ([]domain.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.messages.Find(ctx, bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list recent messages: %w", err)
	}
	defer cur.Close(ctx)

	var newestFirst []domain.Message
	if err := cur.All(ctx, &newestFirst); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	// Back to chronological order.
	for i, j := 0, len(newestFirst)-1; i < j; i, j = i+1, j-1 {
		newestFirst[i], newestFirst[j] = newestFirst[j], newestFirst[i]
	}
	return newestFirst, nil
}

func (r *MongoConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.messages.Find(ctx, bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return out, nil
}

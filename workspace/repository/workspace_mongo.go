package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nobotchat/relay/workspace/domain"
)

// MongoWorkspaceRepository reads the workspaces collection. Workspace
// lifecycle (creation at order approval, settings edits) is owned by the
// dashboard; the relay mostly reads.
type MongoWorkspaceRepository struct {
	coll *mongo.Collection
}

func NewMongoWorkspaceRepository(db *mongo.Database) *MongoWorkspaceRepository {
	return &MongoWorkspaceRepository{coll: db.Collection("workspaces")}
}

func (r *MongoWorkspaceRepository) GetByID(ctx context.Context, id string) (domain.Workspace, error) {
	var ws domain.Workspace
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ws)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Workspace{}, domain.ErrWorkspaceNotFound
	}
	if err != nil {
		return domain.Workspace{}, fmt.Errorf("get workspace: %w", err)
	}
	return ws, nil
}

func (r *MongoWorkspaceRepository) Create(ctx context.Context, ws domain.Workspace) error {
	now := time.Now()
	if ws.CreatedAt.IsZero() {
		ws.CreatedAt = now
	}
	ws.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, ws); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	return nil
}

func (r *MongoWorkspaceRepository) Update(ctx context.Context, ws domain.Workspace) error {
	ws.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": ws.ID}, ws)
	if err != nil {
		return fmt.Errorf("update workspace: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrWorkspaceNotFound
	}
	return nil
}

func (r *MongoWorkspaceRepository) List(ctx context.Context) ([]domain.Workspace, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Workspace
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode workspaces: %w", err)
	}
	return out, nil
}

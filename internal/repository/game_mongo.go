package repo

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"goban/internal/domain/game"
	"goban/internal/errors"
)

const gamesCollection = "games"

type MongoGameRepository struct {
	log   *zap.SugaredLogger
	mongo *mongo.Database
}

func NewMongoGameRepository(log *zap.SugaredLogger, mongo *mongo.Database) *MongoGameRepository {
	return &MongoGameRepository{
		log:   log,
		mongo: mongo,
	}
}

func (g *MongoGameRepository) PutGame(ctx context.Context, gameData game.Game) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if gameData.Moves == nil {
		gameData.Moves = []game.Move{}
	}
	_, err := g.mongo.Collection(gamesCollection).InsertOne(ctx, gameData)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}

	g.log.Infof("game inserted successfully with id: %s", gameData.ID)
	return nil
}

func (g *MongoGameRepository) GetGame(ctx context.Context, gameID string) (game.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result game.Game
	err := g.mongo.Collection(gamesCollection).FindOne(ctx, bson.M{"_id": gameID}).Decode(&result)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return game.Game{}, errors.ErrGameNotFound
	} else if err != nil {
		return game.Game{}, fmt.Errorf("find game %s: %w", gameID, err)
	}
	return result, nil
}

func (g *MongoGameRepository) AppendMove(ctx context.Context, gameID string, move game.Move) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"moves": move},
		"$set":  bson.M{"updated_at": move.PlayedAt},
	}
	res, err := g.mongo.Collection(gamesCollection).UpdateOne(ctx, bson.M{"_id": gameID}, update, options.Update().SetUpsert(false))
	if err != nil {
		return fmt.Errorf("append move to game %s: %w", gameID, err)
	}
	if res.MatchedCount == 0 {
		return errors.ErrGameNotFound
	}
	return nil
}

func (g *MongoGameRepository) SetStatus(ctx context.Context, gameID string, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}
	res, err := g.mongo.Collection(gamesCollection).UpdateOne(ctx, bson.M{"_id": gameID}, update)
	if err != nil {
		return fmt.Errorf("set status of game %s: %w", gameID, err)
	}
	if res.MatchedCount == 0 {
		return errors.ErrGameNotFound
	}
	return nil
}

func (g *MongoGameRepository) ListGames(ctx context.Context, status string) ([]game.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetProjection(bson.M{"moves": 0})

	cursor, err := g.mongo.Collection(gamesCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find games: %w", err)
	}
	defer cursor.Close(ctx)

	result := []game.Game{}
	for cursor.Next(ctx) {
		var play game.Game
		if err = cursor.Decode(&play); err != nil {
			return nil, fmt.Errorf("decode game: %w", err)
		}
		result = append(result, play)
	}
	return result, cursor.Err()
}

package database

import (
	"context"
	"fmt"

	"github.com/PancyStudios/NoAdsHereGo/pkg/logger"
	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names
const (
	BlocksCollection       = "blocks"
	IgnoresCollection      = "ignores"
	AllowStringsCollection = "allowstrings"
	PenaltiesCollection    = "penalties"
	ViolatorsCollection    = "violators"
	MastersCollection      = "masters"
)

// MongoStore persists moderation records in MongoDB.
// Get-or-create and counter updates are single atomic upserts.
type MongoStore struct {
	db        *Database
	blocks    *DataManager[models.Block]
	ignores   *DataManager[models.Ignore]
	allows    *DataManager[models.AllowString]
	penalties *DataManager[models.Penalty]
	violators *DataManager[models.Violator]
	masters   *DataManager[models.Master]
}

// NewMongoStore creates a store over db. The unique indexes are ensured now if db
// is connected and again after every reconnect.
func NewMongoStore(db *Database) *MongoStore {
	s := &MongoStore{
		db:        db,
		blocks:    NewDataManager[models.Block](BlocksCollection, db),
		ignores:   NewDataManager[models.Ignore](IgnoresCollection, db),
		allows:    NewDataManager[models.AllowString](AllowStringsCollection, db),
		penalties: NewDataManager[models.Penalty](PenaltiesCollection, db),
		violators: NewDataManager[models.Violator](ViolatorsCollection, db),
		masters:   NewDataManager[models.Master](MastersCollection, db),
	}
	db.OnConnect(s.EnsureIndexes)
	return s
}

// Database returns the underlying connection
func (s *MongoStore) Database() *Database {
	return s.db
}

// EnsureIndexes creates the unique indexes the upserts rely on
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		create func(context.Context, bson.D, bool) error
		name   string
		keys   bson.D
		unique bool
	}{
		{s.blocks.EnsureIndex, BlocksCollection, bson.D{{Key: "guildId", Value: 1}, {Key: "category", Value: 1}}, true},
		{s.penalties.EnsureIndex, PenaltiesCollection, bson.D{{Key: "guildId", Value: 1}, {Key: "penaltyId", Value: 1}}, true},
		{s.violators.EnsureIndex, ViolatorsCollection, bson.D{{Key: "guildId", Value: 1}, {Key: "userId", Value: 1}}, true},
		{s.ignores.EnsureIndex, IgnoresCollection, bson.D{{Key: "guildId", Value: 1}, {Key: "category", Value: 1}}, false},
		{s.allows.EnsureIndex, AllowStringsCollection, bson.D{{Key: "guildId", Value: 1}}, false},
	}

	for _, idx := range indexes {
		if err := idx.create(ctx, idx.keys, idx.unique); err != nil {
			return fmt.Errorf("create index on %s: %w", idx.name, err)
		}
	}
	logger.Success("Índices de la base de datos verificados", "DB")
	return nil
}

func (s *MongoStore) GetOrCreateBlock(ctx context.Context, guildID string, category models.Category) (models.Block, error) {
	block, err := s.blocks.Upsert(ctx,
		bson.M{"guildId": guildID, "category": category},
		bson.M{"$setOnInsert": bson.M{"isEnabled": false}},
	)
	if err != nil {
		return models.Block{}, err
	}
	return *block, nil
}

func (s *MongoStore) ListBlocks(ctx context.Context, guildID string) ([]models.Block, error) {
	return s.blocks.GetAll(ctx, bson.M{"guildId": guildID})
}

func (s *MongoStore) SetBlock(ctx context.Context, guildID string, category models.Category, enabled bool) error {
	_, err := s.blocks.Set(ctx,
		bson.M{"guildId": guildID, "category": category},
		bson.M{"isEnabled": enabled},
	)
	return err
}

func (s *MongoStore) ListIgnores(ctx context.Context, guildID string, category models.Category) ([]models.Ignore, error) {
	query := bson.M{"guildId": guildID}
	if category != "" {
		query["category"] = bson.M{"$in": []models.Category{category, models.CategoryAll}}
	}
	return s.ignores.GetAll(ctx, query)
}

func (s *MongoStore) AddIgnore(ctx context.Context, ignore models.Ignore) error {
	return s.ignores.Insert(ctx, ignore)
}

func (s *MongoStore) RemoveIgnore(ctx context.Context, guildID, id string) (bool, error) {
	return s.ignores.Delete(ctx, bson.M{"_id": id, "guildId": guildID})
}

func (s *MongoStore) ListAllowStrings(ctx context.Context, guildID string) ([]models.AllowString, error) {
	return s.allows.GetAll(ctx, bson.M{"guildId": guildID})
}

func (s *MongoStore) AddAllowString(ctx context.Context, allow models.AllowString) error {
	return s.allows.Insert(ctx, allow)
}

func (s *MongoStore) RemoveAllowString(ctx context.Context, guildID, id string) (bool, error) {
	return s.allows.Delete(ctx, bson.M{"_id": id, "guildId": guildID})
}

func (s *MongoStore) ListPenalties(ctx context.Context, guildID string) ([]models.Penalty, error) {
	return s.penalties.GetAll(ctx, bson.M{"guildId": guildID})
}

// InsertPenalties ignores duplicates of existing penalty IDs
func (s *MongoStore) InsertPenalties(ctx context.Context, penalties []models.Penalty) error {
	err := s.penalties.Insert(ctx, penalties...)
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

func (s *MongoStore) UpsertPenalty(ctx context.Context, p models.Penalty) error {
	_, err := s.penalties.Set(ctx,
		bson.M{"guildId": p.GuildID, "penaltyId": p.PenaltyID},
		bson.M{"action": p.Action, "threshold": p.Threshold},
	)
	return err
}

func (s *MongoStore) RemovePenalty(ctx context.Context, guildID string, penaltyID int) (bool, error) {
	return s.penalties.Delete(ctx, bson.M{"guildId": guildID, "penaltyId": penaltyID})
}

func (s *MongoStore) IncrementViolator(ctx context.Context, guildID, userID string) (int, error) {
	violator, err := s.violators.Upsert(ctx,
		bson.M{"guildId": guildID, "userId": userID},
		bson.M{"$inc": bson.M{"violations": 1}},
	)
	if err != nil {
		return 0, err
	}
	return violator.Violations, nil
}

func (s *MongoStore) GetViolator(ctx context.Context, guildID, userID string) (models.Violator, error) {
	violator, err := s.violators.Upsert(ctx,
		bson.M{"guildId": guildID, "userId": userID},
		bson.M{"$setOnInsert": bson.M{"violations": 0}},
	)
	if err != nil {
		return models.Violator{}, err
	}
	return *violator, nil
}

func (s *MongoStore) ResetViolator(ctx context.Context, guildID, userID string) error {
	_, err := s.violators.Set(ctx,
		bson.M{"guildId": guildID, "userId": userID},
		bson.M{"violations": 0},
	)
	return err
}

func (s *MongoStore) ListMasters(ctx context.Context) ([]models.Master, error) {
	return s.masters.GetAll(ctx, bson.M{})
}

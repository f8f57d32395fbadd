package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/hiredesk/hiredesk/internal/models"
	"github.com/hiredesk/hiredesk/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ApplicationRepository interface {
	Insert(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	ListByUser(ctx context.Context, userID string) ([]models.Application, error)
	ListAll(ctx context.Context) ([]models.Application, error)
	SetStatus(ctx context.Context, id string, status models.ApplicationStatus, updatedAt time.Time) (*models.Application, error)
}

type applicationRepo struct {
	col *mongo.Collection
}

func NewApplicationRepo(db *mongo.Database) ApplicationRepository {
	return &applicationRepo{col: db.Collection("applications")}
}

func (r *applicationRepo) Insert(ctx context.Context, a *models.Application) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, a)
	return err
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var a models.Application
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &a, err
}

func (r *applicationRepo) ListByUser(ctx context.Context, userID string) ([]models.Application, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *applicationRepo) ListAll(ctx context.Context) ([]models.Application, error) {
	return r.list(ctx, bson.M{})
}

func (r *applicationRepo) list(ctx context.Context, filter bson.M) ([]models.Application, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	apps := []models.Application{}
	if err := cur.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// SetStatus flips the status in a single atomic document update and
// returns the record as written. Concurrent callers race on
// last-write-wins, which the decide flow accepts.
func (r *applicationRepo) SetStatus(ctx context.Context, id string, status models.ApplicationStatus, updatedAt time.Time) (*models.Application, error) {
	var a models.Application
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":     status,
			"updated_at": updatedAt.UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &a, err
}

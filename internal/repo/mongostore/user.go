package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/crucial707/taskboard/internal/models"
	"github.com/crucial707/taskboard/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id"`
	Username string             `bson:"username"`
	Password string             `bson:"password"`
}

func (d userDoc) model() models.User {
	return models.User{ID: d.ID.Hex(), Username: d.Username, PasswordHash: d.Password}
}

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	coll *mongo.Collection
}

var _ repo.UserRepo = (*UserRepo)(nil)

func NewUserRepo(coll *mongo.Collection) *UserRepo {
	return &UserRepo{coll: coll}
}

func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	doc := userDoc{
		ID:       primitive.NewObjectID(),
		Username: username,
		Password: passwordHash,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("user %q: %w", username, repo.ErrDuplicate)
		}
		return nil, err
	}
	u := doc.model()
	return &u, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var doc userDoc
	err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u := doc.model()
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.model())
	}
	return users, nil
}

package mongostore

import (
	"context"
	"errors"

	"github.com/crucial707/taskboard/internal/models"
	"github.com/crucial707/taskboard/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type taskDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Task      string             `bson:"task"`
	IsChecked bool               `bson:"isChecked"`
}

func (d taskDoc) model() models.Task {
	return models.Task{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		Task:      d.Task,
		IsChecked: d.IsChecked,
	}
}

// ==========================
// TaskRepo
// ==========================
type TaskRepo struct {
	coll *mongo.Collection
}

var _ repo.TaskRepo = (*TaskRepo)(nil)

func NewTaskRepo(coll *mongo.Collection) *TaskRepo {
	return &TaskRepo{coll: coll}
}

func (r *TaskRepo) Create(ctx context.Context, userID, text string) (*models.Task, error) {
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, repo.ErrInvalidID
	}
	doc := taskDoc{
		ID:     primitive.NewObjectID(),
		UserID: owner,
		Task:   text,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	t := doc.model()
	return &t, nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id string) (*models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repo.ErrNotFound
	}
	var doc taskDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t := doc.model()
	return &t, nil
}

func (r *TaskRepo) ListByUser(ctx context.Context, userID string) ([]models.Task, error) {
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []models.Task{}, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"user_id": owner})
	if err != nil {
		return nil, err
	}
	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(docs))
	for _, d := range docs {
		tasks = append(tasks, d.model())
	}
	return tasks, nil
}

func (r *TaskRepo) SetChecked(ctx context.Context, id string, checked bool) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"isChecked": checked}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repo.ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// Package mongostore implements repo.Store on MongoDB. Collections and field
// names match the documents written by earlier versions of the service:
// "users" {_id, username, password} and "tasks" {_id, user_id, task, isChecked}.
package mongostore

import (
	"context"
	"fmt"

	"github.com/crucial707/taskboard/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	usersCollection = "users"
	tasksCollection = "tasks"

	// DefaultDatabase is used when neither the URI nor the caller names one.
	DefaultDatabase = "test"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	users  *UserRepo
	tasks  *TaskRepo
}

var _ repo.Store = (*Store)(nil)

// DatabaseFromURI returns the database named in the URI path, or "" if none.
func DatabaseFromURI(uri string) string {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return ""
	}
	return cs.Database
}

// Open connects, pings the primary and ensures the indexes exist.
// dbName overrides the database named in the URI.
func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	if dbName == "" {
		dbName = DatabaseFromURI(uri)
	}
	if dbName == "" {
		dbName = DefaultDatabase
	}

	s := New(client, client.Database(dbName))
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func New(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client: client,
		db:     db,
		users:  NewUserRepo(db.Collection(usersCollection)),
		tasks:  NewTaskRepo(db.Collection(tasksCollection)),
	}
}

// EnsureIndexes creates the unique username index and the task owner index.
// The unique index is what makes concurrent registrations of one username safe.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users.username index: %w", err)
	}

	_, err = s.db.Collection(tasksCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create tasks.user_id index: %w", err)
	}
	return nil
}

func (s *Store) Users() repo.UserRepo { return s.users }
func (s *Store) Tasks() repo.TaskRepo { return s.tasks }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

package mongo

import (
	"context"
	"time"

	"climatesolutions/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	connectTimeout         = 10 * time.Second
	serverSelectionTimeout = 5 * time.Second
)

type MongoDB struct {
	Client   *mongo.Client
	Ctx      context.Context
	Cancel   context.CancelFunc
	URL      string
	Database string
}

func NewMongoDB(url, database string) *MongoDB {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	return &MongoDB{
		Ctx:      ctx,
		Cancel:   cancel,
		URL:      url,
		Database: database,
	}
}

func (m *MongoDB) Connect() error {
	opts := options.Client().
		ApplyURI(m.URL).
		SetServerSelectionTimeout(serverSelectionTimeout)

	client, err := mongo.Connect(m.Ctx, opts)
	if err != nil {
		return models.NewConnectionError(err, "unable to connect to MongoDB: %v", err)
	}
	m.Client = client
	if err := m.Client.Ping(m.Ctx, nil); err != nil {
		return models.NewConnectionError(err, "MongoDB unreachable: %v", err)
	}
	return nil
}

func (m *MongoDB) Disconnect() error {
	m.Cancel()
	if m.Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return m.Client.Disconnect(ctx)
}

func (m *MongoDB) GetContext() context.Context {
	return m.Ctx
}

func (m *MongoDB) DB() *mongo.Database {
	return m.Client.Database(m.Database)
}

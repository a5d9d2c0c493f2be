package mongo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	globalClient     *mongo.Client
	globalClientOnce sync.Once
	globalClientErr  error
)

func testMongoURI() string {
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		return uri
	}
	return "mongodb://localhost:27017"
}

func getGlobalTestClient(t *testing.T) *mongo.Client {
	globalClientOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(testMongoURI()).SetServerSelectionTimeout(3*time.Second))
		if err != nil {
			globalClientErr = err
			return
		}
		if err := client.Ping(ctx, nil); err != nil {
			globalClientErr = err
			return
		}
		globalClient = client
	})
	if globalClientErr != nil {
		t.Skipf("Skipping test: MongoDB unavailable: %v", globalClientErr)
	}
	return globalClient
}

type TestEnv struct {
	Client *mongo.Client
	DBName string
	DB     *mongo.Database
}

func setupTestEnv(t *testing.T) *TestEnv {
	client := getGlobalTestClient(t)

	safeName := strings.ReplaceAll(t.Name(), "/", "_")
	if len(safeName) > 20 {
		safeName = safeName[len(safeName)-20:]
	}
	dbName := fmt.Sprintf("test_ufo_%s_%d", safeName, time.Now().UnixNano()%100000)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Database(dbName).Drop(ctx)
	})

	return &TestEnv{
		Client: client,
		DBName: dbName,
		DB:     client.Database(dbName),
	}
}

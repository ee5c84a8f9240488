package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"wanderstay/config"
	"wanderstay/utils"
)

// MongoClient is the global client for the confirmed-bookings records store.
var MongoClient *mongo.Client

// InitDB connects the records store. Confirmed bookings are the one durable
// artifact of the flow, so startup fails hard when Mongo is unreachable.
func InitDB() {
	logger := utils.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(config.AppConfig.DatabaseURL).
		SetAppName("wanderstay").
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Fatal("records store connection failed", zap.Error(err))
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Fatal("records store unreachable", zap.Error(err))
	}

	MongoClient = client
	logger.Info("records store connected")
}

// CloseDB releases the records store connection during shutdown.
func CloseDB(ctx context.Context) {
	if MongoClient == nil {
		return
	}
	if err := MongoClient.Disconnect(ctx); err != nil {
		utils.GetLogger().Warn("records store disconnect failed", zap.Error(err))
	}
}

package database

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kriyatec.com/medstore-api/pkg/shared/config"
	logx "kriyatec.com/medstore-api/pkg/shared/logger"
)

type ConnObject struct {
	OrgId  string `json:"org_id" bson:"org_id"`
	Host   string `json:"host"`
	Port   int    `json:"port"`
	DbName string `json:"db_name" bson:"db_name"`
	UserId string `json:"user_id" bson:"user_id"`
	Pwd    string `json:"pwd"`
}

var (
	connMu        sync.RWMutex
	DBConnections = make(map[string]*mongo.Database)
)

// By default create shared db connection
var SharedDB *mongo.Database

const connectTimeout = 10 * time.Second

func Init(cfg config.Mongo) error {
	db, err := CreateDBConnection(cfg.Host, cfg.Port, cfg.Name, cfg.User, cfg.Password)
	if err != nil {
		return err
	}
	SharedDB = db
	return nil
}

// GetConnection returns the org's own database when db_config has an entry
// for it, otherwise the shared database.
func GetConnection(orgId string) *mongo.Database {
	connMu.RLock()
	connection, exists := DBConnections[orgId]
	connMu.RUnlock()
	if exists {
		return connection
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	var conn ConnObject
	err := SharedDB.Collection("db_config").FindOne(ctx, bson.M{"org_id": orgId}).Decode(&conn)
	if err != nil {
		return SharedDB
	}
	db, err := CreateDBConnection(conn.Host, conn.Port, conn.DbName, conn.UserId, conn.Pwd)
	if err != nil {
		logx.Error().Err(err).Str("org", orgId).Msg("org database unreachable, using shared db")
		return SharedDB
	}

	connMu.Lock()
	defer connMu.Unlock()
	if existing, ok := DBConnections[orgId]; ok {
		_ = db.Client().Disconnect(context.Background())
		return existing
	}
	DBConnections[orgId] = db
	logx.Info().Str("org", orgId).Msg("new db connection created")
	return db
}

func CreateDBConnection(host string, port int, dbName string, userid string, pwd string) (*mongo.Database, error) {
	dbUrl := fmt.Sprintf("mongodb://%s:%d/%s?retryWrites=true&w=majority", host, port, dbName)
	if userid != "" {
		dbUrl = fmt.Sprintf("mongodb://%s:%s@%s:%d/%s?retryWrites=true&authSource=admin&w=majority&authMechanism=SCRAM-SHA-256",
			url.QueryEscape(userid), url.QueryEscape(pwd), host, port, dbName)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dbUrl).SetRegistry(Registry))
	if err != nil {
		return nil, err
	}
	// Check the connection
	if err = client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping %s: %w", host, err)
	}
	return client.Database(dbName), nil
}

// Disconnect closes the shared client and every org client.
func Disconnect(ctx context.Context) {
	connMu.Lock()
	defer connMu.Unlock()
	for orgId, db := range DBConnections {
		if err := db.Client().Disconnect(ctx); err != nil {
			logx.Warn().Err(err).Str("org", orgId).Msg("disconnect failed")
		}
		delete(DBConnections, orgId)
	}
	if SharedDB != nil {
		_ = SharedDB.Client().Disconnect(ctx)
	}
}

package database

import (
	"time"

	"github.com/globalsign/mgo"

	"quizservice/src/core/config"
	"quizservice/src/core/logger"
)

var Session *mgo.Session
var DB *mgo.Database

func ConnectDB() {
	uri := config.ConfigOr("MONGO_URI", "mongodb://localhost:27017")
	dbName := config.ConfigOr("MONGO_DB_NAME", "quizservice")

	var err error
	Session, err = mgo.DialWithTimeout(uri, 10*time.Second)
	if err != nil {
		logger.Log.Fatalf("Error connecting to MongoDB: %v", err)
	}

	// Reads go to the primary so a freshly provisioned tenant store is
	// immediately visible to the request that provisioned it.
	Session.SetMode(mgo.Strong, true)

	DB = Session.DB(dbName)
	logger.Log.Info("MongoDB successfully connected!")
}

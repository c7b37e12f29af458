package config

import "github.com/medghazouan/bidayalab/internal/store"

// Opener returns the store opener for the configured driver. Validate
// must have passed.
func (c *Config) Opener() store.Opener {
	if c.DBDriver == DriverMongoDB {
		return store.MongoOpener(c.MongoURI, c.MongoDB)
	}
	return store.SQLiteOpener(c.DBPath)
}

// OpenStore prepares the store. The connection itself is made lazily.
func (c *Config) OpenStore() *store.Store {
	return store.NewStore(c.Opener())
}

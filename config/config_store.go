package config

// StoreConfig carries the Conversation Store settings read by Load.
// Nothing in this module constructs a store from Backend or
// CacheRedisAddr: cmd/hica always opens a file store at FileDir, and the
// other backends and the cache are built by calling their constructors.
type StoreConfig struct {
	// Backend names the implementation: "file", "sql", or "mongo".
	// Load defaults it to "file".
	Backend string

	// FileDir is the directory root for the file backend, read from
	// CONTEXT_DIR.
	FileDir string

	// SQLDSN is the data source name for the embedded SQL backend.
	SQLDSN string

	// MongoURI, MongoDatabase, and MongoCollection configure the
	// document backend.
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// CacheRedisAddr is the Redis address for the read-through cache
	// decorator (convstore.NewCachedStore). Empty means no cache.
	CacheRedisAddr string
}

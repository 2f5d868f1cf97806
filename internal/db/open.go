package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"runtime"
	"sync"

	"github.com/mattn/go-sqlite3"
)

const driverName = "wordclient_sqlite3"

var registerOnce sync.Once

type OpenOptions struct {
	Params    map[string]string
	CacheSize int
}

// RegisterPragmaHook registers the sqlite3 driver used by Open with a hook
// that sets the connection pragmas. Only the first call has an effect.
func RegisterPragmaHook(cacheSize int) {
	registerOnce.Do(func() {
		sql.Register(driverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(c *sqlite3.SQLiteConn) error {
				pragmas := fmt.Sprintf(`
					PRAGMA journal_mode = WAL;
					PRAGMA busy_timeout = 5000;
					PRAGMA synchronous = NORMAL;
					PRAGMA cache_size = -%d;
					PRAGMA foreign_keys = true;
					PRAGMA temp_store = memory;
				`, cacheSize)
				_, err := c.Exec(pragmas, nil)
				return err
			},
		})
	})
}

// Open opens the round journal and makes sure the schema exists.
func Open(ctx context.Context, dbFile string, opts OpenOptions) (sqldb *sql.DB, err error) {
	cacheSize := opts.CacheSize
	if cacheSize == 0 {
		cacheSize = 2000
	}
	RegisterPragmaHook(cacheSize)

	uri := &url.URL{
		Scheme: "file",
		Opaque: dbFile,
	}
	query := uri.Query()
	for k, v := range opts.Params {
		query.Set(k, v)
	}
	query.Set("_txlock", "immediate")
	uri.RawQuery = query.Encode()

	sqldb, err = sql.Open(driverName, uri.String())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			sqldb.Close()
		}
	}()
	sqldb.SetMaxOpenConns(max(4, runtime.NumCPU()))

	if _, err = sqldb.ExecContext(ctx, Schema); err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}

	return sqldb, nil
}

// SQLiteVersion returns the version of the linked sqlite library.
func SQLiteVersion() string {
	v, _, _ := sqlite3.Version()
	return v
}

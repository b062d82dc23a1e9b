package db

import (
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Clients holds the two store connections. App is the row-scoped tier used for
// user-initiated reads and writes. System connects as an elevated role that
// bypasses row-level policies; it is reserved for writes performed on behalf of
// a verified identity (user provisioning during sync). The two are never mixed
// within a single logical operation.
type Clients struct {
	App    *bun.DB
	System *bun.DB
}

func NewClients(appDSN, systemDSN string) *Clients {
	return &Clients{
		App:    NewBunPostgresClient(appDSN),
		System: NewBunPostgresClient(systemDSN),
	}
}

func (c *Clients) Close() error {
	appErr := c.App.Close()
	if err := c.System.Close(); err != nil {
		return err
	}
	return appErr
}

func NewBunPostgresClient(connectionString string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(connectionString)))

	db := bun.NewDB(sqldb, pgdialect.New())

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	return db
}

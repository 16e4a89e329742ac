// Package db manages the PostgreSQL connection pool and schema migrations.
//
// Connect opens a pgx pool with startup retry and Migrate applies
// embedded goose migrations:
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := db.Migrate(ctx, pool, storage.Migrations, cfg.MigrationsTable, log); err != nil {
//	    return err
//	}
package db

package db

import (
	"context"
	"fmt"
	"time"

	"quickdrop/internal/config"
	"quickdrop/internal/mylogger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DataBase struct {
	ctx   context.Context
	cfg   *config.DBconfig
	mylog mylogger.Logger
	pool  *pgxpool.Pool
}

// ConnectDB opens a connection pool. Claim updates and candidate lookups
// run concurrently across HTTP handlers, so they must not share a session.
func ConnectDB(ctx context.Context, dbCfg *config.DBconfig, mylog mylogger.Logger) (*DataBase, error) {
	d := &DataBase{
		cfg:   dbCfg,
		ctx:   ctx,
		mylog: mylog,
	}

	if err := d.connect(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *DataBase) GetConn() *pgxpool.Pool {
	return d.pool
}

// Close releases every pooled connection.
func (d *DataBase) Close() error {
	d.pool.Close()
	return nil
}

// IsAlive pings the DB to verify it's responsive
func (d *DataBase) IsAlive() error {
	if d.pool == nil {
		return fmt.Errorf("DB is not initialized")
	}
	if err := d.pool.Ping(d.ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// connect establishes the pool with retry logic
func (d *DataBase) connect() error {
	connStr := fmt.Sprintf(
		"postgres://%v:%v@%v:%v/%v?sslmode=disable",
		d.cfg.User,
		d.cfg.Password,
		d.cfg.Host,
		d.cfg.Port,
		d.cfg.Database,
	)

	var lastErr error
	for i := 0; i < d.cfg.MaxRetries; i++ {
		pool, err := pgxpool.New(d.ctx, connStr)
		if err == nil {
			if err = pool.Ping(d.ctx); err == nil {
				d.pool = pool
				d.mylog.Info("Successfully connected to the database")
				return nil
			}
			pool.Close()
		}

		lastErr = fmt.Errorf("failed to connect to database: %w", err)
		d.mylog.Error(fmt.Sprintf("DB connection attempt %d failed", i+1), err)

		// Linear backoff (1s, 2s, 3s, etc.)
		time.Sleep(time.Second * time.Duration(i+1))
	}

	return fmt.Errorf("failed to connect to the database after %d attempts: %w", d.cfg.MaxRetries, lastErr)
}

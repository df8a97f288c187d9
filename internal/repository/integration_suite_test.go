//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var tcPool *pgxpool.Pool

var tcDSN string

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("rider_notify"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_pass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("failed to start postgres testcontainer: %v", err)
	}

	terminate := func() {
		if termErr := pgContainer.Terminate(ctx); termErr != nil {
			log.Printf("failed to terminate postgres container: %v", termErr)
		}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		terminate()
		log.Fatalf("failed to get connection string from container: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		terminate()
		log.Fatalf("failed to create pgx pool: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		terminate()
		log.Fatalf("failed to ping postgres in testcontainer: %v", err)
	}

	tcPool = pool
	tcDSN = connStr

	if err := createTables(ctx, tcPool); err != nil {
		pool.Close()
		terminate()
		log.Fatalf("failed to create test tables: %v", err)
	}

	code := m.Run()

	pool.Close()
	terminate()
	os.Exit(code)
}

func createTables(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{`
		CREATE TABLE IF NOT EXISTS assignments (
			id             TEXT PRIMARY KEY,
			request_id     TEXT NOT NULL,
			rider_name     TEXT NOT NULL DEFAULT '',
			event_date     TIMESTAMP WITHOUT TIME ZONE NOT NULL,
			start_time     TEXT NOT NULL DEFAULT '',
			end_time       TEXT NOT NULL DEFAULT '',
			start_location TEXT NOT NULL DEFAULT '',
			end_location   TEXT NOT NULL DEFAULT '',
			status         TEXT NOT NULL,
			notified_at    TIMESTAMP WITHOUT TIME ZONE,
			sms_sent_at    TIMESTAMP WITHOUT TIME ZONE,
			email_sent_at  TIMESTAMP WITHOUT TIME ZONE,
			updated_at     TIMESTAMP WITHOUT TIME ZONE DEFAULT now() NOT NULL
		)
	`, `
		CREATE TABLE IF NOT EXISTS riders (
			name  TEXT PRIMARY KEY,
			phone TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL DEFAULT ''
		)
	`, `
		CREATE TABLE IF NOT EXISTS requests (
			id             TEXT PRIMARY KEY,
			requester_name TEXT NOT NULL DEFAULT '',
			notes          TEXT NOT NULL DEFAULT '',
			courtesy       BOOLEAN NOT NULL DEFAULT FALSE,
			co_riders      TEXT[] NOT NULL DEFAULT '{}'
		)
	`, `
		CREATE TABLE IF NOT EXISTS outbound_messages (
			id            BIGSERIAL PRIMARY KEY,
			assignment_id TEXT NOT NULL,
			recipient     TEXT NOT NULL,
			channel       TEXT NOT NULL,
			body          TEXT NOT NULL,
			external_id   TEXT NOT NULL DEFAULT '',
			result        TEXT NOT NULL,
			error         TEXT NOT NULL DEFAULT '',
			sent_at       TIMESTAMP WITHOUT TIME ZONE NOT NULL
		)
	`, `
		CREATE TABLE IF NOT EXISTS inbound_responses (
			id                  BIGSERIAL PRIMARY KEY,
			from_address        TEXT NOT NULL,
			body                TEXT NOT NULL,
			received_at         TIMESTAMP WITHOUT TIME ZONE NOT NULL,
			external_id         TEXT NOT NULL DEFAULT '',
			matched_rider       TEXT NOT NULL DEFAULT '',
			intent              TEXT NOT NULL,
			assignment_affected TEXT NOT NULL DEFAULT '',
			auto_reply_sent     BOOLEAN NOT NULL DEFAULT FALSE
		)
	`, `
		CREATE UNIQUE INDEX IF NOT EXISTS inbound_responses_external_id_uq
			ON inbound_responses (external_id) WHERE external_id <> ''
	`, `
		CREATE TABLE IF NOT EXISTS activity_log (
			id         BIGSERIAL PRIMARY KEY,
			entry      TEXT NOT NULL,
			created_at TIMESTAMP WITHOUT TIME ZONE DEFAULT now() NOT NULL
		)
	`}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create test tables: %w", err)
		}
	}
	return nil
}

func truncateAll(ctx context.Context, t *testing.T) {
	t.Helper()
	_, err := tcPool.Exec(ctx, `
		TRUNCATE assignments, riders, requests, outbound_messages,
		         inbound_responses, activity_log
	`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

package common

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
)

// TestDB opens a fresh migrated SQLite database inside the test's temporary
// directory. The file is removed together with the directory on cleanup.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mdxblog.db")

	db, err := NewDB(path)
	if err != nil {
		t.Fatalf("could not open test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestRabbitMQ starts a throwaway RabbitMQ container and returns its AMQP URL.
func TestRabbitMQ(t *testing.T) string {
	t.Helper()

	ctx := context.Background()

	container, err := rabbitmq.Run(ctx, "rabbitmq:3.12.11-management-alpine", rabbitmq.WithAdminUsername("guest"), rabbitmq.WithAdminPassword("guest"))
	if err != nil {
		t.Fatalf("could not start rabbitmq container: %v", err)
	}

	connURL, err := container.AmqpURL(ctx)
	if err != nil {
		t.Fatalf("could not get rabbitmq connection URL: %v", err)
	}

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Fatalf("could not terminate container: %v", err)
		}
	})

	return connURL
}

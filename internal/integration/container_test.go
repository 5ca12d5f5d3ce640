package integration_test

import (
	"context"
	"fmt"
	"net"

	"github.com/metinatakli/study-room-reservation-system/migrations"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnectionString string
}

type RedisContainer struct {
	*tcredis.RedisContainer
	// host:port, the form go-redis expects in Options.Addr
	ConnectionString string
}

// startPostgres runs a throwaway database with the schema migrated to the
// latest version.
func startPostgres(ctx context.Context) (*PostgresContainer, error) {
	container, err := postgres.Run(ctx,
		dbImageName,
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, fmt.Errorf("failed to build postgres dsn: %w", err)
	}

	err = migrations.Up(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate %s: %w", dbName, err)
	}

	return &PostgresContainer{PostgresContainer: container, ConnectionString: dsn}, nil
}

func startRedis(ctx context.Context) (*RedisContainer, error) {
	container, err := tcredis.Run(ctx, cacheImageName)
	if err != nil {
		return nil, fmt.Errorf("failed to start redis container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, err
	}

	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		return nil, err
	}

	return &RedisContainer{
		RedisContainer:   container,
		ConnectionString: net.JoinHostPort(host, port.Port()),
	}, nil
}

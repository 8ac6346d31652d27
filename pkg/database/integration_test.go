//go:build integration

package database

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/mock/gomock"

	"github.com/Aleph-Alpha/dbfacade/pkg/connector"
	"github.com/Aleph-Alpha/dbfacade/pkg/query"
)

// MySQLContainer represents a MySQL container for testing
type MySQLContainer struct {
	testcontainers.Container
	Config connector.Config
}

func setupMySQLContainer(ctx context.Context) (*MySQLContainer, error) {
	port, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("could not get free port: %w", err)
	}

	portBindings := nat.PortMap{
		"3306/tcp": []nat.PortBinding{{HostPort: fmt.Sprintf("%d", port)}},
	}

	req := testcontainers.ContainerRequest{
		Image: "mysql:8.0",
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "rootpass",
			"MYSQL_DATABASE":      "testdb",
			"MYSQL_USER":          "testuser",
			"MYSQL_PASSWORD":      "testpass",
		},
		ExposedPorts: []string{"3306/tcp"},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = portBindings
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(90 * time.Second),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start mysql container: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	mappedPort, err := c.MappedPort(ctx, "3306")
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	return &MySQLContainer{
		Container: c,
		Config: connector.Config{
			Driver:   "mysql",
			Host:     host,
			Port:     mappedPort.Port(),
			DbName:   "testdb",
			Charset:  "utf8mb4",
			Username: "testuser",
			Password: "testpass",
		},
	}, nil
}

func getFreePort() (int, error) {
	addr, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer func(addr net.Listener) {
		err := addr.Close()
		if err != nil {
			fmt.Printf("Failed to close listener: %v", err)
		}
	}(addr)

	return addr.Addr().(*net.TCPAddr).Port, nil
}

// connectWithRetry waits until the server accepts logins; the container log
// line can appear shortly before that.
func connectWithRetry(t *testing.T, cfg connector.Config, opts ...Option) *Database {
	t.Helper()

	deadline := time.Now().Add(30 * time.Second)
	for {
		db, err := New(cfg, opts...)
		if err == nil {
			return db
		}
		if time.Now().After(deadline) {
			require.NoError(t, err)
		}
		time.Sleep(time.Second)
	}
}

type integrationUser struct {
	ID        int64
	Name      string
	Age       int
	CreatedAt time.Time
	loaded    bool
}

func (u *integrationUser) MarkLoaded() { u.loaded = true }

func TestMySQLIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	mysqlContainer, err := setupMySQLContainer(ctx)
	require.NoError(t, err)
	defer func() {
		if err := mysqlContainer.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	ctrl := gomock.NewController(t)
	mockLogger := NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Debug(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	db := connectWithRetry(t, mysqlContainer.Config, WithLogger(mockLogger))
	defer db.Close()

	assert.Equal(t,
		fmt.Sprintf("mysql:host=%s;port=%s;dbname=testdb;charset=utf8mb4", mysqlContainer.Config.Host, mysqlContainer.Config.Port),
		db.Conn().Descriptor())

	_, err = db.SQL(`CREATE TABLE users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(64) NOT NULL UNIQUE,
		age INT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`).ExecuteStatus(ctx)
	require.NoError(t, err)
	db.Clear()

	t.Run("InsertAndLastInsertID", func(t *testing.T) {
		for i, name := range []string{"alice", "bob", "carol"} {
			ok, err := db.Table("users").InsertNow(ctx, map[string]any{"name": name, "age": 20 + i*10})
			require.NoError(t, err)
			assert.True(t, ok)

			id, err := db.LastInsertID()
			require.NoError(t, err)
			assert.Equal(t, int64(i+1), id)
		}
	})

	t.Run("DuplicateKey", func(t *testing.T) {
		_, err := db.Table("users").InsertNow(ctx, map[string]any{"name": "alice", "age": 1})
		assert.ErrorIs(t, err, ErrStatement)
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})

	t.Run("FetchRawRows", func(t *testing.T) {
		rows, err := db.Table("users").Select("name", "age").Where("age", ">=", 30, query.And).Asc("id").All(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "bob", rows[0].(query.Row)["name"])
		assert.Equal(t, int64(30), rows[0].(query.Row)["age"])
	})

	t.Run("Hydration", func(t *testing.T) {
		require.NoError(t, db.SetModel(StructModel[integrationUser](), "users"))
		u, err := FirstAs[*integrationUser](ctx, db.Desc("id"))
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "carol", u.Name)
		assert.False(t, u.CreatedAt.IsZero())
		assert.True(t, u.loaded)
	})

	t.Run("UpdateAndDeleteByKey", func(t *testing.T) {
		ok, err := db.Table("users").UpdateByKey(ctx, map[string]any{"id": 2, "age": 99}, "id")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = db.Table("users").DeleteByKey(ctx, "id", 1)
		require.NoError(t, err)
		assert.True(t, ok)

		rows, err := db.Table("users").Asc("id").All(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, int64(99), rows[0].(query.Row)["age"])
	})

	t.Run("Reconnect", func(t *testing.T) {
		require.NoError(t, db.Reconnect(ctx))
		row, err := db.Table("users").Where("name", "=", "carol", query.And).First(ctx)
		require.NoError(t, err)
		assert.Equal(t, "carol", row.(query.Row)["name"])
	})
}

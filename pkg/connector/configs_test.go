package connector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeOptionsDeep(t *testing.T) {
	defaults := Options{
		"parseTime": "true",
		"tls":       map[string]any{"enabled": false, "ca": "/etc/ca.pem"},
	}
	caller := Options{
		"timeout": "5s",
		"tls":     map[string]any{"enabled": true},
	}

	merged := MergeOptions(defaults, caller)

	assert.Equal(t, Options{
		"parseTime": "true",
		"timeout":   "5s",
		"tls":       map[string]any{"enabled": true, "ca": "/etc/ca.pem"},
	}, merged)

	// inputs untouched
	assert.Equal(t, false, defaults["tls"].(map[string]any)["enabled"])
	assert.NotContains(t, caller["tls"].(map[string]any), "ca")
}

func TestMergeOptionsScalarReplacesMap(t *testing.T) {
	merged := MergeOptions(Options{"tls": map[string]any{"enabled": true}}, Options{"tls": "skip-verify"})
	assert.Equal(t, "skip-verify", merged["tls"])
}

func TestMergeOptionsNil(t *testing.T) {
	assert.Equal(t, Options{}, MergeOptions(nil, nil))
	assert.Equal(t, Options{"a": 1}, MergeOptions(nil, Options{"a": 1}))
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Options = Options{"parseTime": "true", "loc": "Local"}

	got := Merge(base, Config{
		Host:    "localhost",
		DbName:  "foo",
		Options: Options{"loc": "UTC"},
	})

	assert.Equal(t, "mysql", got.Driver)
	assert.Equal(t, "localhost", got.Host)
	assert.Equal(t, "foo", got.DbName)
	assert.Empty(t, got.Port)
	assert.Equal(t, Options{"parseTime": "true", "loc": "UTC"}, got.Options)

	got = Merge(base, Config{Driver: "sqlite"})
	assert.Equal(t, "sqlite", got.Driver)
}

func TestFromMap(t *testing.T) {
	cfg, err := FromMap(map[string]any{
		"driver":   "mysql",
		"host":     "localhost",
		"port":     3306,
		"dbname":   "foo",
		"charset":  "utf8mb4",
		"username": "root",
		"password": "secret",
		"options": map[string]any{
			"timeout": "5s",
			"tls":     map[string]any{"enabled": true},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, Config{
		Driver:   "mysql",
		Host:     "localhost",
		Port:     "3306",
		DbName:   "foo",
		Charset:  "utf8mb4",
		Username: "root",
		Password: "secret",
		Options: Options{
			"timeout": "5s",
			"tls":     map[string]any{"enabled": true},
		},
	}, cfg)
}

func TestFromMapRejectsUnknownKeys(t *testing.T) {
	_, err := FromMap(map[string]any{"host": "localhost", "hostname": "typo"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

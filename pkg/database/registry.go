package database

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Aleph-Alpha/dbfacade/pkg/connector"
	"github.com/Aleph-Alpha/dbfacade/pkg/grammar"
	"github.com/Aleph-Alpha/dbfacade/pkg/query"
)

// Driver pairs the connector and grammar factories for one dialect.
type Driver struct {
	Connector func() connector.Connector
	Grammar   func() query.Grammar
}

// builtinDrivers are the dialect names and aliases resolved by the connector
// and grammar packages.
var builtinDrivers = []string{"mysql", "mariadb", "postgres", "pgsql", "sqlite", "sqlite3"}

var (
	driversMu sync.RWMutex
	drivers   = newBuiltinDrivers()
)

func newBuiltinDrivers() map[string]Driver {
	registered := make(map[string]Driver, len(builtinDrivers))
	for _, name := range builtinDrivers {
		registered[name] = builtinDriver(name)
	}
	return registered
}

// builtinDriver resolves name once so a missing dialect fails at init.
func builtinDriver(name string) Driver {
	con, err := connector.New(name)
	if err != nil {
		panic(err)
	}
	if _, err := grammar.New(name); err != nil {
		panic(err)
	}

	return Driver{
		Connector: func() connector.Connector { return con },
		Grammar: func() query.Grammar {
			g, _ := grammar.New(name)
			return g
		},
	}
}

// RegisterDriver makes a driver available under name. It is meant to be
// called from init functions; names can not be registered twice.
func RegisterDriver(name string, driver Driver) error {
	if name == "" {
		return fmt.Errorf("%w: driver name can not be blank", ErrConfiguration)
	}
	if driver.Connector == nil || driver.Grammar == nil {
		return fmt.Errorf("%w: driver %q needs both a connector and a grammar", ErrConfiguration, name)
	}

	driversMu.Lock()
	defer driversMu.Unlock()

	if _, exists := drivers[name]; exists {
		return fmt.Errorf("%w: driver %q is already registered", ErrConfiguration, name)
	}
	drivers[name] = driver
	return nil
}

// Drivers returns the registered driver names, sorted.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()

	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupDriver(name string) (Driver, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()

	driver, ok := drivers[name]
	if !ok {
		return Driver{}, fmt.Errorf("%w: unknown driver %q", ErrConfiguration, name)
	}
	return driver, nil
}

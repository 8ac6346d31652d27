// Package connector turns a database configuration into one live connection.
//
// Each dialect has a Connector. DSN validates the configuration and renders
// the dialect's descriptor without touching the network:
//
//	dsn, err := connector.MySQL{}.DSN(connector.Config{
//		Host:    "localhost",
//		Port:    "123",
//		DbName:  "foo",
//		Charset: "utf8mb4",
//	})
//	// mysql:host=localhost;port=123;dbname=foo;charset=utf8mb4
//
// Connect opens the connection through gorm and pins a single session, on
// which every statement is prepared. Connectors never retry.
package connector

// internal/config/database.go
package config

import (
	"fmt"
)

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// Addr is a password-free form suitable for logs.
func (d *DatabaseConfig) Addr() string {
	return fmt.Sprintf("%s:%s/%s", d.Host, d.Port, d.Database)
}

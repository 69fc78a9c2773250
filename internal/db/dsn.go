package db

import (
	"os"
	"strings"
)

// NormalizeDSN accepts a go-sql-driver DSN (user:pass@tcp(host:port)/base)
// with or without the mysql:// scheme prefix, trims quotes and whitespace,
// and guarantees the options gorm relies on (parseTime).
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return s
	}
	s = strings.TrimPrefix(s, "mysql://")
	if !strings.Contains(s, "parseTime") {
		if strings.Contains(s, "?") {
			s += "&parseTime=True"
		} else {
			s += "?parseTime=True"
		}
	}
	return s
}

// MigrateDSN returns the golang-migrate form of the DSN (scheme required).
func MigrateDSN(dsn string) string {
	if strings.HasPrefix(dsn, "mysql://") {
		return dsn
	}
	return "mysql://" + dsn
}

// GetNormalizedDSN fetches DATABASE_DSN env var and normalizes it.
func GetNormalizedDSN() string { return NormalizeDSN(os.Getenv("DATABASE_DSN")) }

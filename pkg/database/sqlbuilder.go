package database

import (
	"github.com/huandu/go-sqlbuilder"
)

// Flavor maps a sql driver name to the sqlbuilder flavor with the matching
// placeholder syntax ($n for PostgreSQL, ? for SQLite).
func Flavor(driverName string) sqlbuilder.Flavor {
	if driverName == DriverSQLite {
		return sqlbuilder.SQLite
	}
	return sqlbuilder.PostgreSQL
}

// NewStruct builds a sqlbuilder struct mapper for the given flavor using the
// db field tags.
func NewStruct(v any, flavor sqlbuilder.Flavor) *sqlbuilder.Struct {
	return sqlbuilder.NewStruct(v).For(flavor)
}

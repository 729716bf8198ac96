package models

// All lists the tables of the sales-ops schema, in dependency order, for
// GORM auto-migration on SQLite. PostgreSQL uses migrations/salesops.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Plan{},
		&Client{},
		&License{},
		&Assignment{},
		&Invoice{},
		&Report{},
		&SdrUpdate{},
		&AdminNote{},
	}
}

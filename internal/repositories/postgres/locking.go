package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate adds FOR UPDATE to a query so a read-modify-write
// transaction holds the row against concurrent writers. PostgreSQL runs
// transactions at READ COMMITTED, where a plain SELECT does not block a
// concurrent reader of the same row. The sqlite driver has no row locks
// and rejects the clause; its database-level write lock serializes
// writers instead.
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

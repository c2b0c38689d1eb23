// Package database provides the data access layer for the catalog.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, migrations, unit of work
//	├── authors/         # Author CRUD
//	└── books/           # Book CRUD, search and ranking
//
// # Unit of Work
//
// Repositories are never reached through a global handle. A caller asks the
// Database for a Work, either bound to a transaction or not:
//
//	db, err := database.NewDatabase(cfg.Database, logger.Warn)
//
//	// Reads
//	authors, err := db.Work(ctx).Authors.List()
//
//	// Writes: commit on nil, roll back on error
//	err = db.Transaction(ctx, func(w *database.Work) error {
//		return w.Books.UpdateRating(id, 7)
//	})
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Add the repository to Work and newWork
package database

// Package catalog is a small library catalog built on the entity helpers.
//
// Authors and books reference each other many-to-many through the
// author_books join table; a book sits on at most one shelf. The models keep
// both sides of each relation in sync in memory through entity.SetAssociations
// (Author.SetBooks, Book.SetAuthors) and association.RunDescribed
// (Shelf.SetBooks), and the repository persists the result with GORM.
//
// # Components
//
//   - Repository: GORM persistence, preloading and relation replacement.
//   - Service: use cases (seed from a fixture, link books, shelve books,
//     render, export).
//   - Handler: Fiber routes under /catalog.
//   - Exporter: uploads serialized authors to S3/MinIO.
//
// # Serialization
//
// Authors are rendered with entity.Serialize, so the cycle author -> book ->
// author is cut by emitting the author's id. Renders accept json or yaml and
// an optional field list resolved by entity.Subset.
package catalog

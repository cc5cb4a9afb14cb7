package catalog

import (
	"context"
	"errors"
	"fmt"

	"entity-kit/core/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a requested catalog row does not exist.
var ErrNotFound = errors.New("catalog: not found")

// Models lists the catalog tables in migration order.
func Models() []any {
	return []any{&Shelf{}, &Author{}, &Book{}}
}

// Repository persists catalog entities with GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the catalog tables, including author_books.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate catalog: %w", err)
	}
	return nil
}

// FindAuthor loads an author with its books, their shelves and their
// authors. Back-references to the author point at the returned value so the
// graph holds one instance per row.
func (r *Repository) FindAuthor(ctx context.Context, id uint) (*Author, error) {
	var author Author
	err := r.db.WithContext(ctx).
		Preload("Books", orderBooks).
		Preload("Books.Shelf").
		Preload("Books.Authors").
		First(&author, id).Error
	if err != nil {
		return nil, notFound(err, "author", id)
	}
	for _, b := range author.Books {
		for i, a := range b.Authors {
			if a.ID == author.ID {
				b.Authors[i] = &author
			}
		}
	}
	return &author, nil
}

// ListAuthors loads every author with its books, ordered by id.
func (r *Repository) ListAuthors(ctx context.Context) ([]*Author, error) {
	var authors []*Author
	if err := r.db.WithContext(ctx).Preload("Books", orderBooks).Order("id").Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	return authors, nil
}

// FindBook loads a book with its shelf and authors.
func (r *Repository) FindBook(ctx context.Context, id uint) (*Book, error) {
	var book Book
	err := r.db.WithContext(ctx).Preload("Shelf").Preload("Authors").First(&book, id).Error
	if err != nil {
		return nil, notFound(err, "book", id)
	}
	return &book, nil
}

// FindShelf loads a shelf with its books, each pointing back at it.
func (r *Repository) FindShelf(ctx context.Context, id uint) (*Shelf, error) {
	var shelf Shelf
	if err := r.db.WithContext(ctx).Preload("Books", orderBooks).First(&shelf, id).Error; err != nil {
		return nil, notFound(err, "shelf", id)
	}
	for _, b := range shelf.Books {
		b.Shelf = &shelf
	}
	return &shelf, nil
}

// Create inserts the row of value (an *Author, *Book or *Shelf). Relations
// are persisted separately by SaveAuthorBooks and SaveShelfBooks.
func (r *Repository) Create(ctx context.Context, value any) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(value).Error; err != nil {
		return fmt.Errorf("failed to create %T: %w", value, err)
	}
	return nil
}

// SaveAuthorBooks replaces the persisted author_books rows of author.
func (r *Repository) SaveAuthorBooks(ctx context.Context, author *Author) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner := &Author{Model: entity.Model{ID: author.ID}}
		if err := replaceBooks(tx.Model(owner).Association("Books"), author.Books); err != nil {
			return fmt.Errorf("failed to save books of author %d: %w", author.ID, err)
		}
		return nil
	})
}

// SaveShelfBooks persists shelf membership, clearing shelf_id on removed books.
func (r *Repository) SaveShelfBooks(ctx context.Context, shelf *Shelf) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner := &Shelf{Model: entity.Model{ID: shelf.ID}}
		if err := replaceBooks(tx.Model(owner).Association("Books"), shelf.Books); err != nil {
			return fmt.Errorf("failed to save books of shelf %d: %w", shelf.ID, err)
		}
		return nil
	})
}

func orderBooks(db *gorm.DB) *gorm.DB {
	return db.Order("books.id")
}

func replaceBooks(assoc *gorm.Association, books []*Book) error {
	if len(books) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(bookRefs(books))
}

// bookRefs strips books down to their keys so GORM does not walk the
// in-memory graph back into the owner.
func bookRefs(books []*Book) []*Book {
	refs := make([]*Book, 0, len(books))
	for _, b := range books {
		ref := &Book{Model: entity.Model{ID: b.ID}, Title: b.Title, ISBN: b.ISBN, Year: b.Year, ShelfID: b.ShelfID}
		refs = append(refs, ref)
	}
	return refs
}

func notFound(err error, kind string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
	}
	return fmt.Errorf("failed to load %s %d: %w", kind, id, err)
}

// DB returns the underlying connection.
func (r *Repository) DB() *gorm.DB {
	return r.db
}

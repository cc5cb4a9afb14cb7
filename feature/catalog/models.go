package catalog

import (
	"entity-kit/core/association"
	"entity-kit/core/collection"
	"entity-kit/core/entity"
)

// Author writes books; an author and a book can reference each other many times.
type Author struct {
	entity.Model
	Name  string  `gorm:"size:191;not null" json:"name"`
	Books []*Book `gorm:"many2many:author_books" json:"books"`
}

func (a *Author) GetName() string { return a.Name }
func (a *Author) SetName(name string) { a.Name = name }
func (a *Author) AddBook(b *Book) { collection.Of(&a.Books).Append(b) }
func (a *Author) GetBooks() collection.Collection {
	return collection.Of(&a.Books)
}

// SetBooks replaces the author's books and adds the author to each of them.
func (a *Author) SetBooks(books []*Book, opts ...association.Option) error {
	opts = append([]association.Option{association.WithInverse("authors")}, opts...)
	_, err := entity.SetAssociationsFor(a, "SetBooks", books, opts...)
	return err
}

// Book belongs to at most one shelf and to any number of authors.
type Book struct {
	entity.Model
	Title   string    `gorm:"size:191;not null" json:"title"`
	ISBN    string    `gorm:"size:32" json:"isbn"`
	Year    int       `json:"year"`
	ShelfID *uint     `json:"shelfId"`
	Shelf   *Shelf    `json:"shelf"`
	Authors []*Author `gorm:"many2many:author_books" json:"authors"`
}

func (b *Book) GetTitle() string { return b.Title }
func (b *Book) SetTitle(t string) { b.Title = t }
func (b *Book) SetISBN(isbn string) { b.ISBN = isbn }
func (b *Book) SetYear(year int) { b.Year = year }
func (b *Book) GetShelf() *Shelf { return b.Shelf }
func (b *Book) AddAuthor(a *Author) { collection.Of(&b.Authors).Append(a) }
func (b *Book) GetAuthors() collection.Collection {
	return collection.Of(&b.Authors)
}

// SetShelf moves the book. The foreign key follows the shelf so GORM
// persists the move without loading the association.
func (b *Book) SetShelf(s *Shelf) {
	b.Shelf = s
	switch {
	case s == nil:
		b.ShelfID = nil
	case s.ID != 0:
		id := s.ID
		b.ShelfID = &id
	}
}

// SetAuthors replaces the book's authors and adds the book to each of them.
func (b *Book) SetAuthors(authors []*Author, opts ...association.Option) error {
	_, err := entity.SetAssociations(b, authors, "books", "authors", opts...)
	return err
}

// Shelf holds books; a book sits on one shelf at a time.
type Shelf struct {
	entity.Model
	Label string  `gorm:"size:191;not null" json:"label"`
	Books []*Book `json:"books"`
}

func (s *Shelf) GetLabel() string { return s.Label }
func (s *Shelf) SetLabel(label string) { s.Label = label }
func (s *Shelf) GetBooks() collection.Collection {
	return collection.Of(&s.Books)
}

// SetBooks replaces the shelf's books. The relation kind and the inverse
// name come from the GORM schema.
func (s *Shelf) SetBooks(books []*Book, opts ...association.Option) error {
	return association.RunDescribed(s, books, "books", opts...)
}

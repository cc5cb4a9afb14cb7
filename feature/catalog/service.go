package catalog

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	"entity-kit/core/association"
	"entity-kit/core/entity"

	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrInvalidReference is returned when a relation reference cannot be resolved.
var ErrInvalidReference = errors.New("catalog: invalid reference")

// Rendered is an encoded author.
type Rendered struct {
	Format string
	Body   string
}

// SeedResult counts the rows created by Seed.
type SeedResult struct {
	Shelves int `json:"shelves"`
	Authors int `json:"authors"`
	Books   int `json:"books"`
}

// Service implements the catalog use cases on top of the entity helpers.
type Service struct {
	repo       *Repository
	exporter   *Exporter
	serializer entity.SerializerConfig
	logger     *zap.Logger
	renders    singleflight.Group
}

// NewService creates a catalog service. exporter may be nil when storage is
// not configured.
func NewService(repo *Repository, exporter *Exporter, serializer entity.SerializerConfig, logger *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		exporter:   exporter,
		serializer: serializer,
		logger:     logger,
	}
}

// Author loads an author with its books.
func (s *Service) Author(ctx context.Context, id uint) (*Author, error) {
	return s.repo.FindAuthor(ctx, id)
}

// Authors loads all authors.
func (s *Service) Authors(ctx context.Context) ([]*Author, error) {
	return s.repo.ListAuthors(ctx)
}

// CreateAuthor hydrates an author from values and inserts it.
func (s *Service) CreateAuthor(ctx context.Context, values map[string]any) (*Author, error) {
	author, err := entity.New[Author](values)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

// Render encodes an author in format (the configured default when empty).
// A non-empty fields list restricts the output to those (dotted) fields.
// Concurrent identical renders share one database load.
func (s *Service) Render(ctx context.Context, id uint, format string, fields []string) (Rendered, error) {
	if format == "" {
		format = s.serializer.Format
	}
	enc, err := s.serializer.EncoderFor(format)
	if err != nil {
		return Rendered{}, err
	}

	key := fmt.Sprintf("%d|%s|%s", id, enc.Format(), strings.Join(fields, ","))
	// The shared load must outlive any single caller's cancellation.
	loadCtx := context.WithoutCancel(ctx)
	ch := s.renders.DoChan(key, func() (any, error) {
		author, err := s.repo.FindAuthor(loadCtx, id)
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			return entity.Serialize(author, enc)
		}
		subset, err := entity.Subset(author, fields...)
		if err != nil {
			return nil, err
		}
		b, err := enc.Encode(subset)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", enc.Format(), err)
		}
		return string(b), nil
	})

	select {
	case <-ctx.Done():
		return Rendered{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Rendered{}, res.Err
		}
		return Rendered{Format: enc.Format(), Body: res.Val.(string)}, nil
	}
}

// LinkBooks makes refs the complete book list of an author. A reference is
// a book id (number or numeric string), a {"id": n} mapping or a *Book.
// Raw references are resolved through the association factory.
func (s *Service) LinkBooks(ctx context.Context, authorID uint, refs []any) (*Author, error) {
	author, err := s.repo.FindAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}

	books := make(map[uint]*Book, len(author.Books))
	for _, b := range author.Books {
		books[b.ID] = b
	}
	resolve := func(raw any) (any, error) {
		id, err := referenceID(raw)
		if err != nil {
			return nil, err
		}
		if b, ok := books[id]; ok {
			return b, nil
		}
		b, err := s.repo.FindBook(ctx, id)
		if err != nil {
			return nil, err
		}
		books[id] = b
		return b, nil
	}

	_, err = entity.SetAssociations(author, refs, "authors", "books",
		association.WithFactory(resolve),
		association.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveAuthorBooks(ctx, author); err != nil {
		return nil, err
	}
	s.logger.Info("Linked books", zap.Uint("author", authorID), zap.Int("books", len(author.Books)))
	return author, nil
}

// ShelveBooks makes bookIDs the complete content of a shelf. Books leaving
// the shelf end up on no shelf.
func (s *Service) ShelveBooks(ctx context.Context, shelfID uint, bookIDs []uint) (*Shelf, error) {
	shelf, err := s.repo.FindShelf(ctx, shelfID)
	if err != nil {
		return nil, err
	}

	current := make(map[uint]*Book, len(shelf.Books))
	for _, b := range shelf.Books {
		current[b.ID] = b
	}
	books := make([]*Book, 0, len(bookIDs))
	for _, id := range bookIDs {
		b, ok := current[id]
		if !ok {
			if b, err = s.repo.FindBook(ctx, id); err != nil {
				return nil, err
			}
			current[id] = b
		}
		books = append(books, b)
	}

	if err := shelf.SetBooks(books, association.WithLogger(s.logger)); err != nil {
		return nil, err
	}
	if err := s.repo.SaveShelfBooks(ctx, shelf); err != nil {
		return nil, err
	}
	return shelf, nil
}

// Seed inserts the fixture and wires its relations through the entity setters.
func (s *Service) Seed(ctx context.Context, fx *Fixture) (SeedResult, error) {
	var res SeedResult

	shelves := make(map[string]*Shelf, len(fx.Shelves))
	var shelfOrder []*Shelf
	for _, values := range fx.Shelves {
		shelf, err := entity.New[Shelf](values)
		if err != nil {
			return res, fmt.Errorf("shelf %d: %w", res.Shelves, err)
		}
		if err := s.repo.Create(ctx, shelf); err != nil {
			return res, err
		}
		shelves[shelf.Label] = shelf
		shelfOrder = append(shelfOrder, shelf)
		res.Shelves++
	}

	authors := make(map[string]*Author, len(fx.Authors))
	var authorOrder []*Author
	for _, values := range fx.Authors {
		author, err := entity.New[Author](values)
		if err != nil {
			return res, fmt.Errorf("author %d: %w", res.Authors, err)
		}
		if err := s.repo.Create(ctx, author); err != nil {
			return res, err
		}
		authors[author.Name] = author
		authorOrder = append(authorOrder, author)
		res.Authors++
	}

	members := make(map[*Shelf][]*Book)
	for _, values := range fx.Books {
		attrs := maps.Clone(values)
		var ref struct {
			Shelf   string   `mapstructure:"shelf"`
			Authors []string `mapstructure:"authors"`
		}
		if err := mapstructure.WeakDecode(attrs, &ref); err != nil {
			return res, fmt.Errorf("book %d: %w", res.Books, err)
		}
		delete(attrs, "shelf")
		delete(attrs, "authors")

		book, err := entity.New[Book](attrs)
		if err != nil {
			return res, fmt.Errorf("book %d: %w", res.Books, err)
		}
		if err := s.repo.Create(ctx, book); err != nil {
			return res, err
		}
		res.Books++

		if ref.Shelf != "" {
			shelf, ok := shelves[ref.Shelf]
			if !ok {
				return res, fmt.Errorf("%w: book %q names unknown shelf %q", ErrInvalidReference, book.Title, ref.Shelf)
			}
			members[shelf] = append(members[shelf], book)
		}

		bookAuthors := make([]*Author, 0, len(ref.Authors))
		for _, name := range ref.Authors {
			author, ok := authors[name]
			if !ok {
				return res, fmt.Errorf("%w: book %q names unknown author %q", ErrInvalidReference, book.Title, name)
			}
			bookAuthors = append(bookAuthors, author)
		}
		if err := book.SetAuthors(bookAuthors, association.WithLogger(s.logger)); err != nil {
			return res, err
		}
	}

	for _, shelf := range shelfOrder {
		if err := shelf.SetBooks(members[shelf], association.WithLogger(s.logger)); err != nil {
			return res, err
		}
		if err := s.repo.SaveShelfBooks(ctx, shelf); err != nil {
			return res, err
		}
	}
	for _, author := range authorOrder {
		if err := s.repo.SaveAuthorBooks(ctx, author); err != nil {
			return res, err
		}
	}

	s.logger.Info("Catalog seeded",
		zap.Int("shelves", res.Shelves),
		zap.Int("authors", res.Authors),
		zap.Int("books", res.Books),
	)
	return res, nil
}

// Export uploads every author in format (the configured default when empty).
func (s *Service) Export(ctx context.Context, format string) ([]string, error) {
	if s.exporter == nil {
		return nil, errors.New("catalog: storage is not configured")
	}
	if format == "" {
		format = s.serializer.Format
	}
	enc, err := s.serializer.EncoderFor(format)
	if err != nil {
		return nil, err
	}
	authors, err := s.repo.ListAuthors(ctx)
	if err != nil {
		return nil, err
	}
	return s.exporter.ExportAll(ctx, authors, enc)
}

// referenceID extracts a book id from a loosely typed reference.
func referenceID(raw any) (uint, error) {
	if m, ok := raw.(map[string]any); ok {
		raw = m["id"]
	}

	var id uint
	if err := mapstructure.WeakDecode(raw, &id); err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %v is not a book id", ErrInvalidReference, raw)
	}
	return id, nil
}

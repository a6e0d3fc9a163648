package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unicode/utf8"
)

// BlobStore persists the overlay as one opaque string.
// ReadBlob reports ok=false when nothing has been written yet.
type BlobStore interface {
	ReadBlob(ctx context.Context) (blob string, ok bool, err error)
	WriteBlob(ctx context.Context, blob string) error
}

// Quarantiner is implemented by blob stores that can set a corrupt blob
// aside so it survives the next write.
type Quarantiner interface {
	QuarantineBlob(ctx context.Context, blob string) error
}

// Store is the prompt catalog: bundled defaults plus the persisted overlay,
// loaded lazily and cached in memory.
//
// Operations are serialized by a single mutex. Every mutation is written
// through the BlobStore before it returns, and the cache is only replaced
// after the write succeeds.
type Store struct {
	defaults DefaultSource
	blobs    BlobStore
	logger   *slog.Logger

	mu      sync.Mutex
	cache   *Catalog
	source  Source
	loadErr error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a catalog store. Nothing is read until the first call.
func NewStore(defaults DefaultSource, blobs BlobStore, opts ...Option) *Store {
	s := &Store{
		defaults: defaults,
		blobs:    blobs,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the catalog, reading persistence only on the first call.
//
// When no overlay exists the defaults are migrated and written. When the
// overlay is corrupt the defaults are served from memory and the failure is
// logged; the overlay is rewritten by the next successful mutation. When the
// overlay cannot be read at all the defaults are served uncached, the next
// call reads again, and mutations fail with ErrStorageRead until a read
// succeeds.
func (s *Store) Load(ctx context.Context) (Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.loadLocked(ctx)
	if err != nil {
		return Catalog{}, err
	}
	return c.Clone(), nil
}

func (s *Store) loadLocked(ctx context.Context) (*Catalog, error) {
	if s.cache != nil {
		return s.cache, nil
	}

	blob, ok, err := s.blobs.ReadBlob(ctx)
	if err != nil {
		// The overlay may be intact behind the error, so nothing is cached
		// that a later write could persist over it.
		readErr := fmt.Errorf("%w: %v", ErrStorageRead, err)
		s.logger.Warn("catalog overlay unreadable, serving defaults", "error", readErr)
		c, err := s.derivedDefaults()
		if err != nil {
			return nil, err
		}
		s.cache = nil
		s.source = SourceFallback
		s.loadErr = readErr
		return &c, nil
	}

	if !ok {
		c, err := s.derivedDefaults()
		if err != nil {
			return nil, err
		}
		if err := s.writeLocked(ctx, c); err != nil {
			return nil, err
		}
		s.setCache(c, SourceDefaults, nil)
		s.logger.Info("initialized catalog overlay from defaults",
			"categories", len(c.Categories), "prompts", c.PromptCount())
		return s.cache, nil
	}

	migrated, changed, err := MigrateBlob(blob)
	if err != nil {
		return s.fallbackLocked(ctx, blob, err)
	}
	c, err := Decode(migrated)
	if err != nil {
		return s.fallbackLocked(ctx, blob, err)
	}

	if changed {
		if err := s.blobs.WriteBlob(ctx, migrated); err != nil {
			return nil, fmt.Errorf("%w: persist migrated overlay: %v", ErrStorageWrite, err)
		}
		s.logger.Info("migrated legacy catalog overlay", "categories", len(c.Categories))
	}

	s.setCache(c, SourceOverlay, nil)
	s.logger.Debug("loaded catalog overlay", "categories", len(c.Categories), "prompts", c.PromptCount())
	return s.cache, nil
}

func (s *Store) fallbackLocked(ctx context.Context, blob string, cause error) (*Catalog, error) {
	s.logger.Warn("catalog overlay unreadable, falling back to defaults", "error", cause)

	if q, ok := s.blobs.(Quarantiner); ok && blob != "" {
		if err := q.QuarantineBlob(ctx, blob); err != nil {
			s.logger.Warn("failed to quarantine corrupt overlay", "error", err)
		}
	}

	c, err := s.derivedDefaults()
	if err != nil {
		return nil, err
	}
	s.setCache(c, SourceFallback, cause)
	return s.cache, nil
}

func (s *Store) derivedDefaults() (Catalog, error) {
	defaults, err := s.defaults.ReadDefaults()
	if err != nil {
		return Catalog{}, fmt.Errorf("%w: defaults: %v", ErrStorageRead, err)
	}
	return Migrate(defaults), nil
}

func (s *Store) setCache(c Catalog, src Source, err error) {
	s.cache = &c
	s.source = src
	s.loadErr = err
}

func (s *Store) writeLocked(ctx context.Context, c Catalog) error {
	blob, err := Encode(c)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	if err := s.blobs.WriteBlob(ctx, blob); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}

// mutate applies fn to a copy of the catalog, persists the copy and only
// then makes it current.
func (s *Store) mutate(ctx context.Context, fn func(c *Catalog) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}
	if s.cache == nil {
		return s.loadErr
	}

	next := current.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.writeLocked(ctx, next); err != nil {
		return err
	}

	src := s.source
	if src == SourceFallback {
		src = SourceOverlay
	}
	s.setCache(next, src, nil)
	return nil
}

// AddCategory appends an empty category.
func (s *Store) AddCategory(ctx context.Context, name string) (Category, error) {
	if name == "" {
		return Category{}, ErrInvalidName
	}
	if !utf8.ValidString(name) {
		return Category{}, fmt.Errorf("%w: category name is not valid UTF-8", ErrInvalidName)
	}
	created := Category{Name: name, Prompts: []Prompt{}}
	err := s.mutate(ctx, func(c *Catalog) error {
		if _, exists := c.Category(name); exists {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		c.Categories = append(c.Categories, created)
		return nil
	})
	if err != nil {
		return Category{}, err
	}
	s.logger.Info("added category", "category", name)
	return created, nil
}

// DeleteCategory removes a category together with its prompts.
func (s *Store) DeleteCategory(ctx context.Context, name string) error {
	err := s.mutate(ctx, func(c *Catalog) error {
		for i := range c.Categories {
			if c.Categories[i].Name == name {
				c.Categories = append(c.Categories[:i], c.Categories[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: %q", ErrCategoryNotFound, name)
	})
	if err != nil {
		return err
	}
	s.logger.Info("deleted category", "category", name)
	return nil
}

// AddPrompt appends a prompt to the end of a category and returns the
// index it was stored at.
func (s *Store) AddPrompt(ctx context.Context, category, label, body string) (Prompt, int, error) {
	p := Prompt{Label: label, Body: body}
	if err := validText(p); err != nil {
		return Prompt{}, 0, err
	}
	var index int
	err := s.mutate(ctx, func(c *Catalog) error {
		cat, ok := c.Category(category)
		if !ok {
			return fmt.Errorf("%w: %q", ErrCategoryNotFound, category)
		}
		index = len(cat.Prompts)
		cat.Prompts = append(cat.Prompts, p)
		return nil
	})
	if err != nil {
		return Prompt{}, 0, err
	}
	s.logger.Info("added prompt", "category", category, "label", label, "index", index)
	return p, index, nil
}

// UpdatePrompt replaces the prompt at index in place.
func (s *Store) UpdatePrompt(ctx context.Context, category string, index int, label, body string) error {
	if err := validText(Prompt{Label: label, Body: body}); err != nil {
		return err
	}
	err := s.mutate(ctx, func(c *Catalog) error {
		cat, err := promptSlot(c, category, index)
		if err != nil {
			return err
		}
		cat.Prompts[index] = Prompt{Label: label, Body: body}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("updated prompt", "category", category, "index", index)
	return nil
}

// DeletePrompt removes the prompt at index. Later prompts shift down by one.
// The category is kept even when it becomes empty.
func (s *Store) DeletePrompt(ctx context.Context, category string, index int) error {
	err := s.mutate(ctx, func(c *Catalog) error {
		cat, err := promptSlot(c, category, index)
		if err != nil {
			return err
		}
		cat.Prompts = append(cat.Prompts[:index], cat.Prompts[index+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("deleted prompt", "category", category, "index", index)
	return nil
}

// Prompt returns a single prompt.
func (s *Store) Prompt(ctx context.Context, category string, index int) (Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked(ctx)
	if err != nil {
		return Prompt{}, err
	}
	c := current.Clone()
	cat, err := promptSlot(&c, category, index)
	if err != nil {
		return Prompt{}, err
	}
	return cat.Prompts[index], nil
}

// ResetToDefaults discards every user edit and re-derives the catalog from
// the bundled defaults. The result is persisted before the cache changes.
func (s *Store) ResetToDefaults(ctx context.Context) (Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.derivedDefaults()
	if err != nil {
		return Catalog{}, err
	}
	if err := s.writeLocked(ctx, c); err != nil {
		return Catalog{}, err
	}
	s.setCache(c, SourceDefaults, nil)
	s.logger.Info("reset catalog to defaults", "categories", len(c.Categories))
	return c.Clone(), nil
}

// Invalidate drops the cache. The next call re-reads the overlay, which is
// how changes written by another process are picked up.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = nil
	s.source = SourceNone
	s.loadErr = nil
}

// Status reports the state of the cache without loading.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{Loaded: s.cache != nil, Source: s.source}
	if s.cache != nil {
		st.Categories = len(s.cache.Categories)
		st.Prompts = s.cache.PromptCount()
	}
	if s.loadErr != nil {
		st.Err = s.loadErr.Error()
	}
	return st
}

// validText rejects text that would not survive encoding unchanged.
func validText(p Prompt) error {
	if !utf8.ValidString(p.Label) {
		return fmt.Errorf("%w: label is not valid UTF-8", ErrInvalidText)
	}
	if !utf8.ValidString(p.Body) {
		return fmt.Errorf("%w: body is not valid UTF-8", ErrInvalidText)
	}
	return nil
}

func promptSlot(c *Catalog, category string, index int) (*Category, error) {
	cat, ok := c.Category(category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCategoryNotFound, category)
	}
	if index < 0 || index >= len(cat.Prompts) {
		return nil, fmt.Errorf("%w: %q has no prompt at index %d", ErrPromptNotFound, category, index)
	}
	return cat, nil
}

// IsNotFound reports whether err means a category or prompt does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCategoryNotFound) || errors.Is(err, ErrPromptNotFound)
}

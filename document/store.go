package document

import (
	"fmt"
	"sync"

	"github.com/erraggy/oasbind/oaserrors"
)

const (
	// MaxCachedDocuments is the maximum number of documents a Store will hold.
	// This prevents memory exhaustion from documents with many external references.
	MaxCachedDocuments = 100

	// MaxFileSize is the maximum size (in bytes) a Loader will accept for one document.
	MaxFileSize = 10 * 1024 * 1024 // 10MB
)

// Store holds the documents of one loaded API description.
// The first document added is the main document; pointers without a locator
// are looked up there. Documents are immutable once added, so a Store is
// safe for concurrent readers. Unknown locators are handed to the configured
// Loader, if any, the first time they are requested.
type Store struct {
	mu           sync.RWMutex
	docs         map[string]*Document
	main         *Document
	loader       Loader
	maxDocuments int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLoader sets the Loader consulted for locators not yet in the Store.
func WithLoader(l Loader) StoreOption {
	return func(s *Store) {
		s.loader = l
	}
}

// WithMaxDocuments overrides MaxCachedDocuments. Non-positive values are ignored.
func WithMaxDocuments(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.maxDocuments = n
		}
	}
}

// NewStore creates an empty Store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		docs:         make(map[string]*Document),
		maxDocuments: MaxCachedDocuments,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers a document under its locator.
// Adding a second document with the same locator is a configuration error.
func (s *Store) Add(doc *Document) error {
	if doc == nil {
		return &oaserrors.ConfigError{Option: "document", Message: "document cannot be nil"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(doc)
}

func (s *Store) addLocked(doc *Document) error {
	if _, exists := s.docs[doc.Locator]; exists {
		return &oaserrors.ConfigError{
			Option:  "document",
			Value:   doc.Locator,
			Message: "a document with this locator is already loaded",
		}
	}
	if len(s.docs) >= s.maxDocuments {
		return &oaserrors.ConfigError{
			Option:  "document",
			Value:   doc.Locator,
			Message: fmt.Sprintf("too many documents (limit: %d)", s.maxDocuments),
		}
	}
	s.docs[doc.Locator] = doc
	if s.main == nil {
		s.main = doc
	}
	return nil
}

// Main returns the main document, or nil if the Store is empty.
func (s *Store) Main() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.main
}

// Locators returns the locators of every loaded document.
func (s *Store) Locators() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.docs))
	for loc := range s.docs {
		out = append(out, loc)
	}
	return out
}

// Get returns the document for a locator. The empty locator addresses the
// main document. Unknown locators are loaded through the Loader.
func (s *Store) Get(locator string) (*Document, error) {
	s.mu.RLock()
	doc := s.lookupLocked(locator)
	loader := s.loader
	s.mu.RUnlock()
	if doc != nil {
		return doc, nil
	}

	if loader == nil {
		return nil, &oaserrors.ResolutionError{
			Document: locator,
			Message:  "document is not loaded and no loader is configured",
		}
	}

	loaded, err := loader.Load(locator)
	if err != nil {
		return nil, &oaserrors.ResolutionError{
			Document: locator,
			Message:  "failed to load document",
			Cause:    err,
		}
	}
	if loaded.Locator == "" {
		loaded.Locator = locator
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another goroutine may have loaded the same locator meanwhile; the first
	// stored document wins so node identity stays stable.
	if existing := s.lookupLocked(locator); existing != nil {
		return existing, nil
	}
	if err := s.addLocked(loaded); err != nil {
		return nil, err
	}
	if loaded.Locator != locator {
		s.docs[locator] = loaded
	}
	return loaded, nil
}

func (s *Store) lookupLocked(locator string) *Document {
	if locator == "" {
		return s.main
	}
	return s.docs[locator]
}

// Lookup returns the raw node addressed by p.
func (s *Store) Lookup(p Pointer) (any, error) {
	doc, err := s.Get(p.Base)
	if err != nil {
		return nil, err
	}
	return doc.Lookup(p.Fragment)
}

package gitignore

import (
	"path/filepath"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/temirov/llmpack/internal/utils"
)

// defaultCacheSize bounds the number of memoized match results.
const defaultCacheSize = 8192

const noMatchingScope = -1

type matchKey struct {
	path        string
	isDirectory bool
}

// Store is the immutable set of scopes discovered for one run.
type Store struct {
	scopes []Scope
	cache  *lru.Cache[matchKey, int]
	logger *zap.Logger
}

// NewStore orders scopes deepest root first, breaking ties by root path, and returns a Store.
func NewStore(scopes []Scope, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	orderedScopes := append([]Scope(nil), scopes...)
	sort.SliceStable(orderedScopes, func(leftIndex, rightIndex int) bool {
		leftDepth := orderedScopes[leftIndex].depth()
		rightDepth := orderedScopes[rightIndex].depth()
		if leftDepth != rightDepth {
			return leftDepth > rightDepth
		}
		return orderedScopes[leftIndex].Root < orderedScopes[rightIndex].Root
	})
	matchCache, cacheError := lru.New[matchKey, int](defaultCacheSize)
	if cacheError != nil {
		logger.Debug("match cache disabled", zap.Error(cacheError))
		matchCache = nil
	}
	return &Store{
		scopes: orderedScopes,
		cache:  matchCache,
		logger: logger,
	}
}

// Scopes returns a copy of the scopes in evaluation order.
func (store *Store) Scopes() []Scope {
	if store == nil {
		return nil
	}
	return append([]Scope(nil), store.scopes...)
}

// Len returns the number of scopes.
func (store *Store) Len() int {
	if store == nil {
		return 0
	}
	return len(store.scopes)
}

// IsIgnored reports whether any scope excludes path.
func (store *Store) IsIgnored(path string, isDirectory bool) bool {
	_, matched := store.MatchingScope(path, isDirectory)
	return matched
}

// MatchingScope returns the first scope, in evaluation order, that excludes path.
func (store *Store) MatchingScope(path string, isDirectory bool) (Scope, bool) {
	if store == nil || len(store.scopes) == 0 {
		return Scope{}, false
	}
	absolutePath, absoluteError := filepath.Abs(path)
	if absoluteError != nil {
		store.logger.Debug("cannot resolve path for matching", zap.String("path", path), zap.Error(absoluteError))
		return Scope{}, false
	}
	scopeIndex := store.lookup(matchKey{path: absolutePath, isDirectory: isDirectory})
	if scopeIndex == noMatchingScope {
		return Scope{}, false
	}
	matchedScope := store.scopes[scopeIndex]
	store.logger.Debug("ignoring path",
		zap.String("path", absolutePath),
		zap.String("gitignore", filepath.Join(matchedScope.Root, utils.GitIgnoreFileName)))
	return matchedScope, true
}

func (store *Store) lookup(key matchKey) int {
	if store.cache != nil {
		if cachedIndex, found := store.cache.Get(key); found {
			return cachedIndex
		}
	}
	scopeIndex := noMatchingScope
	for candidateIndex, candidateScope := range store.scopes {
		if candidateScope.Excludes(key.path, key.isDirectory) {
			scopeIndex = candidateIndex
			break
		}
	}
	if store.cache != nil {
		store.cache.Add(key, scopeIndex)
	}
	return scopeIndex
}

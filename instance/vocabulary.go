package instance

import (
	"strings"
	"sync"
)

// Reserved entries of padded namespaces.
const (
	PaddingToken = "@@PADDING@@"
	UnknownToken = "@@UNKNOWN@@"
)

// Vocabulary maps tokens to ids, per namespace.
type Vocabulary interface {
	// TokenIndex returns the id of token in namespace. Padded namespaces
	// return the id of UnknownToken for unknown tokens; other namespaces
	// return -1.
	TokenIndex(token, namespace string) int
}

// Extender is implemented by vocabularies that can grow while indexing.
// Fields backed by pretrained embeddings add their tokens instead of mapping
// them to UnknownToken.
type Extender interface {
	AddToken(token, namespace string) int
}

// MapVocabulary is a Vocabulary backed by maps. It is safe for concurrent use.
//
// Namespaces ending in "labels" or "tags" are not padded: their ids start at
// zero and unknown entries have no id.
type MapVocabulary struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]int
}

// NewVocabulary returns an empty MapVocabulary.
func NewVocabulary() *MapVocabulary {
	return &MapVocabulary{namespaces: make(map[string]map[string]int)}
}

func padded(namespace string) bool {
	return !strings.HasSuffix(namespace, "labels") && !strings.HasSuffix(namespace, "tags")
}

// AddToken adds token to namespace if it is missing and returns its id.
func (v *MapVocabulary) AddToken(token, namespace string) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	ids, ok := v.namespaces[namespace]
	if !ok {
		ids = make(map[string]int)
		if padded(namespace) {
			ids[PaddingToken] = 0
			ids[UnknownToken] = 1
		}
		v.namespaces[namespace] = ids
	}
	if id, ok := ids[token]; ok {
		return id
	}
	id := len(ids)
	ids[token] = id
	return id
}

// TokenIndex implements Vocabulary.
func (v *MapVocabulary) TokenIndex(token, namespace string) int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	ids := v.namespaces[namespace]
	if id, ok := ids[token]; ok {
		return id
	}
	if padded(namespace) {
		return 1
	}
	return -1
}

// Size returns the number of entries in namespace, reserved ones included.
func (v *MapVocabulary) Size(namespace string) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.namespaces[namespace])
}

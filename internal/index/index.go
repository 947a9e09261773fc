package index

import (
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"suggestbox/internal/domain"
)

// Entry is one dictionary word
type Entry struct {
	Word      string
	Frequency int
	Group     string

	// Candidate is built once so repeated lookups hand out the same pointer
	Candidate *domain.Candidate
}

// Index is a case-insensitive prefix index of words
type Index struct {
	mu     sync.RWMutex
	trie   *patricia.Trie
	words  int
	logger *log.Logger
}

// New creates an empty index
func New() *Index {
	return NewWithLogger(log.New(io.Discard))
}

// NewWithLogger creates an empty index that logs to logger
func NewWithLogger(logger *log.Logger) *Index {
	return &Index{
		trie:   patricia.NewTrie(),
		logger: logger,
	}
}

// Add inserts or replaces word
func (idx *Index) Add(word string, frequency int, group string) {
	e := &Entry{
		Word:      word,
		Frequency: frequency,
		Group:     group,
		Candidate: &domain.Candidate{Label: word, Group: group, Value: word},
	}

	key := patricia.Prefix(strings.ToLower(word))

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if !idx.trie.Match(key) {
		idx.words++
	}
	idx.trie.Set(key, e)
}

// Len returns the number of distinct words
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.words
}

// Complete returns words starting with prefix, most frequent first, with
// members of a group kept together in order of the group's best word.
// A non-positive limit returns everything.
func (idx *Index) Complete(prefix string, limit int) []*Entry {
	lowerPrefix := strings.ToLower(prefix)

	var entries []*Entry
	idx.mu.RLock()
	err := idx.trie.VisitSubtree(patricia.Prefix(lowerPrefix), func(p patricia.Prefix, item patricia.Item) error {
		e, ok := item.(*Entry)
		if !ok {
			idx.logger.Error("unexpected trie item", "type", item, "word", string(p))
			return nil
		}
		entries = append(entries, e)
		return nil
	})
	idx.mu.RUnlock()
	if err != nil {
		idx.logger.Error("error visiting trie subtree", "prefix", prefix, "err", err)
		return nil
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Frequency != entries[j].Frequency {
			return entries[i].Frequency > entries[j].Frequency
		}
		return entries[i].Word < entries[j].Word
	})
	entries = groupTogether(entries)

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// groupTogether stably moves entries of the same group next to each other,
// groups ordered by first appearance
func groupTogether(entries []*Entry) []*Entry {
	rank := make(map[string]int)
	for _, e := range entries {
		if _, ok := rank[e.Group]; !ok {
			rank[e.Group] = len(rank)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return rank[entries[i].Group] < rank[entries[j].Group]
	})
	return entries
}

// Candidates maps entries to their candidates
func Candidates(entries []*Entry) []*domain.Candidate {
	out := make([]*domain.Candidate, len(entries))
	for i, e := range entries {
		out[i] = e.Candidate
	}
	return out
}

// Source serves index lookups as a fetch source
type Source struct {
	Index *Index
	Limit int
}

// Fetch delivers the completions of query
func (s Source) Fetch(query string, deliver func([]*domain.Candidate)) {
	deliver(Candidates(s.Index.Complete(query, s.Limit)))
}

/*
Package ipc serves and consumes word completions over a byte stream.

Messages are msgpack encoded and written back to back. A request carries an
id chosen by the client; the response echoes it, so answers may arrive in
any order:

	{"id": "7", "p": "ap", "l": 10}
	{"id": "7", "s": [{"w": "apple", "r": 1, "g": "fruit"}], "c": 1, "t": 42}

A failed request is answered with the error text in "e" and no suggestions.
*/
package ipc

// CompletionRequest asks for completions of Prefix
type CompletionRequest struct {
	ID     string `msgpack:"id"`
	Prefix string `msgpack:"p"`
	Limit  int    `msgpack:"l,omitempty"`
}

// CompletionSuggestion is one completion, ranked from 1
type CompletionSuggestion struct {
	Word  string `msgpack:"w"`
	Rank  uint16 `msgpack:"r"`
	Group string `msgpack:"g,omitempty"`
}

// CompletionResponse answers the request with the same ID
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"` // microseconds
	Error       string                 `msgpack:"e,omitempty"`
}

const (
	// DefaultLimit applies to requests without a limit
	DefaultLimit = 10
	// MaxPrefixLength bounds accepted prefixes, in bytes
	MaxPrefixLength = 60
)

package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"suggestbox/internal/index"
)

// Server answers completion requests from an index
type Server struct {
	index   *index.Index
	logger  *log.Logger
	workers int
}

// NewServer creates a server answering from idx with the given number of
// concurrent workers
func NewServer(idx *index.Index, workers int, logger *log.Logger) *Server {
	if workers < 1 {
		workers = 1
	}
	return &Server{
		index:   idx,
		logger:  logger,
		workers: workers,
	}
}

// Serve reads requests from r and writes responses to w until r is
// exhausted or ctx is canceled. It returns nil in both cases. When ctx is
// canceled r is closed if it is an io.Closer, and Serve returns without
// waiting for a read that is still blocked.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	s.logger.Debug("starting server", "workers", s.workers)

	dec := msgpack.NewDecoder(bufio.NewReader(r))
	enc := msgpack.NewEncoder(w)
	var encMu sync.Mutex

	requests := make(chan CompletionRequest)
	g, gctx := errgroup.WithContext(ctx)

	decoded := make(chan error, 1)
	go func() {
		decoded <- s.read(gctx, dec, requests)
	}()

	g.Go(func() error {
		select {
		case err := <-decoded:
			return err
		case <-gctx.Done():
			if c, ok := r.(io.Closer); ok {
				c.Close()
			}
			return gctx.Err()
		}
	})

	for i := 0; i < s.workers; i++ {
		g.Go(func() error {
			for {
				var req CompletionRequest
				select {
				case <-gctx.Done():
					return nil
				case next, ok := <-requests:
					if !ok {
						return nil
					}
					req = next
				}

				resp := s.handle(req)

				encMu.Lock()
				err := enc.Encode(resp)
				encMu.Unlock()
				if err != nil {
					return fmt.Errorf("failed to encode response %s: %w", req.ID, err)
				}
			}
		})
	}

	err := g.Wait()
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		s.logger.Debug("server stopped", "reason", err)
		return nil
	}
	return err
}

// read decodes requests into out until the input ends
func (s *Server) read(ctx context.Context, dec *msgpack.Decoder, out chan<- CompletionRequest) error {
	defer close(out)
	for {
		var req CompletionRequest
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to decode request: %w", err)
		}
		select {
		case out <- req:
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *Server) handle(req CompletionRequest) CompletionResponse {
	switch {
	case req.Prefix == "":
		s.logger.Debug("prefix is empty in request", "id", req.ID)
		return CompletionResponse{ID: req.ID, Error: "missing prefix"}
	case len(req.Prefix) > MaxPrefixLength:
		s.logger.Debug("prefix is too long in request", "id", req.ID)
		return CompletionResponse{ID: req.ID, Error: fmt.Sprintf("prefix exceeds maximum length of %d", MaxPrefixLength)}
	}

	limit := req.Limit
	if limit < 1 {
		limit = DefaultLimit
	}

	start := time.Now()
	entries := s.index.Complete(req.Prefix, limit)
	elapsed := time.Since(start)

	suggestions := make([]CompletionSuggestion, len(entries))
	for i, e := range entries {
		suggestions[i] = CompletionSuggestion{
			Word:  e.Word,
			Rank:  uint16(i + 1),
			Group: e.Group,
		}
	}

	return CompletionResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	}
}

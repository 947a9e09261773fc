package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"suggestbox/internal/domain"
)

// ErrClosed is returned for requests on a closed client
var ErrClosed = errors.New("ipc client closed")

// Client is a fetch source backed by a completion server. Responses are
// matched to requests by id.
type Client struct {
	Limit int

	logger *log.Logger
	w      io.Writer
	enc    *msgpack.Encoder
	encMu  sync.Mutex

	mu      sync.Mutex
	nextID  uint64
	pending map[string]func([]*domain.Candidate)
	err     error // set once the response stream ends

	closer func() error
	done   chan struct{}
}

// NewClient talks to a server that reads from w and writes to r
func NewClient(r io.Reader, w io.Writer, logger *log.Logger) *Client {
	c := &Client{
		Limit:   DefaultLimit,
		logger:  logger,
		w:       w,
		enc:     msgpack.NewEncoder(w),
		pending: make(map[string]func([]*domain.Candidate)),
		done:    make(chan struct{}),
	}
	go c.readLoop(msgpack.NewDecoder(bufio.NewReader(r)))
	return c
}

// Spawn starts a server process and returns a client connected to its
// stdin and stdout
func Spawn(ctx context.Context, logger *log.Logger, name string, args ...string) (*Client, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}
	logger.Debug("spawned completion server", "pid", cmd.Process.Pid)

	c := NewClient(stdout, stdin, logger)
	c.closeWith(stdin, cmd.Wait)
	return c, nil
}

// Fetch sends query to the server and delivers its answer. Failures are
// logged and delivered as no candidates.
func (c *Client) Fetch(query string, deliver func([]*domain.Candidate)) {
	c.mu.Lock()
	if c.err != nil {
		c.mu.Unlock()
		deliver(nil)
		return
	}
	c.nextID++
	id := strconv.FormatUint(c.nextID, 10)
	c.pending[id] = deliver
	c.mu.Unlock()

	c.encMu.Lock()
	err := c.enc.Encode(CompletionRequest{ID: id, Prefix: query, Limit: c.Limit})
	c.encMu.Unlock()
	if err != nil {
		c.logger.Error("failed to send request", "id", id, "err", err)
		if d := c.take(id); d != nil {
			d(nil)
		}
	}
}

// Pending returns the number of requests awaiting an answer
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Close stops the client. Requests still waiting are answered with no
// candidates.
func (c *Client) Close() error {
	var err error
	if c.closer != nil {
		err = c.closer()
	} else if wc, ok := c.w.(io.Closer); ok {
		err = wc.Close()
	}
	<-c.done
	return err
}

// closeWith makes Close shut stdin and call wait once the read loop has
// finished. exec.Cmd.Wait closes stdout, so it must not run earlier.
func (c *Client) closeWith(stdin io.Closer, wait func() error) {
	c.closer = func() error {
		stdin.Close()
		<-c.done
		return wait()
	}
}

func (c *Client) take(id string) func([]*domain.Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.pending[id]
	if !ok {
		return nil
	}
	delete(c.pending, id)
	return d
}

func (c *Client) readLoop(dec *msgpack.Decoder) {
	defer close(c.done)

	for {
		var resp CompletionResponse
		if err := dec.Decode(&resp); err != nil {
			c.fail(err)
			return
		}

		deliver := c.take(resp.ID)
		if deliver == nil {
			c.logger.Warn("response for unknown request", "id", resp.ID)
			continue
		}
		if resp.Error != "" {
			c.logger.Error("completion failed", "id", resp.ID, "err", resp.Error)
			deliver(nil)
			continue
		}

		items := make([]*domain.Candidate, len(resp.Suggestions))
		for i, s := range resp.Suggestions {
			items[i] = &domain.Candidate{Label: s.Word, Group: s.Group, Value: s.Word}
		}
		deliver(items)
	}
}

// fail ends the client and answers everything still pending
func (c *Client) fail(err error) {
	if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) {
		c.logger.Error("failed to read response", "err", err)
	}

	c.mu.Lock()
	c.err = ErrClosed
	pending := c.pending
	c.pending = make(map[string]func([]*domain.Candidate))
	c.mu.Unlock()

	for _, deliver := range pending {
		deliver(nil)
	}
}

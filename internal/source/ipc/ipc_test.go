package ipc

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"suggestbox/internal/domain"
	"suggestbox/internal/index"
)

type conn struct {
	client *Client
	serve  chan error
}

func startServer(t *testing.T, idx *index.Index) *conn {
	t.Helper()
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()

	logger := log.New(io.Discard)
	c := &conn{
		client: NewClient(respR, reqW, logger),
		serve:  make(chan error, 1),
	}
	go func() {
		err := NewServer(idx, 4, logger).Serve(context.Background(), reqR, respW)
		respW.Close()
		c.serve <- err
	}()
	return c
}

func await(t *testing.T, f domain.Fetcher, q string) []*domain.Candidate {
	t.Helper()
	got := make(chan []*domain.Candidate, 1)
	f.Fetch(q, func(c []*domain.Candidate) { got <- c })
	select {
	case items := <-got:
		return items
	case <-time.After(2 * time.Second):
		t.Fatalf("no delivery for %q", q)
		return nil
	}
}

func fruits() *index.Index {
	idx := index.New()
	idx.Add("apple", 10, "fruit")
	idx.Add("apricot", 20, "fruit")
	idx.Add("banana", 5, "fruit")
	return idx
}

func TestClientServerRoundTrip(t *testing.T) {
	c := startServer(t, fruits())

	items := await(t, c.client, "ap")
	require.Len(t, items, 2)
	assert.Equal(t, "apricot", items[0].Label)
	assert.Equal(t, "fruit", items[0].Group)
	assert.Equal(t, "apricot", items[0].Value)

	assert.Empty(t, await(t, c.client, "zz"))
	assert.Equal(t, 0, c.client.Pending())

	require.NoError(t, c.client.Close())
	assert.NoError(t, <-c.serve)
}

func TestServerRejectsBadPrefix(t *testing.T) {
	c := startServer(t, fruits())
	defer c.client.Close()

	assert.Nil(t, await(t, c.client, ""))

	long := make([]byte, MaxPrefixLength+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.Nil(t, await(t, c.client, string(long)))
}

func TestServerAppliesLimit(t *testing.T) {
	idx := index.New()
	for _, w := range []string{"aa", "ab", "ac", "ad", "ae", "af", "ag", "ah", "ai", "aj", "ak", "al"} {
		idx.Add(w, 1, "")
	}
	c := startServer(t, idx)
	defer c.client.Close()

	assert.Len(t, await(t, c.client, "a"), DefaultLimit)

	c.client.Limit = 3
	assert.Len(t, await(t, c.client, "a"), 3)
}

func TestClientMatchesOutOfOrderResponses(t *testing.T) {
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()
	client := NewClient(respR, reqW, log.New(io.Discard))

	// Answer two requests in reverse order
	go func() {
		dec := msgpack.NewDecoder(reqR)
		enc := msgpack.NewEncoder(respW)
		var reqs []CompletionRequest
		for len(reqs) < 2 {
			var req CompletionRequest
			if err := dec.Decode(&req); err != nil {
				return
			}
			reqs = append(reqs, req)
		}
		for i := len(reqs) - 1; i >= 0; i-- {
			_ = enc.Encode(CompletionResponse{
				ID:          reqs[i].ID,
				Suggestions: []CompletionSuggestion{{Word: reqs[i].Prefix + "!", Rank: 1}},
				Count:       1,
			})
		}
	}()

	first := make(chan []*domain.Candidate, 1)
	second := make(chan []*domain.Candidate, 1)
	client.Fetch("one", func(c []*domain.Candidate) { first <- c })
	client.Fetch("two", func(c []*domain.Candidate) { second <- c })

	for _, tc := range []struct {
		ch   chan []*domain.Candidate
		want string
	}{{second, "two!"}, {first, "one!"}} {
		select {
		case items := <-tc.ch:
			require.Len(t, items, 1)
			assert.Equal(t, tc.want, items[0].Label)
		case <-time.After(2 * time.Second):
			t.Fatalf("no delivery for %s", tc.want)
		}
	}

	respW.Close()
	reqW.Close()
}

func TestClientAnswersPendingWhenStreamEnds(t *testing.T) {
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()
	client := NewClient(respR, reqW, log.New(io.Discard))

	// Swallow requests without answering
	go func() { _, _ = io.Copy(io.Discard, reqR) }()

	got := make(chan []*domain.Candidate, 1)
	client.Fetch("ap", func(c []*domain.Candidate) { got <- c })
	require.Eventually(t, func() bool { return client.Pending() == 1 }, time.Second, 5*time.Millisecond)

	respW.Close()

	select {
	case items := <-got:
		assert.Nil(t, items)
	case <-time.After(2 * time.Second):
		t.Fatal("pending request was not answered")
	}

	// Later requests are answered straight away
	assert.Nil(t, await(t, client, "ba"))
	require.NoError(t, client.Close())
}

// blockingReader never returns from Read and cannot be closed
type blockingReader struct{ release chan struct{} }

func (b blockingReader) Read([]byte) (int, error) {
	<-b.release
	return 0, io.EOF
}

func TestServeStopsOnCancelWhileIdle(t *testing.T) {
	tests := []struct {
		name   string
		reader func(t *testing.T) io.Reader
	}{
		{
			name: "closable input",
			reader: func(t *testing.T) io.Reader {
				r, w := io.Pipe()
				t.Cleanup(func() { w.Close() })
				return r
			},
		},
		{
			name: "input without close",
			reader: func(t *testing.T) io.Reader {
				b := blockingReader{release: make(chan struct{})}
				t.Cleanup(func() { close(b.release) })
				return b
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			r := tt.reader(t)
			served := make(chan error, 1)
			go func() {
				served <- NewServer(index.New(), 2, log.New(io.Discard)).Serve(ctx, r, io.Discard)
			}()

			time.Sleep(20 * time.Millisecond)
			cancel()

			select {
			case err := <-served:
				assert.NoError(t, err)
			case <-time.After(time.Second):
				t.Fatal("Serve kept running after cancel")
			}
		})
	}
}

func TestClientCloseWaitsForReadLoop(t *testing.T) {
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()
	client := NewClient(respR, reqW, log.New(io.Discard))

	// The server side exits once its input closes
	go func() {
		_, _ = io.Copy(io.Discard, reqR)
		time.Sleep(20 * time.Millisecond)
		respW.Close()
	}()

	var readDone bool
	client.closeWith(reqW, func() error {
		select {
		case <-client.done:
			readDone = true
		default:
		}
		return nil
	})

	require.NoError(t, client.Close())
	assert.True(t, readDone, "wait ran before the read loop finished")
}

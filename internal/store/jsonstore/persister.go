package jsonstore

import (
	"io"
	"log"
	"sync"

	"github.com/esuji5/uchiwa-generator/internal/scene"
)

// Persister writes collection changes to a Store in the background. It is a
// scene.Observer: each change replaces whatever is still pending for that
// key, so a burst of drag updates costs one write per key.
type Persister struct {
	store *Store
	log   *log.Logger

	mu      sync.Mutex
	pending map[string]any
	closed  bool

	wake  chan struct{}
	flush chan chan struct{}
	done  chan struct{}
}

func NewPersister(store *Store, logger *log.Logger) *Persister {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	p := &Persister{
		store:   store,
		log:     logger,
		pending: make(map[string]any),
		wake:    make(chan struct{}, 1),
		flush:   make(chan chan struct{}),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Persister) TextsChanged(items []scene.TextItem) { p.schedule(TextsKey, items) }

func (p *Persister) DecorationsChanged(items []scene.Decoration) {
	p.schedule(DecorationsKey, items)
}

func (p *Persister) schedule(key string, v any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.pending[key] = v
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Persister) run() {
	defer close(p.done)
	for {
		select {
		case _, ok := <-p.wake:
			p.drain()
			if !ok {
				return
			}
		case ack := <-p.flush:
			p.drain()
			close(ack)
		}
	}
}

// Flush blocks until every change reported so far is on disk.
func (p *Persister) Flush() {
	ack := make(chan struct{})
	select {
	case p.flush <- ack:
		<-ack
	case <-p.done:
	}
}

func (p *Persister) drain() {
	p.mu.Lock()
	batch := p.pending
	p.pending = make(map[string]any)
	p.mu.Unlock()
	for key, v := range batch {
		if err := p.store.Save(key, v); err != nil {
			p.log.Printf("save %s: %v", key, err)
		}
	}
}

// Close writes anything still pending and stops the writer. Changes
// reported after Close are dropped.
func (p *Persister) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.done
		return
	}
	p.closed = true
	close(p.wake)
	p.mu.Unlock()
	<-p.done
}

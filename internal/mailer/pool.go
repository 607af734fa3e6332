package mailer

import (
	"context"
	"log"
	"sync"
	"time"
)

const sendTimeout = 30 * time.Second

type job struct {
	to      string
	subject string
	html    string
}

// Pool sends mail on a bounded worker pool. Enqueue never blocks the request
// path: when the queue is full the message is dropped and logged. Send
// failures are logged only; they are never surfaced to the HTTP caller.
type Pool struct {
	mailer Mailer
	jobs   chan job
	wg     sync.WaitGroup
}

// NewPool starts a pool with the given worker count and queue size.
func NewPool(m Mailer, workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	p := &Pool{
		mailer: m,
		jobs:   make(chan job, queueSize),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Enqueue queues one message for delivery
func (p *Pool) Enqueue(to, subject, html string) {
	select {
	case p.jobs <- job{to: to, subject: subject, html: html}:
	default:
		log.Printf("mailer: queue full, dropping message to %s (%q)", to, subject)
	}
}

// Close stops accepting messages and waits for in-flight sends to finish.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for j := range p.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := p.mailer.Send(ctx, j.to, j.subject, j.html); err != nil {
			log.Printf("mailer: failed to send %q to %s: %v", j.subject, j.to, err)
		}
		cancel()
	}
}

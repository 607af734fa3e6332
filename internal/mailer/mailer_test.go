package mailer

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *capturedMailer) Send(_ context.Context, to, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+"|"+subject)
	return nil
}

func TestPoolDrainsOnClose(t *testing.T) {
	captured := &capturedMailer{}
	pool := NewPool(captured, 2, 16)

	for i := 0; i < 5; i++ {
		pool.Enqueue(fmt.Sprintf("user%d@example.com", i), "hello", "<p>hi</p>")
	}
	pool.Close()

	assert.Len(t, captured.sent, 5)
}

func TestPoolDropsWhenQueueFull(t *testing.T) {
	blocker := make(chan struct{})
	blocking := mailerFunc(func(ctx context.Context, _, _, _ string) error {
		<-blocker
		return nil
	})

	pool := NewPool(blocking, 1, 1)
	// first message occupies the worker, second fills the queue, the rest drop
	for i := 0; i < 5; i++ {
		pool.Enqueue("user@example.com", "hello", "<p>hi</p>")
	}
	close(blocker)
	pool.Close()
}

type mailerFunc func(ctx context.Context, to, subject, html string) error

func (f mailerFunc) Send(ctx context.Context, to, subject, html string) error {
	return f(ctx, to, subject, html)
}

func TestVerificationEmail(t *testing.T) {
	tmpl := Templates{Project: "myHome", FrontendURL: "https://myhome.test/"}

	subject, html, err := tmpl.VerificationEmail("Ada", "tok123", 192)
	require.NoError(t, err)
	assert.Contains(t, subject, "myHome")
	assert.Contains(t, html, "https://myhome.test/verify-email?token=tok123")
	assert.Contains(t, html, "192 hours")
	assert.Contains(t, html, "Ada")
}

func TestResetPasswordEmail(t *testing.T) {
	tmpl := Templates{Project: "myHome", FrontendURL: "https://myhome.test/"}

	subject, html, err := tmpl.ResetPasswordEmail("Ada", "tok456", 10)
	require.NoError(t, err)
	assert.Contains(t, subject, "password recovery")
	assert.Contains(t, html, "https://myhome.test/reset-password?token=tok456")
	assert.Contains(t, html, "10 minutes")
}

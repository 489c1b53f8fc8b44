package fake

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rakmedia/hr-backend-go/internal/domain/access"
	"github.com/rakmedia/hr-backend-go/internal/pkg/queue"
	"github.com/rakmedia/hr-backend-go/internal/pkg/storage"
)

// Transactor runs fn inline and counts units of work.
type Transactor struct {
	mu    sync.Mutex
	Calls int
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.Calls++
	t.mu.Unlock()
	return fn(ctx)
}

// Publisher records published messages.
type Publisher struct {
	mu       sync.Mutex
	Err      error
	Messages []queue.Message
}

func (p *Publisher) Publish(ctx context.Context, msg queue.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Messages = append(p.Messages, msg)
	return nil
}

func (p *Publisher) Close() error { return nil }

func (p *Publisher) Published() []queue.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.Message(nil), p.Messages...)
}

// Invalidator records the models it was asked to clear.
type Invalidator struct {
	mu     sync.Mutex
	Models []string
}

func (i *Invalidator) Invalidate(ctx context.Context, model string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.Models = append(i.Models, model)
}

func (i *Invalidator) Cleared() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]string(nil), i.Models...)
}

// Resolver returns a fixed subject.
type Resolver struct {
	Subject access.Subject
	Err     error
}

func (r *Resolver) Resolve(ctx context.Context) (access.Subject, error) {
	return r.Subject, r.Err
}

// Storage keeps uploaded files in memory.
type Storage struct {
	mu    sync.Mutex
	Files map[string][]byte
}

func NewStorage() *Storage {
	return &Storage{Files: map[string][]byte{}}
}

func (s *Storage) Upload(ctx context.Context, file io.Reader, path string) (string, error) {
	clean := filepath.ToSlash(filepath.Clean(path))
	if strings.HasPrefix(clean, "..") || strings.HasPrefix(clean, "/") {
		return "", storage.ErrInvalidPath
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Files[clean] = data
	return clean, nil
}

func (s *Storage) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Files, path)
	return nil
}

func (s *Storage) URL(path string) string {
	return "http://files.test/" + path
}

func (s *Storage) Exists(ctx context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Files[path]
	return ok, nil
}

func (s *Storage) Read(path string) io.Reader {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bytes.NewReader(s.Files[path])
}

// Email records sent messages.
type Email struct {
	mu       sync.Mutex
	Err      error
	Welcome  []string
	Resets   []string
	LastLink string
}

func (e *Email) SendWelcome(to, username, resetLink, expiresAt string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	e.Welcome = append(e.Welcome, to)
	e.LastLink = resetLink
	return nil
}

func (e *Email) SendPasswordReset(to, username, resetLink, expiresAt string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	e.Resets = append(e.Resets, to)
	e.LastLink = resetLink
	return nil
}

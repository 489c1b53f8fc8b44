package email

import (
	"bytes"
	"errors"
	"mime"
	"testing"

	"github.com/rakmedia/hr-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingDialer struct {
	err   error
	sent  []*gomail.Message
	calls int
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.calls++
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func newTestService(t *testing.T, d Dialer) EmailService {
	t.Helper()
	svc, err := NewEmailServiceWithDialer(config.SMTPConfig{From: "admin@example.com", FromName: "HR"}, d)
	require.NoError(t, err)
	return svc
}

func TestSendWelcome(t *testing.T) {
	d := &recordingDialer{}
	svc := newTestService(t, d)

	err := svc.SendWelcome("ana@example.com", "ana.lima", "http://fe/auth/reset-password/?uid=MQ&token=abc", "2026-01-01 10:00")
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	msg := d.sent[0]
	assert.Equal(t, []string{"ana@example.com"}, msg.GetHeader("To"))

	// non-ASCII subjects are stored RFC 2047 encoded
	subject := msg.GetHeader("Subject")
	require.Len(t, subject, 1)
	decoded, err := new(mime.WordDecoder).DecodeHeader(subject[0])
	require.NoError(t, err)
	assert.Equal(t, WelcomeSubject, decoded)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "ana.lima")
}

func TestSendPasswordReset_Subject(t *testing.T) {
	d := &recordingDialer{}
	svc := newTestService(t, d)

	require.NoError(t, svc.SendPasswordReset("a@b.com", "a", "http://x", "soon"))
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{PasswordResetSubject}, d.sent[0].GetHeader("Subject"))
}

func TestSend_FailureIsNotRetried(t *testing.T) {
	d := &recordingDialer{err: errors.New("connection refused")}
	svc := newTestService(t, d)

	err := svc.SendPasswordReset("a@b.com", "a", "http://x", "soon")
	assert.ErrorIs(t, err, d.err)
	assert.Equal(t, 1, d.calls)
	assert.Empty(t, d.sent)
}

func TestSend_NoDialerLogsOnly(t *testing.T) {
	svc := newTestService(t, nil)
	assert.NoError(t, svc.SendWelcome("a@b.com", "a", "http://x", "soon"))
}

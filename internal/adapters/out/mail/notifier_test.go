package mail

import (
	"context"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		Host:       "smtp.example.com",
		Port:       587,
		Username:   "apikey",
		Password:   "hunter2",
		From:       "snapfork@localhost",
		Recipients: []string{"ops@example.com", "dba@example.com"},
	}
}

func TestNotify(t *testing.T) {
	n := NewNotifier(testOptions())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotFrom = from
		gotTo = to
		gotMsg = msg
		return nil
	}

	err := n.Notify(context.Background(), "Backup workflow failed", "it broke")
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "snapfork@localhost", gotFrom)
	assert.Equal(t, []string{"ops@example.com", "dba@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Backup workflow failed\r\n")
	assert.Contains(t, string(gotMsg), "To: ops@example.com, dba@example.com\r\n")
	assert.Contains(t, string(gotMsg), "\r\n\r\nit broke")
}

func TestNotify_NoRecipients(t *testing.T) {
	opts := testOptions()
	opts.Recipients = nil
	n := NewNotifier(opts)

	err := n.Notify(context.Background(), "s", "b")
	require.Error(t, err)
}

func TestNotify_CancelledContext(t *testing.T) {
	n := NewNotifier(testOptions())
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		t.Fatal("send should not be called")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, n.Notify(ctx, "s", "b"))
}

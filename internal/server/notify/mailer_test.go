package notify

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSMTP accepts one session and records the DATA payload.
func fakeSMTP(t *testing.T) (host string, port int, received <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	out := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		tp := textproto.NewConn(conn)
		_ = tp.PrintfLine("220 fake ESMTP")
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			cmd := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
			switch cmd {
			case "EHLO":
				_ = tp.PrintfLine("250-fake")
				_ = tp.PrintfLine("250 8BITMIME")
			case "MAIL", "RCPT":
				_ = tp.PrintfLine("250 OK")
			case "DATA":
				_ = tp.PrintfLine("354 go ahead")
				data, err := tp.ReadDotBytes()
				if err != nil {
					return
				}
				out <- string(data)
				_ = tp.PrintfLine("250 queued")
			case "QUIT":
				_ = tp.PrintfLine("221 bye")
				return
			default:
				_ = tp.PrintfLine("502 unsupported")
			}
		}
	}()

	h, p, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	portNum, err := strconv.Atoi(p)
	require.NoError(t, err)

	return h, portNum, out
}

func TestMailer_SendOneTimeCode(t *testing.T) {
	host, port, received := fakeSMTP(t)
	m := NewMailer(host, port, "", "", "noreply@example.com")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, m.SendOneTimeCode(ctx, "alice@example.com", "012345"))

	select {
	case data := <-received:
		assert.Contains(t, data, "From: noreply@example.com")
		assert.Contains(t, data, "To: alice@example.com")
		assert.Contains(t, data, "Content-Type: text/html; charset=UTF-8")
		assert.Contains(t, data, "<b>012345</b>")
	case <-time.After(5 * time.Second):
		t.Fatal("message not received")
	}
}

func TestMailer_DialError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	m := NewMailer("127.0.0.1", addr.Port, "", "", "noreply@example.com")
	err = m.SendOneTimeCode(context.Background(), "alice@example.com", "012345")
	assert.Error(t, err)
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("a@example.com", "b@example.com", "Сброс", "<p>hi</p>"))

	assert.True(t, strings.HasPrefix(msg, "From: a@example.com\r\nTo: b@example.com\r\n"))
	assert.Contains(t, msg, "Subject: =?UTF-8?q?")
	assert.Contains(t, msg, "\r\n\r\n<p>hi</p>")
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	require.NoError(t, NewLogSink(logger).SendOneTimeCode(context.Background(), "alice@example.com", "000001"))

	sc := bufio.NewScanner(&buf)
	require.True(t, sc.Scan())
	assert.Contains(t, sc.Text(), "email=alice@example.com")
	assert.Contains(t, sc.Text(), "otp_code=000001")
}

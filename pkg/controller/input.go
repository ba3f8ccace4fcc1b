package controller

import (
	"io"
	"sync"
	"time"
)

// Input buffers bytes received on the console and splits them into integer
// tokens. A token is an optional sign followed by decimal digits, every other
// byte separates tokens. A token at the end of the buffer is only complete
// once a separator follows it or no byte has arrived for the token timeout.
type Input struct {
	mu      sync.Mutex
	buf     []byte
	last    time.Time
	stalled bool
	timeout time.Duration
	now     func() time.Time
}

func NewInput(tokenTimeout time.Duration) *Input {
	return &Input{timeout: tokenTimeout, now: time.Now}
}

// Write appends received bytes. New bytes clear a stall.
func (in *Input) Write(p []byte) (int, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.buf = append(in.buf, p...)
	in.last = in.now()
	in.stalled = false
	return len(p), nil
}

// ReadFrom copies r into the buffer until r fails. io.EOF is not an error.
func (in *Input) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	chunk := make([]byte, 256)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			_, _ = in.Write(chunk[:n])
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Stall stops tokenizing the bytes already buffered. Next reports nothing until
// more bytes arrive.
func (in *Input) Stall() {
	in.mu.Lock()
	in.stalled = true
	in.mu.Unlock()
}

// Buffered returns the number of bytes not yet consumed.
func (in *Input) Buffered() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.buf)
}

// Next returns the next complete token, without blocking.
func (in *Input) Next() (string, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.stalled {
		return "", false
	}
	idle := in.timeout <= 0 || in.now().Sub(in.last) >= in.timeout

	i := 0
	for i < len(in.buf) && !startsToken(in.buf, i, idle) {
		i++
	}
	in.buf = in.buf[i:]
	if len(in.buf) == 0 {
		return "", false
	}

	j := 0
	if isSign(in.buf[0]) {
		j++
	}
	for j < len(in.buf) && isDigit(in.buf[j]) {
		j++
	}
	if j == len(in.buf) && !idle {
		return "", false
	}
	tok := string(in.buf[:j])
	in.buf = in.buf[j:]
	return tok, true
}

// startsToken reports whether a token may start at buf[i]. A trailing sign may
// still be followed by digits, so it is kept until the line goes idle.
func startsToken(buf []byte, i int, idle bool) bool {
	c := buf[i]
	if isDigit(c) {
		return true
	}
	if !isSign(c) {
		return false
	}
	if i+1 == len(buf) {
		return !idle
	}
	return isDigit(buf[i+1])
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSign(c byte) bool { return c == '-' || c == '+' }

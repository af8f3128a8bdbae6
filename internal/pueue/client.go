// Package pueue implements the client side of the Pueue daemon control
// socket: the task and snapshot types plus the request/response connection
// the UI drives.
//
// The protocol is newline-delimited JSON over a unix socket. The client is
// strictly sequential: one request goes out, its reply is read, and only
// then may the next request start. Log following runs on a dedicated second
// connection so a long-lived stream never blocks the control channel.
package pueue

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/usher-tui/usher/internal/logging"
)

const dialTimeout = 3 * time.Second

// ErrReconnectFailed marks a transport failure where the follow-up redial
// also failed. The UI keeps showing it until a later operation succeeds.
var ErrReconnectFailed = errors.New("reconnection failed")

// request is the wire envelope for one call. Params stay raw so each method
// marshals its own payload.
type request struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// response is the wire envelope for one reply. A non-empty Error means the
// daemon understood the request and rejected it.
type response struct {
	ID    string          `json:"id"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Client is the control channel to the daemon. All methods block until the
// reply arrives; the mutex enforces the single-outstanding-request contract.
type Client struct {
	socketPath string

	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
}

// Dial connects to the daemon control socket. Startup fails here, before
// the terminal is taken over, when no daemon is listening.
func Dial(socketPath string) (*Client, error) {
	c := &Client{socketPath: socketPath}
	conn, err := net.DialTimeout("unix", c.socketPath, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", socketPath, err)
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return c, nil
}

// Close tears down the control connection. Log streams hold their own
// connections and are unaffected.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Status fetches the full task snapshot. On a transport failure it redials
// once and, if the redial succeeds, issues the request again. This is the
// only operation with an automatic retry; everything else surfaces the
// failure and leaves the healed connection for the next attempt.
func (c *Client) Status() (State, error) {
	var st State
	if err := c.call("status", nil, &st, true); err != nil {
		return State{}, err
	}
	if st.Tasks == nil {
		st.Tasks = make(map[int]Task)
	}
	return st, nil
}

type idsParams struct {
	TaskIDs []int `json:"taskIds"`
}

type pauseParams struct {
	TaskIDs []int `json:"taskIds"`
	Wait    bool  `json:"wait"`
}

type killParams struct {
	TaskIDs []int  `json:"taskIds"`
	Signal  string `json:"signal,omitempty"`
}

type restartParams struct {
	Tasks            []RestartTask `json:"tasks"`
	StartImmediately bool          `json:"startImmediately"`
	Stashed          bool          `json:"stashed"`
}

type logParams struct {
	TaskID int `json:"taskId"`
	Lines  int `json:"lines,omitempty"`
}

// Start resumes queued or paused tasks.
func (c *Client) Start(ids []int) error {
	return c.call("start", idsParams{TaskIDs: ids}, nil, false)
}

// Pause pauses running tasks without waiting for children to settle.
func (c *Client) Pause(ids []int) error {
	return c.call("pause", pauseParams{TaskIDs: ids}, nil, false)
}

// Kill terminates running tasks with the daemon's default signal.
func (c *Client) Kill(ids []int) error {
	return c.call("kill", killParams{TaskIDs: ids}, nil, false)
}

// Remove deletes tasks from the queue. The daemon rejects removal of
// running or paused tasks, so callers filter those out first.
func (c *Client) Remove(ids []int) error {
	return c.call("remove", idsParams{TaskIDs: ids}, nil, false)
}

// Restart re-enqueues finished tasks with their original invocation and
// starts them immediately.
func (c *Client) Restart(tasks []RestartTask) error {
	return c.call("restart", restartParams{Tasks: tasks, StartImmediately: true}, nil, false)
}

// call issues one request under the lock and applies the reconnect policy:
// transport failures trigger a single redial, and only callers that opt in
// get the request re-issued afterwards.
func (c *Client) call(method string, params any, out any, retryAfterRedial bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.roundTrip(method, params, out)
	if err == nil || !IsTransportErr(err) {
		return err
	}
	logging.Warn("daemon connection lost", "method", method, "error", err)
	if rerr := c.redial(); rerr != nil {
		return fmt.Errorf("%w: %v", ErrReconnectFailed, rerr)
	}
	logging.Info("reconnected to daemon", "socket", c.socketPath)
	if !retryAfterRedial {
		return err
	}
	return c.roundTrip(method, params, out)
}

// roundTrip writes one request line and reads one reply line. Callers hold
// the mutex.
func (c *Client) roundTrip(method string, params any, out any) error {
	if c.conn == nil {
		return fmt.Errorf("send %s: %w", method, net.ErrClosed)
	}
	req := request{ID: uuid.NewString(), Method: method}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("encode %s params: %w", method, err)
		}
		req.Params = raw
	}
	line, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", method, err)
	}
	if _, err := c.conn.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("send %s: %w", method, err)
	}
	replyLine, err := c.reader.ReadBytes('\n')
	if err != nil {
		return fmt.Errorf("read %s reply: %w", method, err)
	}
	var reply response
	if err := json.Unmarshal(replyLine, &reply); err != nil {
		return fmt.Errorf("decode %s reply: %w", method, err)
	}
	if reply.ID != req.ID {
		return fmt.Errorf("read %s reply: got id %q, want %q: %w", method, reply.ID, req.ID, io.ErrUnexpectedEOF)
	}
	if reply.Error != "" {
		return errors.New(reply.Error)
	}
	if out != nil && len(reply.Data) > 0 {
		if err := json.Unmarshal(reply.Data, out); err != nil {
			return fmt.Errorf("decode %s data: %w", method, err)
		}
	}
	return nil
}

// redial replaces the control connection. Callers hold the mutex.
func (c *Client) redial() error {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	conn, err := net.DialTimeout("unix", c.socketPath, dialTimeout)
	if err != nil {
		return err
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return nil
}

// IsTransportErr reports whether err looks like a broken connection rather
// than a daemon-level rejection. Only these failures are worth a redial.
func IsTransportErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	msg := err.Error()
	for _, sig := range []string{
		"broken pipe",
		"connection reset",
		"connection refused",
		"no such file or directory",
	} {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// Stream delivers one task's log output chunk by chunk. The concrete
// implementation is LogStream; it is an interface so the UI can be driven
// by a scripted stream in tests, the same way net.Conn stands in for a
// real socket.
type Stream interface {
	// Next blocks for the following chunk. It returns io.EOF when the
	// stream ended, whether by daemon close or by Close.
	Next() (string, error)
	// Close releases the stream's connection. A blocked Next unblocks
	// with io.EOF.
	Close() error
}

// LogStream is a live follow of one task's output over its own connection.
type LogStream struct {
	taskID int
	conn   net.Conn
	reader *bufio.Reader
}

// logFrame is one streamed chunk. Done marks the daemon-side end of stream.
type logFrame struct {
	Chunk string `json:"chunk,omitempty"`
	Done  bool   `json:"done,omitempty"`
}

// FollowLogs opens a dedicated connection and asks the daemon to stream the
// task's output. The first reply carries the backlog (up to lines trailing
// lines), returned as initial content; every following line on the wire is
// a bare frame until the daemon marks the stream done.
func (c *Client) FollowLogs(id, lines int) (Stream, string, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, dialTimeout)
	if err != nil {
		return nil, "", fmt.Errorf("dial log stream: %w", err)
	}
	req := request{ID: uuid.NewString(), Method: "log"}
	raw, err := json.Marshal(logParams{TaskID: id, Lines: lines})
	if err != nil {
		conn.Close()
		return nil, "", fmt.Errorf("encode log params: %w", err)
	}
	req.Params = raw
	line, err := json.Marshal(req)
	if err != nil {
		conn.Close()
		return nil, "", fmt.Errorf("encode log request: %w", err)
	}
	if _, err := conn.Write(append(line, '\n')); err != nil {
		conn.Close()
		return nil, "", fmt.Errorf("send log request: %w", err)
	}
	reader := bufio.NewReader(conn)
	replyLine, err := reader.ReadBytes('\n')
	if err != nil {
		conn.Close()
		return nil, "", fmt.Errorf("read log reply: %w", err)
	}
	var reply response
	if err := json.Unmarshal(replyLine, &reply); err != nil {
		conn.Close()
		return nil, "", fmt.Errorf("decode log reply: %w", err)
	}
	if reply.Error != "" {
		conn.Close()
		return nil, "", errors.New(reply.Error)
	}
	var first logFrame
	if len(reply.Data) > 0 {
		if err := json.Unmarshal(reply.Data, &first); err != nil {
			conn.Close()
			return nil, "", fmt.Errorf("decode log backlog: %w", err)
		}
	}
	s := &LogStream{taskID: id, conn: conn, reader: reader}
	return s, first.Chunk, nil
}

// Next blocks for the following chunk. Any read or decode failure is folded
// into io.EOF: from the viewer's side a broken stream and a finished stream
// look the same.
func (s *LogStream) Next() (string, error) {
	line, err := s.reader.ReadBytes('\n')
	if err != nil {
		return "", io.EOF
	}
	var f logFrame
	if err := json.Unmarshal(line, &f); err != nil {
		return "", io.EOF
	}
	if f.Done {
		return "", io.EOF
	}
	return f.Chunk, nil
}

// Close releases the stream's connection.
func (s *LogStream) Close() error {
	return s.conn.Close()
}

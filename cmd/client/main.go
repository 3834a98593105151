package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	relay "github.com/agnivade/asr_relay"
	"github.com/agnivade/asr_relay/providers"
)

const (
	sampleRate      = 16000
	framesPerBuffer = 1024

	// terminateWait bounds how long the client waits for the last
	// transcripts after asking the relay to terminate.
	terminateWait = 5 * time.Second
)

type Client struct {
	conn        *websocket.Conn
	audioReader io.Reader
	log         *zap.Logger
	out         io.Writer
	bufWriter   *bufio.Writer

	finals      *recentFinals
	showInterim bool

	writeMu  sync.Mutex
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
	wg       sync.WaitGroup
}

func main() {
	serverURL := flag.String("url", "ws://localhost:8081/stream/assemblyai", "Relay stream URL")
	outputPath := flag.String("output", "", "Output file path for final transcripts (optional)")
	interim := flag.Bool("interim", false, "Print interim transcripts")
	threshold := flag.Float64("dedup", 0.9, "Similarity above which a final transcript is treated as a repeat")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	mic, err := NewMicrophoneReader(sampleRate, framesPerBuffer)
	if err != nil {
		logger.Error("opening microphone", zap.Error(err))
		return
	}
	defer mic.Close()

	conn, _, err := websocket.DefaultDialer.Dial(*serverURL, nil)
	if err != nil {
		logger.Error("websocket dial failed", zap.String("url", *serverURL), zap.Error(err))
		return
	}

	client := newClient(conn, mic, logger)
	client.showInterim = *interim
	client.finals = newRecentFinals(10, *threshold)

	if *outputPath != "" {
		outputFile, err := os.Create(*outputPath)
		if err != nil {
			logger.Error("creating output file", zap.Error(err))
			return
		}
		defer outputFile.Close()
		client.bufWriter = bufio.NewWriter(outputFile)
		defer client.bufWriter.Flush()
	}

	fmt.Println("Recording... Press Ctrl+C to stop.")
	client.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sig:
		if err := client.Terminate(); err != nil {
			logger.Warn("sending terminate", zap.Error(err))
		}
		client.Wait(terminateWait)
	case <-client.done:
	}

	client.Close()
	fmt.Println("\nDone.")
}

func newClient(conn *websocket.Conn, audio io.Reader, logger *zap.Logger) *Client {
	return &Client{
		conn:        conn,
		audioReader: audio,
		log:         logger,
		out:         os.Stdout,
		finals:      newRecentFinals(10, 0.9),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

func (c *Client) Start() {
	c.wg.Add(2)
	go c.reader()
	go c.writer()
}

// reader prints relay messages until the relay closes the connection.
func (c *Client) reader() {
	defer c.wg.Done()
	defer close(c.done)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			switch {
			case errors.As(err, &closeErr):
				c.log.Debug("relay closed the connection", zap.Int("code", closeErr.Code))
			case !errors.Is(err, net.ErrClosed):
				c.log.Warn("websocket read error", zap.Error(err))
			}
			return
		}

		var msg providers.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Warn("failed to unmarshal message", zap.Error(err))
			continue
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg providers.Message) {
	timestamp := time.Now().Format("15:04:05")
	switch msg.Type {
	case providers.TypeStatus:
		fmt.Fprintf(c.out, "[%s] * %s\n", timestamp, msg.Message)
	case providers.TypeError:
		fmt.Fprintf(c.out, "[%s] ! %s\n", timestamp, msg.Message)
	case providers.TypeTranscript:
		if !msg.IsFinal {
			if c.showInterim {
				fmt.Fprintf(c.out, "[%s] ~ %s\n", timestamp, msg.Text)
			}
			return
		}
		if c.finals.Seen(msg.Text) {
			return
		}
		line := fmt.Sprintf("[%s] %s\n", timestamp, msg.Text)
		fmt.Fprint(c.out, line)
		if c.bufWriter != nil {
			if _, err := c.bufWriter.WriteString(line); err != nil {
				c.log.Warn("failed to write to output file", zap.Error(err))
			} else {
				c.bufWriter.Flush()
			}
		}
	}
}

// writer streams audio as binary frames until the audio source ends or the
// client terminates.
func (c *Client) writer() {
	defer c.wg.Done()

	buf := make([]byte, framesPerBuffer*2)
	for {
		select {
		case <-c.stop:
			return
		default:
		}

		n, err := c.audioReader.Read(buf)
		if n > 0 {
			if werr := c.write(websocket.BinaryMessage, buf[:n]); werr != nil {
				if !errors.Is(werr, net.ErrClosed) && !errors.Is(werr, websocket.ErrCloseSent) {
					c.log.Warn("websocket write error", zap.Error(werr))
				}
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.log.Warn("audio read error", zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

// Terminate stops streaming audio and asks the relay to flush the backend
// and end the session.
func (c *Client) Terminate() error {
	c.stopOnce.Do(func() { close(c.stop) })
	data, err := json.Marshal(relay.ControlSignal{Type: relay.ControlTerminate})
	if err != nil {
		return err
	}
	return c.write(websocket.TextMessage, data)
}

// Wait blocks until the relay closes the connection or timeout passes.
func (c *Client) Wait(timeout time.Duration) bool {
	select {
	case <-c.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (c *Client) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
	c.conn.Close()
	c.wg.Wait()
}

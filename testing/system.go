package testing

import (
	"bufio"
	"container/ring"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	client "github.com/tendermint/tendermint/rpc/client/http"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	"github.com/tendermint/tendermint/types"
)

var workDir string

// SystemUnderTest is a running LocalTerra node and the harness binary driving it
type SystemUnderTest struct {
	blockListener EventListener
	currentHeight int64
	rpcAddr       string
	blockTime     time.Duration
	// homeDir holds the address book and keyring of the harness runs
	homeDir   string
	cleanupFn []CleanupFn
	outBuff   *ring.Ring
	errBuff   *ring.Ring
	out       io.Writer
	verbose   bool
}

func NewSystemUnderTest(verbose bool, rpcAddr, homeDir string) *SystemUnderTest {
	return &SystemUnderTest{
		rpcAddr:   rpcAddr,
		blockTime: 5 * time.Second,
		homeDir:   homeDir,
		outBuff:   ring.New(200),
		errBuff:   ring.New(200),
		out:       os.Stdout,
		verbose:   verbose,
	}
}

// StartBlockListener waits for the node and tracks the block height
func (s *SystemUnderTest) StartBlockListener(t *testing.T) {
	s.awaitChainUp(t)

	t.Log("Start new block listener")
	s.blockListener = NewEventListener(t, s.rpcAddr)
	s.cleanupFn = append(s.cleanupFn,
		s.blockListener.Subscribe("tm.event='NewBlock'", func(e ctypes.ResultEvent) (more bool) {
			newBlock, ok := e.Data.(types.EventDataNewBlock)
			require.True(t, ok, "unexpected type %T", e.Data)
			atomic.StoreInt64(&s.currentHeight, newBlock.Block.Height)
			return true
		}),
	)
}

// awaitChainUp ensures the chain is running
func (s SystemUnderTest) awaitChainUp(t *testing.T) {
	t.Log("Await chain starts")
	timeout := defaultWaitTime
	ctx, done := context.WithTimeout(context.Background(), timeout)
	defer done()

	started := make(chan struct{})
	go func() { // query for a non empty block on status page
		t.Logf("Checking node status: %s\n", s.rpcAddr)
		for ctx.Err() == nil {
			con, err := client.New(s.rpcAddr, "/websocket")
			if err != nil {
				time.Sleep(time.Second)
				continue
			}
			result, err := con.Status(ctx)
			if err != nil || result.SyncInfo.LatestBlockHeight < 1 {
				time.Sleep(time.Second)
				continue
			}
			t.Logf("Node started. Current block: %d\n", result.SyncInfo.LatestBlockHeight)
			close(started)
			return
		}
	}()
	select {
	case <-started:
	case <-ctx.Done():
		t.Fatalf("timeout waiting for chain start: %s", timeout)
	}
}

// Cleanup executes all registered cleanup callbacks
func (s *SystemUnderTest) Cleanup() {
	s.Log("Cleanup\n")
	for _, c := range s.cleanupFn {
		c()
	}
	s.cleanupFn = nil
}

// ResetAddressBook drops the recorded deployments so that the next setup starts from scratch
func (s SystemUnderTest) ResetAddressBook(t *testing.T) {
	t.Log("Reset address book")
	require.NoError(t, os.RemoveAll(filepath.Join(s.homeDir, "data")))
}

// AwaitNextBlock waits until a new block was minted
func (s SystemUnderTest) AwaitNextBlock(t *testing.T) {
	done := make(chan struct{})
	go func() {
		for start := atomic.LoadInt64(&s.currentHeight); atomic.LoadInt64(&s.currentHeight) <= start; {
			time.Sleep(time.Second)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.NewTimer(s.blockTime * 2).C:
		t.Fatalf("Timeout - no block within %s", s.blockTime*2)
	}
}

// record keeps the latest output lines of a harness run for PrintBuffer
func (s *SystemUnderTest) record(out, errOut string) {
	s.outBuff = appendToBuf(out, s.outBuff)
	s.errBuff = appendToBuf(errOut, s.errBuff)
}

func appendToBuf(text string, b *ring.Ring) *ring.Ring {
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		b.Value = scanner.Text()
		b = b.Next()
	}
	return b
}

// PrintBuffer prints the harness logs to the console
func (s SystemUnderTest) PrintBuffer() {
	s.outBuff.Do(func(v interface{}) {
		if v != nil {
			fmt.Fprintf(s.out, "out> %s\n", v)
		}
	})
	fmt.Fprint(s.out, "8< harness err -----------------------------------------\n")
	s.errBuff.Do(func(v interface{}) {
		if v != nil {
			fmt.Fprintf(s.out, "err> %s\n", v)
		}
	})
}

// BuildNewBinary builds the harness binary into the build dir
func (s SystemUnderTest) BuildNewBinary() {
	s.Log("Build harness binary\n")
	cmd := exec.Command(locateExecutable("go"), "build", "-o", filepath.Join("build", "harness"), "./cmd/harness")
	cmd.Dir = workDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		panic(fmt.Sprintf("unexpected error %#v : output: %s", err, string(out)))
	}
}

func (s SystemUnderTest) Log(msg string) {
	if s.verbose {
		fmt.Fprint(s.out, msg)
	}
}

func (s SystemUnderTest) Logf(msg string, args ...interface{}) {
	s.Log(fmt.Sprintf(msg, args...))
}

// locateExecutable looks up the binary on the OS path.
func locateExecutable(file string) string {
	path, err := exec.LookPath(file)
	if err != nil {
		panic(fmt.Sprintf("unexpected error %#v", err))
	}
	if path == "" {
		panic(fmt.Sprintf("%q not found", file))
	}
	return path
}

// EventListener watches for events on the chain
type EventListener struct {
	t      *testing.T
	client *client.HTTP
}

// NewEventListener event listener
func NewEventListener(t *testing.T, rpcAddr string) EventListener {
	httpClient, err := client.New(rpcAddr, "/websocket")
	require.NoError(t, err)
	require.NoError(t, httpClient.Start())
	return EventListener{client: httpClient, t: t}
}

var defaultWaitTime = 60 * time.Second

type (
	CleanupFn     func()
	EventConsumer func(e ctypes.ResultEvent) (more bool)
)

// Subscribe to receive events for a topic.
// For query syntax See https://docs.cosmos.network/master/core/events.html#subscribing-to-events
func (l EventListener) Subscribe(query string, cb EventConsumer) func() {
	ctx, done := context.WithCancel(context.Background())
	eventsChan, err := l.client.WSEvents.Subscribe(ctx, "testing", query)
	require.NoError(l.t, err)
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultWaitTime)
		defer cancel()
		_ = l.client.WSEvents.Unsubscribe(ctx, "testing", query)
		done()
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case e := <-eventsChan:
				if !cb(e) {
					return
				}
			}
		}
	}()
	return cleanup
}

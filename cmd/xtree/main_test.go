package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xtree/observability"
)

func runApp(t *testing.T, in string, args ...string) (string, error) {
	out := &bytes.Buffer{}
	app := newApp(strings.NewReader(in), out)
	err := app.Run(append([]string{"xtree", "--log-level", "error"}, args...))
	return out.String(), err
}

func TestRunCommand_Args(t *testing.T) {
	out, err := runApp(t, "", "run", "--", "10", "20", "30", "-10", "?30")
	require.NoError(t, err)
	require.Contains(t, out, "nodes: 2\n")
	require.Contains(t, out, "preorder: 20 30\n")
}

func TestRunCommand_Stdin(t *testing.T) {
	out, err := runApp(t, "1 2 3 4 5 6 7\n", "run", "--kind", "bst", "--draw")
	require.NoError(t, err)
	require.Contains(t, out, "height: 7\n")
	require.Contains(t, out, "|------+ 1\n")
}

func TestRunCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.txt")
	require.NoError(t, os.WriteFile(path, []byte("# ascending\n1 2 3\n"), 0o644))
	out, err := runApp(t, "", "run", "--file", path, "--layout")
	require.NoError(t, err)
	require.Contains(t, out, "levelorder: 2 1 3\n")
	require.Contains(t, out, "node 2: (700.0, 0.0)\n")
}

func TestRunCommand_Errors(t *testing.T) {
	out, err := runApp(t, "", "run", "--", "1", "oops", "2")
	require.ErrorIs(t, err, ErrInvalidToken)
	require.Contains(t, out, "nodes: 2\n")

	_, err = runApp(t, "", "run", "--kind", "splay", "--", "1")
	require.ErrorIs(t, err, ErrUnknownTreeKind)

	_, err = runApp(t, "", "--metrics", "graphite", "run", "--", "1")
	require.Error(t, err)

	_, err = runApp(t, "", "--metrics", "Prometheus", "run", "--", "1")
	require.ErrorIs(t, err, ErrMetricsNeedWatch)
}

func TestRunCommand_Compare(t *testing.T) {
	out, err := runApp(t, "1 2 3\n4 5 # grow\n", "run", "--compare", "--layout")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "before:\nheight: 2\nnodes: 3\n"))
	require.Contains(t, out, "\nafter:\nheight: 3\nnodes: 5\n")
	// Both roots hold 2, each tree is centred in its own half.
	require.Contains(t, out, "node 2: (350.0, 0.0)\n")
	require.Contains(t, out, "node 2: (1050.0, 0.0)\n")

	out, err = runApp(t, "", "run", "--compare", "--", "7")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "before:\nheight: 0\n"))
	require.Contains(t, out, "after:\nheight: 1\n")
}

func TestRunCommand_FindPath(t *testing.T) {
	out, err := runApp(t, "", "run", "--layout", "--", "10", "20", "30", "?30", "?10", "-10")
	require.NoError(t, err)
	require.Contains(t, out, "find 30: 0 1\n")
	require.Contains(t, out, "find 10: 0\n")

	out, err = runApp(t, "", "run", "--", "10", "?10")
	require.NoError(t, err)
	require.NotContains(t, out, "find 10")
}

type lockedBuffer struct {
	lock sync.Mutex
	buf  bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.String()
}

func TestOpsWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 2 3"), 0o644))

	out := &lockedBuffer{}
	w, err := newOpsWatcher(watchCfg{path: path, kind: "avl", out: out}, testLogger(), nil)
	require.NoError(t, err)
	require.NoError(t, w.start(context.TODO()))
	require.Contains(t, out.String(), "nodes: 3\n")

	require.NoError(t, os.WriteFile(path, []byte("1 2 3 4 5"), 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "nodes: 5\n")
	}, 5*time.Second, 20*time.Millisecond)

	// Other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.txt"), []byte("9"), 0o644))
	time.Sleep(100 * time.Millisecond)
	require.NotContains(t, out.String(), "nodes: 1\n")

	require.NoError(t, w.stop(context.TODO()))
	require.NoError(t, w.stop(context.TODO()))
}

func TestOpsWatcher_ShapeGauges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 2 3 4 5 6 7"), 0o644))

	stats, reader := newTestStats(t)
	out := &lockedBuffer{}
	w, err := newOpsWatcher(watchCfg{path: path, kind: "avl", out: out}, testLogger(), stats)
	require.NoError(t, err)
	require.NoError(t, w.start(context.TODO()))
	defer func() {
		require.NoError(t, w.stop(context.TODO()))
	}()

	height, nodes := gaugeValues(t, reader)
	require.Equal(t, int64(3), height)
	require.Equal(t, int64(7), nodes)
	require.Equal(t, int64(7), w.last.tree.Len())

	require.NoError(t, os.WriteFile(path, []byte("1 2"), 0o644))
	require.Eventually(t, func() bool {
		height, nodes := gaugeValues(t, reader)
		return height == 2 && nodes == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestMetricsServer(t *testing.T) {
	shutdown, err := observability.NewPrometheusMetricsExporter()
	require.NoError(t, err)
	defer func() {
		require.NoError(t, shutdown(context.TODO()))
	}()
	stats, err := observability.NewTreeStats(nil, "avl")
	require.NoError(t, err)
	stats.ObserveShape(3, 7)

	m := newMetricsServer("127.0.0.1:0", testLogger())
	require.NoError(t, m.start(context.TODO()))
	defer func() {
		require.NoError(t, m.stop(context.TODO()))
	}()

	resp, err := http.Get("http://" + m.ln.Addr().String() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "xtree_height")
	require.Contains(t, string(body), "xtree_nodes")
}

func TestNewOpsWatcher_UnknownKind(t *testing.T) {
	_, err := newOpsWatcher(watchCfg{path: "ops.txt", kind: "splay"}, testLogger(), nil)
	require.ErrorIs(t, err, ErrUnknownTreeKind)
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/spatialindex/pkg/cli/clierror"
	"github.com/cockroachdb/spatialindex/pkg/cli/exit"
	"github.com/cockroachdb/spatialindex/pkg/rtree"
	"github.com/cockroachdb/spatialindex/pkg/util/leaktest"
	"github.com/cockroachdb/spatialindex/pkg/util/log"
	"github.com/stretchr/testify/require"
)

type cliTest struct {
	t   *testing.T
	dir string
}

func newCLITest(t *testing.T) cliTest {
	t.Cleanup(log.SetOutput(io.Discard))
	return cliTest{t: t, dir: t.TempDir()}
}

func (c cliTest) path(name string) string {
	return filepath.Join(c.dir, name)
}

// run executes rtreectl with the given standard input and returns its
// output with the test directory replaced by $DIR.
func (c cliTest) run(stdin string, args ...string) (string, error) {
	setCLIDefaults()
	var out bytes.Buffer
	rtreectlCmd.SetOut(&out)
	rtreectlCmd.SetErr(&out)
	rtreectlCmd.SetIn(strings.NewReader(stdin))
	err := Run(args)
	return strings.ReplaceAll(out.String(), c.dir, "$DIR"), err
}

func (c cliTest) mustRun(stdin string, args ...string) string {
	c.t.Helper()
	out, err := c.run(stdin, args...)
	require.NoError(c.t, err, "rtreectl %s", strings.Join(args, " "))
	return out
}

func TestCreateInsertSearch(t *testing.T) {
	defer leaktest.AfterTest(t)()
	c := newCLITest(t)
	idx := c.path("idx")

	require.Equal(t,
		"created $DIR/idx: 2 dimensions, node capacity 9, leaf capacity 9, rstar split, forced reinsertion\n",
		c.mustRun("", "create", idx, "--split=rstar"))

	require.Equal(t, "inserted 3 items, 3 total\n",
		c.mustRun("1 0 0 1 1\n2 5 5 6 6\n# comment\n\n3 2 2 3 3\n", "insert", idx))

	require.Equal(t, "id\trect\n1\t(0,0)-(1,1)\n3\t(2,2)-(3,3)\n",
		c.mustRun("", "search", idx, "0", "0", "2.5", "2.5"))
	require.Equal(t, "3\n", c.mustRun("", "search", idx, "--count", "0", "0", "10", "10"))
	require.Equal(t, "id\trect\n1\t(0,0)-(1,1)\n",
		c.mustRun("", "search", idx, "--limit=1", "0", "0", "10", "10"))
	require.Contains(t, c.mustRun("", "search", idx, "--format=table", "0", "0", "10", "10"), "(3 rows)\n")
	require.Equal(t, "id\trect\n", c.mustRun("", "search", idx, "20", "20", "30", "30"))

	require.Equal(t, "deleted 2\n", c.mustRun("", "delete", idx, "2", "5", "5", "6", "6"))
	require.Equal(t, "2 not found\n", c.mustRun("", "delete", idx, "2", "5", "5", "6", "6"))
	require.Equal(t, "$DIR/idx: ok, 2 items\n", c.mustRun("", "check", idx))

	stats := c.mustRun("", "stats", idx)
	for _, s := range []string{
		"dimensions: 2\n",
		"split: rstar\n",
		"height: 0\n",
		"items: 2\n",
		"file size: 432 B\n",
		"free nodes: 0\n",
		"level\tnodes\tbranches\n0\t1\t2\n",
	} {
		require.Contains(t, stats, s)
	}

	metrics := c.mustRun("", "stats", idx, "--metrics")
	require.Contains(t, metrics, "rtree_items 2\n")
	require.Contains(t, metrics, "rtree_height 0\n")
}

func TestCreateLayout(t *testing.T) {
	defer leaktest.AfterTest(t)()
	c := newCLITest(t)
	idx := c.path("nested/dir/idx")

	require.Equal(t,
		"created $DIR/nested/dir/idx: 3 dimensions, node capacity 6, leaf capacity 4, quadratic split, no forced reinsertion\n",
		c.mustRun("", "create", idx, "--dims=3", "--node-card=6", "--leaf-card=4", "--split=quadratic", "--no-overflow"))

	f, err := os.Open(idx)
	require.NoError(t, err)
	defer f.Close()
	h, err := rtree.ReadHeader(f)
	require.NoError(t, err)
	require.Equal(t, 3, h.NumDims)
	require.Equal(t, 6, h.NodeCard)
	require.Equal(t, 4, h.LeafCard)
	require.Equal(t, rtree.QuadraticSplit, h.SplitMethod)
	require.False(t, h.Overflow)
	require.Equal(t, int64(rtree.HeaderSize), h.RootPos)

	require.Equal(t, "inserted 1 items, 1 total\n", c.mustRun("7 0 0 0 1 1 1\n", "insert", idx))
	require.Equal(t, "1\n", c.mustRun("", "search", idx, "--count", "1", "1", "1", "2", "2", "2"))
}

func TestInsertFromFile(t *testing.T) {
	defer leaktest.AfterTest(t)()
	c := newCLITest(t)
	idx := c.path("idx")
	c.mustRun("", "create", idx)

	var input strings.Builder
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			fmt.Fprintf(&input, "%d %d %d %g %g\n", i*10+j+1, i, j, float64(i)+0.5, float64(j)+0.5)
		}
	}
	items := c.path("items.txt")
	require.NoError(t, os.WriteFile(items, []byte(input.String()), 0644))

	require.Equal(t, "inserted 100 items, 100 total\n", c.mustRun("", "insert", idx, "--input", items))
	require.Equal(t, "25\n", c.mustRun("", "search", idx, "--count", "0", "0", "4.9", "4.9"))
	require.Equal(t, "$DIR/idx: ok, 100 items\n", c.mustRun("", "check", idx))
	require.NotContains(t, c.mustRun("", "stats", idx), "height: 0\n")

	// Items are added to what is already there.
	require.Equal(t, "inserted 1 items, 101 total\n", c.mustRun("101 20 20 21 21\n", "insert", idx))
	require.Equal(t, "101\n", c.mustRun("", "search", idx, "--count", "0", "0", "30", "30"))
}

func TestInsertKeepsItemsBeforeError(t *testing.T) {
	defer leaktest.AfterTest(t)()
	c := newCLITest(t)
	idx := c.path("idx")
	c.mustRun("", "create", idx)

	out, err := c.run("5 7 7 8 8\n6 1 1 0 0\n", "insert", idx)
	require.ErrorContains(t, err, "line 2: low coordinate 1 exceeds high coordinate 0 in dimension 1")
	require.Empty(t, out)
	require.Equal(t, exit.UnspecifiedError(), clierror.GetExitCode(err))

	require.Equal(t, "id\trect\n5\t(7,7)-(8,8)\n", c.mustRun("", "search", idx, "0", "0", "10", "10"))
	require.Equal(t, "$DIR/idx: ok, 1 items\n", c.mustRun("", "check", idx))
}

func TestInsertGeoJSON(t *testing.T) {
	defer leaktest.AfterTest(t)()
	c := newCLITest(t)
	idx := c.path("idx")
	c.mustRun("", "create", idx)

	const features = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "id": "1", "geometry": {"type": "Point", "coordinates": [1, 2]}, "properties": {}},
  {"type": "Feature", "id": "2", "geometry": {"type": "LineString", "coordinates": [[3, 3], [5, 4]]}, "properties": {}}
]}`
	require.Equal(t, "inserted 2 items, 2 total\n", c.mustRun(features, "insert", idx, "--geojson"))
	require.Equal(t, "id\trect\n1\t(1,2)-(1,2)\n", c.mustRun("", "search", idx, "0", "0", "2", "2"))
	require.Equal(t, "id\trect\n2\t(3,3)-(5,4)\n", c.mustRun("", "search", idx, "4", "3.5", "10", "10"))

	_, err := c.run(`{"type": "FeatureCollection", "features": [
  {"type": "Feature", "id": "x", "geometry": {"type": "Point", "coordinates": [1, 2]}, "properties": {}}
]}`, "insert", idx, "--geojson")
	require.ErrorContains(t, err, "feature 1: invalid id")
}

func TestExitCodes(t *testing.T) {
	defer leaktest.AfterTest(t)()
	c := newCLITest(t)
	idx := c.path("idx")
	c.mustRun("", "create", idx)
	c.mustRun("1 0 0 1 1\n2 1 1 2 2\n", "insert", idx)

	garbage := c.path("garbage")
	require.NoError(t, os.WriteFile(garbage, bytes.Repeat([]byte{0xff}, 2*rtree.HeaderSize), 0644))

	// An index whose header claims more items than its leaves hold.
	miscounted := c.path("miscounted")
	c.mustRun("", "create", miscounted)
	c.mustRun("1 0 0 1 1\n", "insert", miscounted)
	func() {
		f, err := os.OpenFile(miscounted, os.O_RDWR, 0)
		require.NoError(t, err)
		defer f.Close()
		h, err := rtree.ReadHeader(f)
		require.NoError(t, err)
		h.Items = 99
		require.NoError(t, rtree.WriteHeader(f, h))
	}()

	for _, tc := range []struct {
		args []string
		code exit.Code
		err  string
	}{
		{[]string{"create", idx}, exit.UnspecifiedError(), "index $DIR/idx already exists"},
		{[]string{"create", idx, "--force", "--dims=1"}, exit.CommandLineFlagError(), "--dims must be in [2, 20]"},
		{[]string{"create", c.path("other"), "--leaf-card=10"}, exit.CommandLineFlagError(), "leaf capacity 10 out of range"},
		{[]string{"create", c.path("other"), "--node-card=2"}, exit.CommandLineFlagError(), "node capacity 2 out of range [3, 9]"},
		{[]string{"search", idx, "NaN", "0", "1", "1"}, exit.CommandLineFlagError(), "NaN is not a finite number"},
		{[]string{"create", c.path("other"), "--split=linear"}, exit.CommandLineFlagError(), `unknown split method "linear"`},
		{[]string{"search", idx, "--bogus"}, exit.CommandLineFlagError(), "unknown flag: --bogus"},
		{[]string{"search", idx, "0", "0", "1"}, exit.CommandLineFlagError(), "expected 4 coordinates, got 3"},
		{[]string{"search", idx, "--limit=-1", "0", "0", "1", "1"}, exit.CommandLineFlagError(), "--limit must not be negative"},
		{[]string{"delete", idx, "0", "0", "0", "1", "1"}, exit.CommandLineFlagError(), "invalid id 0"},
		{[]string{"stats", c.path("missing")}, exit.UnspecifiedError(), "no such file or directory"},
		{[]string{"stats", garbage}, exit.CorruptIndex(), "opening $DIR/garbage"},
		{[]string{"check", miscounted}, exit.CheckFailed(), "leaves hold 1 items, tree counts 99"},
	} {
		t.Run(strings.Join(tc.args[:1], " "), func(t *testing.T) {
			_, err := c.run("", tc.args...)
			require.Error(t, err)
			require.Contains(t, strings.ReplaceAll(err.Error(), c.dir, "$DIR"), tc.err)
			require.Equal(t, tc.code, clierror.GetExitCode(err))
		})
	}
}

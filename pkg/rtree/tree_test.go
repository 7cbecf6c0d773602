// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rtree

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/spatialindex/pkg/testutils/datapathutils"
	"github.com/cockroachdb/spatialindex/pkg/util/leaktest"
	"github.com/stretchr/testify/require"
)

// parseRect parses whitespace separated minima followed by maxima.
func parseRect(t *testing.T, s string) Rect {
	fields := strings.Fields(s)
	coords := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		require.NoError(t, err)
		coords[i] = v
	}
	return RectFromBoundary(coords)
}

// parseItem parses "id: rect".
func parseItem(t *testing.T, line string) (int64, Rect) {
	idStr, rectStr, ok := strings.Cut(line, ":")
	require.True(t, ok, "expected id: rect, got %q", line)
	id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
	require.NoError(t, err)
	return id, parseRect(t, rectStr)
}

func createTempFile(t *testing.T) *os.File {
	f, err := os.Create(filepath.Join(t.TempDir(), "index"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func shape(tr *Tree) string {
	return fmt.Sprintf("height=%d items=%d", tr.Height(), tr.Len())
}

func searchIDs(t *testing.T, tr *Tree, r Rect) []int64 {
	var ids []int64
	n, err := tr.Search(r, func(id int64, _ Rect) bool {
		ids = append(ids, id)
		return true
	})
	require.NoError(t, err)
	require.Equal(t, len(ids), n)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// TestTreeDataDriven runs scripts against memory or file trees:
//
//	new [dims=<n>] [card=<n>] [split=<method>] [no-overflow] [file]
//	insert        <id>: <rect> per line
//	delete        <id>: <rect> per line
//	search [limit=<n>]  a single rect
//	stats | check | reopen
func TestTreeDataDriven(t *testing.T) {
	defer leaktest.AfterTest(t)()

	datadriven.Walk(t, datapathutils.TestDataPath(t, "tree"), func(t *testing.T, path string) {
		var tr *Tree
		var f *os.File
		defer func() {
			if tr != nil {
				tr.Close()
			}
		}()

		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "new":
				if tr != nil {
					tr.Close()
				}
				dims := 2
				if d.HasArg("dims") {
					d.ScanArgs(t, "dims", &dims)
				}
				var opts Options
				if d.HasArg("card") {
					var card int
					d.ScanArgs(t, "card", &card)
					opts.NodeCard, opts.LeafCard = card, card
				}
				opts.SplitMethod = RStarSplit
				if d.HasArg("split") {
					var name string
					d.ScanArgs(t, "split", &name)
					m, err := ParseSplitMethod(name)
					require.NoError(t, err)
					opts.SplitMethod = m
				}
				opts.DisableOverflow = d.HasArg("no-overflow")

				var err error
				f = nil
				if d.HasArg("file") {
					f = createTempFile(t)
					tr, err = NewFile(f, 0, dims, opts)
				} else {
					tr, err = NewMemory(dims, opts)
				}
				if err != nil {
					return err.Error()
				}
				return shape(tr)

			case "insert":
				for _, line := range strings.Split(d.Input, "\n") {
					id, r := parseItem(t, line)
					require.NoError(t, tr.Insert(r, id))
				}
				return shape(tr)

			case "delete":
				var buf strings.Builder
				for _, line := range strings.Split(d.Input, "\n") {
					id, r := parseItem(t, line)
					found, err := tr.Delete(r, id)
					require.NoError(t, err)
					if found {
						fmt.Fprintf(&buf, "%d: found\n", id)
					} else {
						fmt.Fprintf(&buf, "%d: not found\n", id)
					}
				}
				return buf.String() + shape(tr)

			case "search":
				r := parseRect(t, d.Input)
				if d.HasArg("limit") {
					var limit int
					d.ScanArgs(t, "limit", &limit)
					seen := 0
					n, err := tr.Search(r, func(int64, Rect) bool {
						seen++
						return seen < limit
					})
					require.NoError(t, err)
					return fmt.Sprintf("hits=%d", n)
				}
				ids := searchIDs(t, tr, r)
				if len(ids) == 0 {
					return "none"
				}
				parts := make([]string, len(ids))
				for i, id := range ids {
					parts[i] = strconv.FormatInt(id, 10)
				}
				return strings.Join(parts, " ")

			case "stats":
				st, err := tr.Stats()
				require.NoError(t, err)
				return st.String()

			case "check":
				if err := tr.Check(); err != nil {
					return err.Error()
				}
				return "ok"

			case "reopen":
				if f == nil {
					d.Fatalf(t, "reopen requires a file tree")
				}
				require.NoError(t, tr.Flush())
				h := tr.Header()
				tr.Close()
				var err error
				tr, err = OpenFile(f, h, Options{})
				require.NoError(t, err)
				return shape(tr)

			default:
				d.Fatalf(t, "unknown command %s", d.Cmd)
				return ""
			}
		})
	})
}

func TestThreeRects(t *testing.T) {
	defer leaktest.AfterTest(t)()

	for _, file := range []bool{false, true} {
		t.Run(fmt.Sprintf("file=%t", file), func(t *testing.T) {
			var tr *Tree
			var err error
			if file {
				tr, err = Create(createTempFile(t), 128, 2, Options{})
			} else {
				tr, err = Create(nil, 0, 2, Options{})
			}
			require.NoError(t, err)
			defer tr.Close()

			require.NoError(t, tr.Insert(Rect2D(0, 0, 1, 1), 1))
			require.NoError(t, tr.Insert(Rect2D(5, 5, 6, 6), 2))
			require.NoError(t, tr.Insert(Rect2D(0.5, 0.5, 1.5, 1.5), 3))

			require.Equal(t, []int64{1, 3}, searchIDs(t, tr, Rect2D(0, 0, 2, 2)))
			require.Equal(t, []int64{2}, searchIDs(t, tr, Rect2D(5, 5, 5, 5)))
			require.Empty(t, searchIDs(t, tr, Rect2D(2, 2, 4, 4)))
			require.Equal(t, 0, tr.Height())
			require.Equal(t, int64(3), tr.Len())
			if file {
				require.Equal(t, int64(128), tr.RootPos())
			} else {
				require.Equal(t, int64(-1), tr.RootPos())
			}

			// The search rect does not need to contain the item.
			found, err := tr.Delete(Rect2D(0.9, 0.9, 0.9, 0.9), 1)
			require.NoError(t, err)
			require.True(t, found)
			found, err = tr.Delete(Rect2D(0, 0, 1, 1), 1)
			require.NoError(t, err)
			require.False(t, found)
			require.Equal(t, []int64{3}, searchIDs(t, tr, Rect2D(0, 0, 2, 2)))
			require.NoError(t, tr.Check())
		})
	}
}

func TestSearchAbort(t *testing.T) {
	defer leaktest.AfterTest(t)()

	tr, err := NewMemory(2, Options{})
	require.NoError(t, err)
	defer tr.Close()
	for i := 1; i <= 50; i++ {
		x := float64(i)
		require.NoError(t, tr.Insert(Rect2D(x, x, x+1, x+1), int64(i)))
	}
	all := Rect2D(0, 0, 100, 100)

	n, err := tr.Search(all, nil)
	require.NoError(t, err)
	require.Equal(t, 50, n)

	calls := 0
	n, err = tr.Search(all, func(int64, Rect) bool {
		calls++
		return false
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	require.Equal(t, 1, n, "the aborting hit is counted")
}

func TestCapacityBoundary(t *testing.T) {
	defer leaktest.AfterTest(t)()

	tr, err := NewMemory(2, Options{})
	require.NoError(t, err)
	defer tr.Close()
	m := tr.Metrics()
	for i := 1; i <= MaxCard; i++ {
		x := float64(2 * i)
		require.NoError(t, tr.Insert(Rect2D(x, 0, x+1, 1), int64(i)))
	}
	require.Equal(t, 0, tr.Height())
	require.Zero(t, m.Splits.Count())

	// The root is never relieved by forced reinsertion, so the next insert
	// splits it.
	require.NoError(t, tr.Insert(Rect2D(100, 0, 101, 1), MaxCard+1))
	require.Equal(t, 1, tr.Height())
	require.Equal(t, int64(1), m.Splits.Count())
	require.Zero(t, m.ForcedReinsertions.Count())
	require.Equal(t, int64(1), m.RootGrowths.Count())
	require.Equal(t, int64(1), m.Height.Value())

	st, err := tr.Stats()
	require.NoError(t, err)
	require.Equal(t, []int{2, 1}, st.Nodes)
	require.Equal(t, []int{MaxCard + 1, 2}, st.Branches)
	require.NoError(t, tr.Check())
}

func TestInvalidArguments(t *testing.T) {
	defer leaktest.AfterTest(t)()

	_, err := NewMemory(1, Options{})
	require.Error(t, err)
	_, err = NewMemory(MaxDims+1, Options{})
	require.Error(t, err)
	_, err = NewFile(nil, 0, 2, Options{})
	require.Error(t, err)

	tr, err := NewMemory(2, Options{})
	require.NoError(t, err)
	require.Panics(t, func() { _ = tr.Insert(Rect2D(0, 0, 1, 1), 0) })
	require.Panics(t, func() { _ = tr.Insert(Rect2D(0, 0, 1, 1), -5) })
	require.Panics(t, func() { _ = tr.Insert(NullRect(2), 1) })
	require.Panics(t, func() { _ = tr.Insert(Rect2D(0, 1, 1, 0), 1) })
	require.Panics(t, func() { _ = tr.Insert(Rect2D(math.NaN(), 0, 3, 1), 1) })
	require.Panics(t, func() { _ = tr.Insert(Rect2D(0, 0, 1, math.NaN()), 1) })
	require.Zero(t, tr.Len())
	require.NoError(t, tr.Check())
	require.Panics(t, func() { _ = tr.Insert(Rect3D(0, 0, 0, 1, 1, 1), 1) })
	require.Panics(t, func() { _, _ = tr.Search(Rect1D(0, 1), nil) })

	found, err := tr.Delete(Rect2D(0, 0, 1, 1), 0)
	require.NoError(t, err)
	require.False(t, found)

	tr.Close()
	tr.Close()
	require.ErrorIs(t, tr.Insert(Rect2D(0, 0, 1, 1), 1), ErrClosed)
	_, err = tr.Delete(Rect2D(0, 0, 1, 1), 1)
	require.ErrorIs(t, err, ErrClosed)
	_, err = tr.Search(Rect2D(0, 0, 1, 1), nil)
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, tr.Flush(), ErrClosed)
	_, err = tr.Stats()
	require.ErrorIs(t, err, ErrClosed)
}

func TestDuplicateItems(t *testing.T) {
	defer leaktest.AfterTest(t)()

	tr, err := NewMemory(2, Options{})
	require.NoError(t, err)
	defer tr.Close()
	r := Rect2D(1, 1, 2, 2)
	for i := 0; i < 3; i++ {
		require.NoError(t, tr.Insert(r, 7))
	}
	require.Equal(t, []int64{7, 7, 7}, searchIDs(t, tr, r))
	for i := 0; i < 3; i++ {
		found, err := tr.Delete(r, 7)
		require.NoError(t, err)
		require.True(t, found)
	}
	found, err := tr.Delete(r, 7)
	require.NoError(t, err)
	require.False(t, found)
	require.Zero(t, tr.Len())
}

func TestSetOverflow(t *testing.T) {
	defer leaktest.AfterTest(t)()

	tr, err := NewMemory(2, Options{NodeCard: 3, LeafCard: 3, MinNodeFill: 1, MinLeafFill: 1,
		MinNodeSplitFill: 2, MinLeafSplitFill: 2, DisableOverflow: true})
	require.NoError(t, err)
	defer tr.Close()
	// With a capacity of 3, a forced reinsertion would keep a single branch.
	require.NoError(t, tr.SetOverflow(true))
	require.True(t, tr.Header().Overflow)
	require.NoError(t, tr.SetOverflow(false))
	require.False(t, tr.Header().Overflow)

	tr2, err := NewMemory(2, Options{NodeCard: 3, LeafCard: 3, MinNodeFill: 2, MinLeafFill: 2,
		MinNodeSplitFill: 2, MinLeafSplitFill: 2, DisableOverflow: true})
	require.NoError(t, err)
	defer tr2.Close()
	require.Error(t, tr2.SetOverflow(true))
	require.False(t, tr2.Header().Overflow)
}

type treeConfig struct {
	name       string
	file       bool
	method     SplitMethod
	noOverflow bool
	card       int
	dims       int
}

func treeConfigs() []treeConfig {
	var configs []treeConfig
	for _, file := range []bool{false, true} {
		for _, method := range []SplitMethod{RStarSplit, QuadraticSplit} {
			for _, noOverflow := range []bool{false, true} {
				c := treeConfig{file: file, method: method, noOverflow: noOverflow, dims: 2}
				c.name = fmt.Sprintf("file=%t/split=%s/overflow=%t", file, method, !noOverflow)
				configs = append(configs, c)
			}
		}
	}
	configs = append(configs,
		treeConfig{name: "card=4/dims=3", method: RStarSplit, card: 4, dims: 3},
		treeConfig{name: "file/card=5/dims=4", file: true, method: QuadraticSplit, card: 5, dims: 4},
	)
	return configs
}

func (c treeConfig) open(t *testing.T) *Tree {
	opts := Options{SplitMethod: c.method, DisableOverflow: c.noOverflow,
		NodeCard: c.card, LeafCard: c.card}
	var tr *Tree
	var err error
	if c.file {
		tr, err = NewFile(createTempFile(t), HeaderSize, c.dims, opts)
	} else {
		tr, err = NewMemory(c.dims, opts)
	}
	require.NoError(t, err)
	return tr
}

func randomRect(rng *rand.Rand, dims int) Rect {
	r := make(Rect, 2*dims)
	for i := 0; i < dims; i++ {
		lo := rng.Float64() * 1000
		r[i] = lo
		r[i+dims] = lo + rng.Float64()*20
	}
	return r
}

func bruteForce(items map[int64]Rect, q Rect) []int64 {
	var ids []int64
	for id, r := range items {
		if q.Overlaps(r) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// TestRandomized interleaves inserts and deletes, checking the structure
// of the tree and comparing searches against a linear scan.
func TestRandomized(t *testing.T) {
	defer leaktest.AfterTest(t)()

	for _, c := range treeConfigs() {
		t.Run(c.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			tr := c.open(t)
			defer tr.Close()

			items := make(map[int64]Rect)
			nextID := int64(1)
			maxHeight := 0
			for step := 0; step < 2000; step++ {
				if len(items) > 0 && rng.Intn(3) == 0 {
					// Delete an arbitrary live item.
					var id int64
					for id = range items {
						break
					}
					found, err := tr.Delete(items[id].Clone(), id)
					require.NoError(t, err)
					require.True(t, found, "item %d", id)
					delete(items, id)
				} else {
					r := randomRect(rng, c.dims)
					require.NoError(t, tr.Insert(r, nextID))
					items[nextID] = r
					nextID++
				}
				if tr.Height() > maxHeight {
					maxHeight = tr.Height()
				}
				if step%100 == 0 {
					require.NoError(t, tr.Check(), "step %d", step)
				}
			}
			require.NoError(t, tr.Check())
			require.Equal(t, int64(len(items)), tr.Len())
			require.Greater(t, maxHeight, 1)

			for i := 0; i < 200; i++ {
				q := randomRect(rng, c.dims)
				for j := 0; j < c.dims; j++ {
					q[j+c.dims] += 100
				}
				require.Equal(t, bruteForce(items, q), searchIDs(t, tr, q))
			}

			m := tr.Metrics()
			require.Equal(t, int64(len(items)), m.Items.Value())
			require.Equal(t, int64(tr.Height()), m.Height.Value())
			require.Equal(t, m.RootGrowths.Count()-m.RootShrinks.Count(), int64(tr.Height()))
			if c.noOverflow {
				require.Zero(t, m.ForcedReinsertions.Count())
			} else {
				require.NotZero(t, m.ForcedReinsertions.Count())
			}

			// Drain the tree.
			for id, r := range items {
				found, err := tr.Delete(r, id)
				require.NoError(t, err)
				require.True(t, found)
			}
			require.NoError(t, tr.Check())
			require.Zero(t, tr.Len())
			require.Equal(t, 0, tr.Height())
			everything := make(Rect, 2*c.dims)
			for j := 0; j < c.dims; j++ {
				everything[j], everything[j+c.dims] = -1e9, 1e9
			}
			require.Empty(t, searchIDs(t, tr, everything))
		})
	}
}

func TestSmallCapacityHeight(t *testing.T) {
	defer leaktest.AfterTest(t)()

	tr, err := NewMemory(3, Options{NodeCard: 4, LeafCard: 3, DisableOverflow: true})
	require.NoError(t, err)
	defer tr.Close()
	rng := rand.New(rand.NewSource(1))
	const n = 3000
	for i := 1; i <= n; i++ {
		require.NoError(t, tr.Insert(randomRect(rng, 3), int64(i)))
	}
	require.NoError(t, tr.Check())
	// Every internal node below the root keeps at least two branches.
	require.LessOrEqual(t, tr.Height(), 12)
	everything := Rect3D(-1e9, -1e9, -1e9, 1e9, 1e9, 1e9)
	require.Len(t, searchIDs(t, tr, everything), n)
}

// buildChain adds a subtree whose root is at level and whose nodes each
// hold one branch, ending in a leaf with the single item id.
func buildChain(t *testing.T, tr *Tree, level int, id int64) branch {
	x := float64(10 * id)
	b := branch{rect: Rect2D(x, 10, x+1, 11), child: dataRef(id)}
	for l := 0; l <= level; l++ {
		n := tr.newNode(l)
		n.add(&b, tr.capacity(l))
		ref, err := tr.store.alloc(n)
		require.NoError(t, err)
		b = branch{rect: n.cover(tr.ndims), child: nodeChildRef(ref)}
	}
	return b
}

func TestHeightLimit(t *testing.T) {
	defer leaktest.AfterTest(t)()

	tr, err := NewMemory(2, Options{NodeCard: 3, LeafCard: 2, DisableOverflow: true})
	require.NoError(t, err)
	defer tr.Close()

	// Build a tree of height MaxLevel in which every node on the path to the
	// rect (0,0)-(1,1) is full.
	id := int64(1)
	leaf := tr.newNode(0)
	for ; id <= 2; id++ {
		b := branch{rect: Rect2D(0, 0, 1, 1), child: dataRef(id)}
		leaf.add(&b, tr.capacity(0))
	}
	ref, err := tr.store.alloc(leaf)
	require.NoError(t, err)
	spine := branch{rect: leaf.cover(2), child: nodeChildRef(ref)}
	for l := 1; l <= MaxLevel; l++ {
		n := tr.newNode(l)
		n.add(&spine, tr.capacity(l))
		for j := 0; j < 2; j++ {
			b := buildChain(t, tr, l-1, id)
			n.add(&b, tr.capacity(l))
			id++
		}
		ref, err := tr.store.alloc(n)
		require.NoError(t, err)
		spine = branch{rect: n.cover(2), child: nodeChildRef(ref)}
	}
	tr.root, tr.rootLevel, tr.items = spine.child.ref, MaxLevel, id-1
	require.NoError(t, tr.Check())

	everything := Rect2D(-1e9, -1e9, 1e9, 1e9)
	items := searchIDs(t, tr, everything)
	require.Len(t, items, int(tr.Len()))

	// Adding to the full path would split the root.
	err = tr.Insert(Rect2D(0.25, 0.25, 0.5, 0.5), id)
	require.ErrorContains(t, err, "height limit")
	require.NoError(t, tr.Check())
	require.Equal(t, MaxLevel, tr.Height())
	require.Equal(t, items, searchIDs(t, tr, everything))

	// The last chain under the root has room.
	last := float64(10 * (id - 1))
	require.NoError(t, tr.Insert(Rect2D(last, 10, last+1, 11), id))
	require.NoError(t, tr.Check())
	require.Len(t, searchIDs(t, tr, everything), len(items)+1)
}

func TestNullQuery(t *testing.T) {
	defer leaktest.AfterTest(t)()

	tr, err := NewMemory(2, Options{})
	require.NoError(t, err)
	defer tr.Close()
	require.NoError(t, tr.Insert(Rect2D(-5, -5, 5, 5), 1))
	require.Empty(t, searchIDs(t, tr, NullRect(2)))
	found, err := tr.Delete(NullRect(2), 1)
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, int64(1), tr.Len())
}

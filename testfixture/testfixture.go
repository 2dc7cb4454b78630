package testfixture

import (
	"bufio"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/gaissmai/vgraph/vgraph"
)

// NodeRow is one row of the node table: a node's id, sequence, and both
// neighbor lists, each sorted ascending by the neighbor's u64 handle
// encoding.
type NodeRow struct {
	ID         uint64
	Seq        string
	LeftEdges  []uint64
	RightEdges []uint64
}

// PathRow is one row of the path table: a path's name and its steps'
// handles, head to tail.
type PathRow struct {
	Name    string
	Handles []uint64
}

// OccurrenceRow is one row of the occurrence table.
type OccurrenceRow struct {
	NodeID   uint64
	PathName string
	Step     uint64
}

// Fixture is the full dump: the three sorted tables of the serialized
// format. It keeps no separate count fields.
type Fixture struct {
	Nodes       []NodeRow
	Paths       []PathRow
	Occurrences []OccurrenceRow
}

// Dump builds a Fixture from the current, live content of g.
func Dump(g *vgraph.Graph) Fixture {
	var f Fixture

	for h := range g.Handles() {
		seq := make([]byte, 0, g.NodeLen(h))
		for b := range g.NodeSequence(h, false) {
			seq = append(seq, b)
		}

		left := handleValues(g.Neighbors(h, vgraph.Left))
		right := handleValues(g.Neighbors(h, vgraph.Right))
		sort.Slice(left, func(i, j int) bool { return left[i] < left[j] })
		sort.Slice(right, func(i, j int) bool { return right[i] < right[j] })

		f.Nodes = append(f.Nodes, NodeRow{
			ID:         uint64(h.ID()),
			Seq:        string(seq),
			LeftEdges:  left,
			RightEdges: right,
		})
	}
	sort.Slice(f.Nodes, func(i, j int) bool { return f.Nodes[i].ID < f.Nodes[j].ID })

	for p := range g.PathIDs() {
		var handles []uint64
		for h := range g.PathHandles(p) {
			handles = append(handles, uint64(h))
		}
		f.Paths = append(f.Paths, PathRow{Name: g.PathName(p), Handles: handles})
	}
	sort.Slice(f.Paths, func(i, j int) bool { return f.Paths[i].Name < f.Paths[j].Name })

	for h := range g.Handles() {
		for p, s := range g.NodeOccurrences(h) {
			f.Occurrences = append(f.Occurrences, OccurrenceRow{
				NodeID:   uint64(h.ID()),
				PathName: g.PathName(p),
				Step:     uint64(s),
			})
		}
	}
	sort.Slice(f.Occurrences, func(i, j int) bool {
		a, b := f.Occurrences[i], f.Occurrences[j]
		if a.NodeID != b.NodeID {
			return a.NodeID < b.NodeID
		}
		if a.PathName != b.PathName {
			return a.PathName < b.PathName
		}
		return a.Step < b.Step
	})

	return f
}

func handleValues(seq func(func(vgraph.Handle) bool)) []uint64 {
	var out []uint64
	for h := range seq {
		out = append(out, uint64(h))
	}
	return out
}

// String renders f in the exact, bit-for-bit serialized format.
func (f Fixture) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d\t%d\t%d\n", len(f.Nodes), len(f.Paths), len(f.Occurrences))

	for _, n := range f.Nodes {
		fmt.Fprintf(&b, "%d\t%s\t%s\t%s\n", n.ID, n.Seq, joinUint64(n.LeftEdges), joinUint64(n.RightEdges))
	}
	for _, p := range f.Paths {
		fmt.Fprintf(&b, "%s\t%s\n", p.Name, joinUint64(p.Handles))
	}
	for _, o := range f.Occurrences {
		fmt.Fprintf(&b, "%d\t%s\t%d\n", o.NodeID, o.PathName, o.Step)
	}
	return b.String()
}

func joinUint64(vs []uint64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatUint(v, 10)
	}
	return strings.Join(parts, ",")
}

// Parse reads back a fixture dump in the exact format String produces, for
// round-trip comparison against a baseline file.
func Parse(s string) (Fixture, error) {
	sc := bufio.NewScanner(strings.NewReader(s))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !sc.Scan() {
		return Fixture{}, fmt.Errorf("testfixture: empty input")
	}
	header := strings.Split(sc.Text(), "\t")
	if len(header) != 3 {
		return Fixture{}, fmt.Errorf("testfixture: malformed header %q", sc.Text())
	}
	nodeCount, err := strconv.Atoi(header[0])
	if err != nil {
		return Fixture{}, fmt.Errorf("testfixture: bad node count: %w", err)
	}
	pathCount, err := strconv.Atoi(header[1])
	if err != nil {
		return Fixture{}, fmt.Errorf("testfixture: bad path count: %w", err)
	}
	occCount, err := strconv.Atoi(header[2])
	if err != nil {
		return Fixture{}, fmt.Errorf("testfixture: bad occurrence count: %w", err)
	}

	var f Fixture
	for i := 0; i < nodeCount; i++ {
		if !sc.Scan() {
			return Fixture{}, fmt.Errorf("testfixture: truncated node table")
		}
		fields := strings.Split(sc.Text(), "\t")
		if len(fields) != 4 {
			return Fixture{}, fmt.Errorf("testfixture: malformed node row %q", sc.Text())
		}
		id, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return Fixture{}, fmt.Errorf("testfixture: bad node id: %w", err)
		}
		f.Nodes = append(f.Nodes, NodeRow{
			ID:         id,
			Seq:        fields[1],
			LeftEdges:  splitUint64(fields[2]),
			RightEdges: splitUint64(fields[3]),
		})
	}

	for i := 0; i < pathCount; i++ {
		if !sc.Scan() {
			return Fixture{}, fmt.Errorf("testfixture: truncated path table")
		}
		fields := strings.Split(sc.Text(), "\t")
		if len(fields) != 2 {
			return Fixture{}, fmt.Errorf("testfixture: malformed path row %q", sc.Text())
		}
		f.Paths = append(f.Paths, PathRow{Name: fields[0], Handles: splitUint64(fields[1])})
	}

	for i := 0; i < occCount; i++ {
		if !sc.Scan() {
			return Fixture{}, fmt.Errorf("testfixture: truncated occurrence table")
		}
		fields := strings.Split(sc.Text(), "\t")
		if len(fields) != 3 {
			return Fixture{}, fmt.Errorf("testfixture: malformed occurrence row %q", sc.Text())
		}
		nodeID, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return Fixture{}, fmt.Errorf("testfixture: bad occurrence node id: %w", err)
		}
		step, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return Fixture{}, fmt.Errorf("testfixture: bad occurrence step: %w", err)
		}
		f.Occurrences = append(f.Occurrences, OccurrenceRow{NodeID: nodeID, PathName: fields[1], Step: step})
	}

	return f, nil
}

func splitUint64(s string) []uint64 {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]uint64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil
		}
		out[i] = v
	}
	return out
}

// DebugString pretty-prints f recursively for diagnostic output when a
// comparison against a baseline fixture fails, unlike String which
// produces the compact wire format.
func (f Fixture) DebugString() string {
	return spew.Sdump(f)
}

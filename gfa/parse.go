package gfa

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/gaissmai/vgraph/vgraph"
)

// segment, link and path are the three record kinds parsed out of a GFA1
// line stream, each still in the file's own id space (before the
// zero-offset correction Load applies).
type segment struct {
	id  uint64
	seq []byte
}

type link struct {
	fromID, toID           uint64
	fromReverse, toReverse bool
}

type pathRecord struct {
	name  string
	steps []struct {
		id      uint64
		reverse bool
	}
}

// Load parses a GFA1 line stream into a freshly constructed Graph. Segments
// are applied first, links second, paths last, per the engine's ingestion
// contract; a path's steps are appended one PathAppendStep call at a time,
// each recording its occurrence as it goes.
//
// If the minimum segment id in the input is 0, every id (segment, link
// endpoint, path step) is offset by 1 before being applied, since node id 0
// is reserved as null throughout the engine. Malformed lines are logged at
// Warn and skipped; Load never aborts a file over one bad record.
func Load(r io.Reader, opts ...vgraph.Option) (*vgraph.Graph, error) {
	g := vgraph.New(opts...)
	logger := g.Logger()

	var segments []segment
	var links []link
	var paths []pathRecord

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		switch fields[0] {
		case "S":
			seg, ok := parseSegment(fields)
			if !ok {
				logger.Warn("gfa: skipping malformed segment line", zap.Int("line", lineNo))
				continue
			}
			segments = append(segments, seg)
		case "L":
			lk, ok := parseLink(fields)
			if !ok {
				logger.Warn("gfa: skipping malformed link line", zap.Int("line", lineNo))
				continue
			}
			links = append(links, lk)
		case "P":
			p, ok := parsePath(fields)
			if !ok {
				logger.Warn("gfa: skipping malformed path line", zap.Int("line", lineNo))
				continue
			}
			paths = append(paths, p)
		case "H", "#":
			// header / comment: no graph content.
		default:
			logger.Warn("gfa: skipping unrecognized record kind", zap.Int("line", lineNo), zap.String("kind", fields[0]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("gfa: reading input: %w", err)
	}

	offset := uint64(0)
	if len(segments) > 0 {
		minID := segments[0].id
		for _, s := range segments[1:] {
			if s.id < minID {
				minID = s.id
			}
		}
		if minID == 0 {
			offset = 1
		}
	}

	seqs := make([][]byte, len(segments))
	ids := make([]vgraph.NodeID, len(segments))
	for i, s := range segments {
		seqs[i] = s.seq
		ids[i] = vgraph.NodeID(s.id + offset)
	}
	for i, id := range ids {
		g.CreateHandle(seqs[i], id)
	}

	for _, l := range links {
		from := vgraph.PackHandle(vgraph.NodeID(l.fromID+offset), l.fromReverse)
		to := vgraph.PackHandle(vgraph.NodeID(l.toID+offset), l.toReverse)
		g.CreateEdge(vgraph.Edge{From: from, To: to})
	}

	for _, p := range paths {
		pathID, ok := g.CreatePath(p.name, false)
		if !ok {
			logger.Warn("gfa: duplicate path name, skipping", zap.String("name", p.name))
			continue
		}
		for _, step := range p.steps {
			h := vgraph.PackHandle(vgraph.NodeID(step.id+offset), step.reverse)
			g.PathAppendStep(pathID, h)
		}
	}

	logger.Debug("gfa: loaded graph",
		zap.Int("segments", len(segments)), zap.Int("links", len(links)), zap.Int("paths", len(paths)))
	return g, nil
}

func parseSegment(fields []string) (segment, bool) {
	if len(fields) < 3 {
		return segment{}, false
	}
	id, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return segment{}, false
	}
	return segment{id: id, seq: []byte(fields[2])}, true
}

func parseLink(fields []string) (link, bool) {
	if len(fields) < 5 {
		return link{}, false
	}
	fromID, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return link{}, false
	}
	fromRev, ok := parseStrand(fields[2])
	if !ok {
		return link{}, false
	}
	toID, err := strconv.ParseUint(fields[3], 10, 64)
	if err != nil {
		return link{}, false
	}
	toRev, ok := parseStrand(fields[4])
	if !ok {
		return link{}, false
	}
	return link{fromID: fromID, fromReverse: fromRev, toID: toID, toReverse: toRev}, true
}

func parsePath(fields []string) (pathRecord, bool) {
	if len(fields) < 3 {
		return pathRecord{}, false
	}
	p := pathRecord{name: fields[1]}
	for _, tok := range strings.Split(fields[2], ",") {
		if tok == "" {
			continue
		}
		if len(tok) < 2 {
			return pathRecord{}, false
		}
		strand := tok[len(tok)-1:]
		idStr := tok[:len(tok)-1]
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			return pathRecord{}, false
		}
		reverse, ok := parseStrand(strand)
		if !ok {
			return pathRecord{}, false
		}
		p.steps = append(p.steps, struct {
			id      uint64
			reverse bool
		}{id, reverse})
	}
	return p, true
}

func parseStrand(s string) (reverse bool, ok bool) {
	switch s {
	case "+":
		return false, true
	case "-":
		return true, true
	default:
		return false, false
	}
}

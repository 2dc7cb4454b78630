// Package nodestore implements the node id <-> record id bijection and the
// per-node graph record (the two edge-list heads and the occurrence-list
// head every node carries), plus the sequence store each node's graph
// record addresses by shared numbering.
package nodestore

import (
	"math"

	"github.com/gaissmai/vgraph/internal/ix"
	"github.com/gaissmai/vgraph/internal/packed"
	"github.com/gaissmai/vgraph/internal/seqstore"
)

const narrowPageWidth = 64

// Store owns every node-indexed record: the public node id -> internal
// record id map, the edge-list heads, the occurrence-list heads, and the
// sequence bytes.
type Store struct {
	idIndex      *packed.Deque // contiguous [minID, maxID] range, 0 = absent
	minID, maxID uint64
	haveAny      bool

	records  *packed.PagedVector // width-2 records: leftHead, rightHead
	occHeads *packed.PagedVector // width-1 records: occurrence-list head

	seqs *seqstore.Sequences

	removed []ix.NodeRecordID
}

// New constructs an empty node store using the default sequence page width.
func New() *Store {
	return NewWithSeqPageWidth(0)
}

// NewWithSeqPageWidth constructs an empty node store whose sequence store
// uses the given flexible page width; a non-positive width selects the
// default.
func NewWithSeqPageWidth(seqPageWidth int) *Store {
	seqs := seqstore.New()
	if seqPageWidth > 0 {
		seqs = seqstore.NewWithPageWidth(seqPageWidth)
	}
	return &Store{
		idIndex:  packed.NewDeque(),
		minID:    math.MaxUint64,
		records:  packed.NewPaged(narrowPageWidth, packed.EncodingIdentity),
		occHeads: packed.NewPaged(narrowPageWidth, packed.EncodingIdentity),
		seqs:     seqs,
	}
}

// NodeCount returns the number of live nodes.
func (s *Store) NodeCount() int {
	return s.records.Len()/2 - len(s.removed)
}

// MinID and MaxID return the inclusive bounds of ids ever inserted. Both are
// meaningless on an empty store.
func (s *Store) MinID() uint64 { return s.minID }
func (s *Store) MaxID() uint64 { return s.maxID }

// HasNode reports whether id currently names a live node.
func (s *Store) HasNode(id uint64) bool {
	_, ok := s.GetRecordID(id)
	return ok
}

// GetRecordID resolves a public node id to its internal record id.
func (s *Store) GetRecordID(id uint64) (ix.NodeRecordID, bool) {
	if !s.haveAny || id < s.minID || id > s.maxID {
		return ix.Null[ix.NodeRecordTag](), false
	}
	raw := s.idIndex.Get(int(id - s.minID))
	rec := ix.FromU64[ix.NodeRecordTag](raw)
	if rec.IsNull() {
		return rec, false
	}
	return rec, true
}

func (s *Store) extendIndexFor(id uint64) {
	if !s.haveAny {
		s.idIndex.PushBack(0)
		s.minID, s.maxID, s.haveAny = id, id, true
		return
	}
	if id < s.minID {
		for i := uint64(0); i < s.minID-id; i++ {
			s.idIndex.PushFront(0)
		}
		s.minID = id
	}
	if id > s.maxID {
		for i := uint64(0); i < id-s.maxID; i++ {
			s.idIndex.PushBack(0)
		}
		s.maxID = id
	}
}

// AppendNode allocates a new graph record for id with the given initial
// sequence. It reports false if id is 0 or already in use.
func (s *Store) AppendNode(id uint64, seq []byte) (ix.NodeRecordID, bool) {
	if id == 0 {
		return ix.Null[ix.NodeRecordTag](), false
	}
	if s.HasNode(id) {
		return ix.Null[ix.NodeRecordTag](), false
	}

	recID := ix.FromRecordStart[ix.NodeRecordTag](s.records.Len(), 2)
	s.records.Append(0)
	s.records.Append(0)
	s.occHeads.Append(0)

	seqID := s.seqs.AppendEmptyRecord()
	s.seqs.AddSequence(seqID, seq)

	s.extendIndexFor(id)
	s.idIndex.Set(int(id-s.minID), recID.Pack())

	return recID, true
}

// AppendNodeForExistingSeq allocates a new graph record for id whose
// sequence record was already created directly in the sequence store (by
// Sequences.SplitSequence, during a node divide). It reports false if id is
// 0 or already in use. The caller must call this exactly once, in order,
// for every sequence record SplitSequence just appended, with no other
// mutation of either store in between, so the two id spaces stay in
// lockstep.
func (s *Store) AppendNodeForExistingSeq(id uint64) (ix.NodeRecordID, bool) {
	if id == 0 {
		return ix.Null[ix.NodeRecordTag](), false
	}
	if s.HasNode(id) {
		return ix.Null[ix.NodeRecordTag](), false
	}

	recID := ix.FromRecordStart[ix.NodeRecordTag](s.records.Len(), 2)
	s.records.Append(0)
	s.records.Append(0)
	s.occHeads.Append(0)

	s.extendIndexFor(id)
	s.idIndex.Set(int(id-s.minID), recID.Pack())

	return recID, true
}

func (s *Store) recordOffset(recID ix.NodeRecordID) int {
	off, ok := recID.ToRecordStart(2)
	if !ok {
		panic("nodestore: null NodeRecordID")
	}
	return off
}

// LeftEdgeHead and RightEdgeHead read a node record's two edge-list heads.
func (s *Store) LeftEdgeHead(recID ix.NodeRecordID) ix.EdgeListPtr {
	return packed.GetUnpack[ix.EdgeListTag](s.records, s.recordOffset(recID))
}

func (s *Store) RightEdgeHead(recID ix.NodeRecordID) ix.EdgeListPtr {
	return packed.GetUnpack[ix.EdgeListTag](s.records, s.recordOffset(recID)+1)
}

func (s *Store) SetLeftEdgeHead(recID ix.NodeRecordID, ptr ix.EdgeListPtr) {
	packed.SetPack(s.records, s.recordOffset(recID), ptr)
}

func (s *Store) SetRightEdgeHead(recID ix.NodeRecordID, ptr ix.EdgeListPtr) {
	packed.SetPack(s.records, s.recordOffset(recID)+1, ptr)
}

// OccHead and SetOccHead read and write a node's occurrence-list head.
func (s *Store) OccHead(recID ix.NodeRecordID) ix.OccListPtr {
	i, _ := recID.ToZeroBased()
	return packed.GetUnpack[ix.OccListTag](s.occHeads, i)
}

func (s *Store) SetOccHead(recID ix.NodeRecordID, ptr ix.OccListPtr) {
	i, _ := recID.ToZeroBased()
	packed.SetPack(s.occHeads, i, ptr)
}

// Sequences returns the sequence store backing every node's bases.
func (s *Store) Sequences() *seqstore.Sequences { return s.seqs }

// SeqRecordID returns the sequence record sharing numbering with recID.
func SeqRecordID(recID ix.NodeRecordID) ix.SeqRecordID {
	i, _ := recID.ToZeroBased()
	return ix.FromZeroBased[ix.SeqRecordTag](i)
}

// RemoveNode marks id's record deleted. The record's slot is reused only
// after Defragment. It reports false if id wasn't a live node.
func (s *Store) RemoveNode(id uint64) bool {
	recID, ok := s.GetRecordID(id)
	if !ok {
		return false
	}
	s.idIndex.Set(int(id-s.minID), 0)
	s.seqs.ClearRecord(SeqRecordID(recID))
	s.removed = append(s.removed, recID)
	return true
}

// RenumberIDs rewrites the public node id -> record id map through remap,
// which must be a bijection covering every currently live id. Record ids
// (and therefore sequences, edge-list heads, and occurrence heads, all
// addressed by record id) are untouched; only which public id each record
// answers to changes.
func (s *Store) RenumberIDs(remap map[uint64]uint64) {
	type entry struct {
		id  uint64
		rec ix.NodeRecordID
	}
	entries := make([]entry, 0, len(remap))
	s.NodeIDs(func(id uint64) bool {
		recID, _ := s.GetRecordID(id)
		newID, ok := remap[id]
		if !ok {
			panic("nodestore: RenumberIDs: remap missing a live id")
		}
		entries = append(entries, entry{newID, recID})
		return true
	})

	newIndex := packed.NewDeque()
	minID, maxID := ^uint64(0), uint64(0)
	for _, e := range entries {
		if e.id < minID {
			minID = e.id
		}
		if e.id > maxID {
			maxID = e.id
		}
	}
	if len(entries) == 0 {
		s.idIndex = newIndex
		s.haveAny = false
		return
	}
	for i := uint64(0); i <= maxID-minID; i++ {
		newIndex.PushBack(0)
	}
	for _, e := range entries {
		newIndex.Set(int(e.id-minID), e.rec.Pack())
	}

	s.idIndex = newIndex
	s.minID, s.maxID = minID, maxID
}

// NodeIDs calls yield for every live node id, in ascending order.
func (s *Store) NodeIDs(yield func(id uint64) bool) {
	if !s.haveAny {
		return
	}
	for i := 0; i < s.idIndex.Len(); i++ {
		if raw := s.idIndex.Get(i); raw != 0 {
			if !yield(s.minID + uint64(i)) {
				return
			}
		}
	}
}

// Defragment compacts the removed slots out of the record, occurrence-head,
// and sequence stores. It's a no-op if nothing has been removed since the
// last call.
func (s *Store) Defragment() {
	if len(s.removed) == 0 {
		return
	}
	removedSet := make(map[ix.NodeRecordID]bool, len(s.removed))
	for _, r := range s.removed {
		removedSet[r] = true
	}

	totalRecords := s.records.Len() / 2
	newRecords := packed.NewPaged(narrowPageWidth, packed.EncodingIdentity)
	newOccHeads := packed.NewPaged(narrowPageWidth, packed.EncodingIdentity)
	newRecords.Reserve((totalRecords - len(s.removed)) * 2)
	newOccHeads.Reserve(totalRecords - len(s.removed))

	updates := make(map[ix.NodeRecordID]ix.NodeRecordID, totalRecords-len(s.removed))
	survivorSeqs := make([]ix.SeqRecordID, 0, totalRecords-len(s.removed))

	for i := 0; i < totalRecords; i++ {
		oldID := ix.FromZeroBased[ix.NodeRecordTag](i)
		if removedSet[oldID] {
			continue
		}
		newID := ix.FromZeroBased[ix.NodeRecordTag](newRecords.Len() / 2)
		updates[oldID] = newID

		left := s.LeftEdgeHead(oldID)
		right := s.RightEdgeHead(oldID)
		occ := s.OccHead(oldID)

		packed.AppendPack(newRecords, left)
		packed.AppendPack(newRecords, right)
		packed.AppendPack(newOccHeads, occ)

		survivorSeqs = append(survivorSeqs, SeqRecordID(oldID))
	}

	s.seqs.Defragment(survivorSeqs)
	s.records = newRecords
	s.occHeads = newOccHeads
	s.removed = nil

	if s.haveAny {
		for i := 0; i < s.idIndex.Len(); i++ {
			raw := s.idIndex.Get(i)
			if raw == 0 {
				continue
			}
			oldID := ix.FromU64[ix.NodeRecordTag](raw)
			newID, ok := updates[oldID]
			if !ok {
				s.idIndex.Set(i, 0)
				continue
			}
			s.idIndex.Set(i, newID.Pack())
		}
	}
}

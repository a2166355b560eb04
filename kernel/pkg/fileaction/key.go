// Package fileaction implements identity for (path, deletion-vector-id)
// file actions and the seen-set dedup memory over that identity, §4.C.
package fileaction

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/malbeclabs/deltascan/kernel/pkg/engine"
)

// DVUniqueID is the canonical, collision-free encoding of a deletion
// vector descriptor's (storageType, pathOrInlineDv, offset?) triple,
// resolving Open Question (a). Two descriptors with the same triple
// always produce the same id; two different triples never collide,
// because each field is written length-delimited and type-tagged before
// hashing (the same approach the teacher's NaturalKey.ToSurrogate uses
// to avoid Sprintf/separator collisions).
type DVUniqueID string

// ComputeDVUniqueID returns the id for dv, or "", false if dv is nil
// or has an empty storage type (no deletion vector on this action).
func ComputeDVUniqueID(dv *engine.DeletionVectorDescriptor) (DVUniqueID, bool) {
	if dv == nil || dv.StorageType == "" {
		return "", false
	}

	var b strings.Builder
	writeLengthDelimited(&b, "storageType", dv.StorageType)
	writeLengthDelimited(&b, "pathOrInlineDv", dv.PathOrInlineDv)
	if dv.Offset != nil {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(int64(*dv.Offset)))
		writeLengthDelimitedBytes(&b, "offset", buf[:])
	} else {
		writeLengthDelimited(&b, "offset", "")
	}

	hash := sha256.Sum256([]byte(b.String()))
	return DVUniqueID(hex.EncodeToString(hash[:])), true
}

func writeLengthDelimited(b *strings.Builder, tag, payload string) {
	writeLengthDelimitedBytes(b, tag, []byte(payload))
}

func writeLengthDelimitedBytes(b *strings.Builder, tag string, payload []byte) {
	b.WriteString(tag)
	b.WriteByte(':')
	b.WriteString(itoa(len(payload)))
	b.WriteByte(':')
	b.Write(payload)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// Key is the identity of a file action: two adds/removes are the "same
// logical file" iff their keys are equal, §3.
type Key struct {
	Path    string
	DVID    DVUniqueID
	HasDVID bool
}

// NewKey builds a Key from a path and an optional deletion-vector id.
// (p, none) is a distinct key from (p, some(id)), §4.C.
func NewKey(path string, dvID DVUniqueID, hasDVID bool) Key {
	return Key{Path: path, DVID: dvID, HasDVID: hasDVID}
}

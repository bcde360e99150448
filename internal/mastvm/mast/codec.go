package mast

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/kernelmast/mast-vm/internal/mastvm/field"
)

// magic identifies the binary forest encoding; version allows the format
// to evolve without silently misreading an older file.
var magic = [4]byte{'M', 'A', 'S', 'T'}

const formatVersion uint32 = 1

// MaxNodes bounds the node count accepted by Decode, guarding against a
// corrupted or hostile length field driving an unbounded allocation.
const MaxNodes = 1 << 20

// Encode serializes f into the binary forest format: a header, then each
// node's kind and kind-specific fields, then the table of declared roots.
func Encode(f *Forest) []byte {
	var buf bytes.Buffer
	buf.Write(magic[:])
	writeU32(&buf, formatVersion)
	writeU32(&buf, uint32(len(f.nodes)))

	for _, n := range f.nodes {
		encodeNode(&buf, &n)
	}

	writeU32(&buf, uint32(len(f.roots)))
	for d, id := range f.roots {
		writeDigest(&buf, d)
		writeU32(&buf, uint32(id))
	}

	writeU32(&buf, uint32(len(f.kernel)))
	for d := range f.kernel {
		writeDigest(&buf, d)
	}

	return buf.Bytes()
}

func encodeNode(buf *bytes.Buffer, n *Node) {
	buf.WriteByte(byte(n.Kind))
	switch n.Kind {
	case KindBasicBlock:
		writeU32(buf, uint32(len(n.Ops)))
		for _, op := range n.Ops {
			buf.WriteByte(byte(op.Kind))
			writeU64(buf, op.Value.Uint64())
			buf.WriteByte(op.Index)
			writeU32(buf, op.ErrCode)
			writeString(buf, op.ErrMsg)
		}
	case KindJoin, KindSplit:
		writeU32(buf, uint32(n.Left))
		writeU32(buf, uint32(n.Right))
	case KindLoop, KindCall, KindSysCall:
		writeU32(buf, uint32(n.Child))
	case KindDyn, KindDynCall:
		writeU64(buf, n.MemAddr.Uint64())
	case KindExternal:
		writeDigest(buf, n.ExternalDigest)
	}
	writeDigest(buf, n.digest)
}

// Decode parses the binary forest format produced by Encode, validating
// the header, bounding the node count, rejecting out-of-range child ids,
// and recomputing every node's digest to verify it against the digest
// stored alongside it.
func Decode(data []byte) (*Forest, error) {
	r := bytes.NewReader(data)

	var gotMagic [4]byte
	if _, err := r.Read(gotMagic[:]); err != nil || gotMagic != magic {
		return nil, &ErrMalformedForest{Reason: "bad magic"}
	}
	version, err := readU32(r)
	if err != nil {
		return nil, &ErrMalformedForest{Reason: "truncated version"}
	}
	if version != formatVersion {
		return nil, &ErrMalformedForest{Reason: fmt.Sprintf("unsupported version %d", version)}
	}
	count, err := readU32(r)
	if err != nil {
		return nil, &ErrMalformedForest{Reason: "truncated node count"}
	}
	if count > MaxNodes {
		return nil, &ErrMalformedForest{Reason: fmt.Sprintf("node count %d exceeds bound", count)}
	}

	nodes := make([]Node, count)
	for i := uint32(0); i < count; i++ {
		n, err := decodeNode(r)
		if err != nil {
			return nil, err
		}
		if err := validateChildren(n, count); err != nil {
			return nil, err
		}
		nodes[i] = *n
	}

	if err := verifyDigests(nodes); err != nil {
		return nil, err
	}

	rootCount, err := readU32(r)
	if err != nil {
		return nil, &ErrMalformedForest{Reason: "truncated root count"}
	}
	roots := make(map[field.Digest]NodeId, rootCount)
	for i := uint32(0); i < rootCount; i++ {
		d, err := readDigest(r)
		if err != nil {
			return nil, &ErrMalformedForest{Reason: "truncated root digest"}
		}
		id, err := readU32(r)
		if err != nil {
			return nil, &ErrMalformedForest{Reason: "truncated root id"}
		}
		if id >= count {
			return nil, &ErrMalformedForest{Reason: fmt.Sprintf("root id %d out of range", id)}
		}
		roots[d] = NodeId(id)
	}

	kernelCount, err := readU32(r)
	if err != nil {
		return nil, &ErrMalformedForest{Reason: "truncated kernel count"}
	}
	kernel := make(map[field.Digest]struct{}, kernelCount)
	for i := uint32(0); i < kernelCount; i++ {
		d, err := readDigest(r)
		if err != nil {
			return nil, &ErrMalformedForest{Reason: "truncated kernel digest"}
		}
		kernel[d] = struct{}{}
	}

	return &Forest{nodes: nodes, roots: roots, kernel: kernel}, nil
}

// verifyDigests recomputes every node's digest from its kind and children
// and checks it against the digest stored in the encoding, rejecting a
// tampered or corrupted forest.
func verifyDigests(nodes []Node) error {
	for i := range nodes {
		n := &nodes[i]
		var want field.Digest
		switch n.Kind {
		case KindBasicBlock:
			rebuilt, err := NewBasicBlock(n.Ops, n.Decorators)
			if err != nil {
				return &ErrMalformedForest{Reason: "empty basic block"}
			}
			want = rebuilt.digest
		case KindJoin:
			want = hashPair(domainJoin, nodes[n.Left].digest, nodes[n.Right].digest)
		case KindSplit:
			want = hashPair(domainSplit, nodes[n.Left].digest, nodes[n.Right].digest)
		case KindLoop:
			want = hashSingle(domainLoop, nodes[n.Child].digest)
		case KindCall:
			want = hashSingle(domainCall, nodes[n.Child].digest)
		case KindSysCall:
			want = hashSingle(domainSysCall, nodes[n.Child].digest)
		case KindDyn:
			want = hashDomainOnly(domainDyn)
		case KindDynCall:
			want = hashDomainOnly(domainDynCall)
		case KindExternal:
			want = n.ExternalDigest
		}
		if want != n.digest {
			return &ErrDigestMismatch{NodeId: NodeId(i)}
		}
	}
	return nil
}

func validateChildren(n *Node, count uint32) error {
	switch n.Kind {
	case KindJoin, KindSplit:
		if uint32(n.Left) >= count || uint32(n.Right) >= count {
			return &ErrMalformedForest{Reason: "child id out of range"}
		}
	case KindLoop, KindCall, KindSysCall:
		if uint32(n.Child) >= count {
			return &ErrMalformedForest{Reason: "child id out of range"}
		}
	}
	return nil
}

func decodeNode(r *bytes.Reader) (*Node, error) {
	kindByte, err := r.ReadByte()
	if err != nil {
		return nil, &ErrMalformedForest{Reason: "truncated node kind"}
	}
	kind := NodeKind(kindByte)
	n := &Node{Kind: kind}

	switch kind {
	case KindBasicBlock:
		opCount, err := readU32(r)
		if err != nil {
			return nil, &ErrMalformedForest{Reason: "truncated op count"}
		}
		ops := make([]Operation, opCount)
		for i := range ops {
			opKind, err := r.ReadByte()
			if err != nil {
				return nil, &ErrMalformedForest{Reason: "truncated operation"}
			}
			value, err := readU64(r)
			if err != nil {
				return nil, &ErrMalformedForest{Reason: "truncated operation value"}
			}
			index, err := r.ReadByte()
			if err != nil {
				return nil, &ErrMalformedForest{Reason: "truncated operation index"}
			}
			errCode, err := readU32(r)
			if err != nil {
				return nil, &ErrMalformedForest{Reason: "truncated operation err code"}
			}
			errMsg, err := readString(r)
			if err != nil {
				return nil, &ErrMalformedForest{Reason: "truncated operation err message"}
			}
			v, err := field.Checked(value)
			if err != nil {
				return nil, &ErrMalformedForest{Reason: "non-canonical field element"}
			}
			ops[i] = Operation{Kind: OpKind(opKind), Value: v, Index: index, ErrCode: errCode, ErrMsg: errMsg}
		}
		n.Ops = ops
	case KindJoin, KindSplit:
		left, err := readU32(r)
		if err != nil {
			return nil, &ErrMalformedForest{Reason: "truncated join/split child"}
		}
		right, err := readU32(r)
		if err != nil {
			return nil, &ErrMalformedForest{Reason: "truncated join/split child"}
		}
		n.Left, n.Right = NodeId(left), NodeId(right)
	case KindLoop, KindCall, KindSysCall:
		child, err := readU32(r)
		if err != nil {
			return nil, &ErrMalformedForest{Reason: "truncated loop/call child"}
		}
		n.Child = NodeId(child)
	case KindDyn, KindDynCall:
		addr, err := readU64(r)
		if err != nil {
			return nil, &ErrMalformedForest{Reason: "truncated dyn memory address"}
		}
		v, err := field.Checked(addr)
		if err != nil {
			return nil, &ErrMalformedForest{Reason: "non-canonical field element"}
		}
		n.MemAddr = v
	case KindExternal:
		d, err := readDigest(r)
		if err != nil {
			return nil, &ErrMalformedForest{Reason: "truncated external digest"}
		}
		n.ExternalDigest = d
	default:
		return nil, &ErrMalformedForest{Reason: fmt.Sprintf("unknown node kind %d", kindByte)}
	}

	stored, err := readDigest(r)
	if err != nil {
		return nil, &ErrMalformedForest{Reason: "truncated node digest"}
	}
	n.digest = stored
	return n, nil
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeString(buf *bytes.Buffer, s string) {
	writeU32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func writeDigest(buf *bytes.Buffer, d field.Digest) {
	for _, e := range d {
		writeU64(buf, e.Uint64())
	}
}

// maxErrMsgLen bounds a decoded Assert error message, guarding against a
// corrupted or hostile length field driving an unbounded allocation.
const maxErrMsgLen = 1 << 16

func readString(r *bytes.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}
	if n > maxErrMsgLen {
		return "", fmt.Errorf("string length %d exceeds bound", n)
	}
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil {
		return "", err
	}
	return string(b), nil
}

func readU32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readU64(r *bytes.Reader) (uint64, error) {
	var b [8]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func readDigest(r *bytes.Reader) (field.Digest, error) {
	var d field.Digest
	for i := range d {
		v, err := readU64(r)
		if err != nil {
			return d, err
		}
		fe, err := field.Checked(v)
		if err != nil {
			return d, err
		}
		d[i] = fe
	}
	return d, nil
}

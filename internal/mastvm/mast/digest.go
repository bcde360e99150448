package mast

import (
	"github.com/kernelmast/mast-vm/internal/mastvm/field"
	"github.com/kernelmast/mast-vm/internal/mastvm/hash"
)

// Domain separators ensure that, say, a Join and a Split with identical
// children never collapse to the same digest.
var (
	domainJoin    = field.New(1)
	domainSplit   = field.New(2)
	domainLoop    = field.New(3)
	domainCall    = field.New(4)
	domainSysCall = field.New(5)
	domainDyn     = field.New(6)
	domainDynCall = field.New(7)
)

func hashPair(domain field.Felt, left, right field.Digest) field.Digest {
	elems := make([]field.Felt, 0, 9)
	elems = append(elems, domain)
	elems = append(elems, left[:]...)
	elems = append(elems, right[:]...)
	return hash.Hash(elems)
}

func hashSingle(domain field.Felt, child field.Digest) field.Digest {
	elems := make([]field.Felt, 0, 5)
	elems = append(elems, domain)
	elems = append(elems, child[:]...)
	return hash.Hash(elems)
}

func hashDomainOnly(domain field.Felt) field.Digest {
	return hash.Hash([]field.Felt{domain})
}

package lorc

import "sort"

// continuousPhysicalRange is the continuous-layout [PhysicalRange]: two
// monolithic byte buffers (keys, values) with per-entry (offset, length)
// tables, plus an overflow side-table of owned strings for values whose
// replacement exceeds the original slot. It does not support random
// insertion.
type continuousPhysicalRange struct {
	keyBuf []byte
	valBuf []byte

	keyOff []int // start offset of entry i's internal key in keyBuf
	keyLen []int // length of entry i's internal key (user key + 8-byte trailer)

	valOff  []int // start offset of entry i's original value slot in valBuf
	origLen []int // size of entry i's original value slot (fixed at construction)
	curLen  []int // current logical length of entry i's value

	// overflow holds owned replacement values that no longer fit their
	// original slot, keyed by entry index. Absence means the value lives
	// in valBuf at [valOff[i], valOff[i]+curLen[i]).
	overflow map[int][]byte
}

func newContinuousPhysicalRange(seq uint64, userKeys, values [][]byte) *continuousPhysicalRange {
	n := len(userKeys)

	p := &continuousPhysicalRange{
		keyOff:  make([]int, n),
		keyLen:  make([]int, n),
		valOff:  make([]int, n),
		origLen: make([]int, n),
		curLen:  make([]int, n),
	}

	keyTotal, valTotal := 0, 0

	for i := range userKeys {
		keyTotal += len(userKeys[i]) + trailerSize
		valTotal += len(values[i])
	}

	p.keyBuf = make([]byte, 0, keyTotal)
	p.valBuf = make([]byte, 0, valTotal)

	for i, uk := range userKeys {
		p.keyOff[i] = len(p.keyBuf)
		p.keyBuf = EncodeInternalKey(p.keyBuf, uk, seq, KeyTypeRangeCacheValue)
		p.keyLen[i] = len(p.keyBuf) - p.keyOff[i]

		p.valOff[i] = len(p.valBuf)
		p.valBuf = append(p.valBuf, values[i]...)
		p.origLen[i] = len(values[i])
		p.curLen[i] = len(values[i])
	}

	return p
}

func (p *continuousPhysicalRange) Length() int { return len(p.keyOff) }

func (p *continuousPhysicalRange) internalKeyAt(i int) []byte {
	return p.keyBuf[p.keyOff[i] : p.keyOff[i]+p.keyLen[i]]
}

func (p *continuousPhysicalRange) UserKeyAt(i int) []byte {
	ik := p.internalKeyAt(i)

	return ik[:len(ik)-trailerSize]
}

func (p *continuousPhysicalRange) InternalKeyAt(i int) []byte { return p.internalKeyAt(i) }

func (p *continuousPhysicalRange) ValueAt(i int) []byte {
	if v, ok := p.overflow[i]; ok {
		return v
	}

	return p.valBuf[p.valOff[i] : p.valOff[i]+p.curLen[i]]
}

func (p *continuousPhysicalRange) StartUserKey() []byte {
	if p.Length() == 0 {
		return nil
	}

	return p.UserKeyAt(0)
}

func (p *continuousPhysicalRange) EndUserKey() []byte {
	if p.Length() == 0 {
		return nil
	}

	return p.UserKeyAt(p.Length() - 1)
}

func (p *continuousPhysicalRange) ByteSize() int64 {
	var total int64
	for i := range p.keyOff {
		total += int64(p.keyLen[i]) + int64(p.curLen[i])
	}

	return total
}

func (p *continuousPhysicalRange) Find(userKey []byte) (int, bool) {
	idx := sort.Search(p.Length(), func(i int) bool {
		return compareBytes(p.UserKeyAt(i), userKey) >= 0
	})

	if idx == p.Length() {
		return 0, false
	}

	return idx, true
}

// Reserve is a no-op: the continuous layout is sized once at construction
// and never grows.
func (p *continuousPhysicalRange) Reserve(int) {}

func (p *continuousPhysicalRange) Update(internalKey, value []byte) (UpdateResult, error) {
	userKey, seq, typ, err := DecodeInternalKey(internalKey)
	if err != nil {
		return 0, err
	}

	if p.Length() == 0 || !userKeyInSpan(userKey, p.StartUserKey(), p.EndUserKey()) {
		return UpdateResultOutOfRange, nil
	}

	idx, found := p.Find(userKey)
	if !found || compareBytes(p.UserKeyAt(idx), userKey) != 0 {
		return UpdateResultUnableToInsert, nil
	}

	// Re-encode the trailer in place; it is always exactly 8 bytes so this
	// never changes the key's span.
	trailerStart := p.keyOff[idx] + p.keyLen[idx] - trailerSize
	putTrailer(p.keyBuf[trailerStart:trailerStart+trailerSize], seq, typ)

	if len(value) <= p.origLen[idx] {
		copy(p.valBuf[p.valOff[idx]:], value)
		p.curLen[idx] = len(value)

		if p.overflow != nil {
			delete(p.overflow, idx)
		}
	} else {
		if p.overflow == nil {
			p.overflow = make(map[int][]byte)
		}

		p.overflow[idx] = cloneBytes(value)
		p.curLen[idx] = len(value)
	}

	return UpdateResultUpdated, nil
}

package lorc

import "sort"

// vecPhysicalRange is the vector-layout [PhysicalRange]: two parallel
// containers of owned byte strings. It supports in-place value replacement
// at arbitrary size (the owned string is reassigned) and in-order or
// random insertion (the tail shifts).
type vecPhysicalRange struct {
	internalKeys [][]byte
	values       [][]byte
}

func newVecPhysicalRange(seq uint64, userKeys, values [][]byte) *vecPhysicalRange {
	p := &vecPhysicalRange{
		internalKeys: make([][]byte, len(userKeys)),
		values:       make([][]byte, len(values)),
	}

	for i, uk := range userKeys {
		p.internalKeys[i] = NewInternalKey(cloneBytes(uk), seq, KeyTypeRangeCacheValue)
		p.values[i] = cloneBytes(values[i])
	}

	return p
}

func (p *vecPhysicalRange) Length() int { return len(p.internalKeys) }

func (p *vecPhysicalRange) StartUserKey() []byte {
	if len(p.internalKeys) == 0 {
		return nil
	}

	uk, _ := InternalKeyUserKey(p.internalKeys[0])

	return uk
}

func (p *vecPhysicalRange) EndUserKey() []byte {
	if len(p.internalKeys) == 0 {
		return nil
	}

	uk, _ := InternalKeyUserKey(p.internalKeys[len(p.internalKeys)-1])

	return uk
}

func (p *vecPhysicalRange) ByteSize() int64 {
	var total int64
	for i := range p.internalKeys {
		total += int64(len(p.internalKeys[i])) + int64(len(p.values[i]))
	}

	return total
}

func (p *vecPhysicalRange) UserKeyAt(i int) []byte {
	uk, _ := InternalKeyUserKey(p.internalKeys[i])

	return uk
}

func (p *vecPhysicalRange) InternalKeyAt(i int) []byte { return p.internalKeys[i] }

func (p *vecPhysicalRange) ValueAt(i int) []byte { return p.values[i] }

func (p *vecPhysicalRange) Find(userKey []byte) (int, bool) {
	idx := sort.Search(len(p.internalKeys), func(i int) bool {
		return compareBytes(p.UserKeyAt(i), userKey) >= 0
	})

	if idx == len(p.internalKeys) {
		return 0, false
	}

	return idx, true
}

func (p *vecPhysicalRange) Reserve(n int) {
	if n <= 0 {
		return
	}

	ik := make([][]byte, len(p.internalKeys), len(p.internalKeys)+n)
	copy(ik, p.internalKeys)
	p.internalKeys = ik

	v := make([][]byte, len(p.values), len(p.values)+n)
	copy(v, p.values)
	p.values = v
}

func (p *vecPhysicalRange) Update(internalKey, value []byte) (UpdateResult, error) {
	userKey, seq, typ, err := DecodeInternalKey(internalKey)
	if err != nil {
		return 0, err
	}

	if p.Length() == 0 || !userKeyInSpan(userKey, p.StartUserKey(), p.EndUserKey()) {
		return UpdateResultOutOfRange, nil
	}

	idx, found := p.Find(userKey)

	if found && compareBytes(p.UserKeyAt(idx), userKey) == 0 {
		p.internalKeys[idx] = NewInternalKey(cloneBytes(userKey), seq, typ)
		p.values[idx] = cloneBytes(value)

		return UpdateResultUpdated, nil
	}

	// Not present: insert in sorted order, shifting the tail.
	insertAt := idx
	if !found {
		insertAt = len(p.internalKeys)
	}

	p.internalKeys = append(p.internalKeys, nil)
	copy(p.internalKeys[insertAt+1:], p.internalKeys[insertAt:])
	p.internalKeys[insertAt] = NewInternalKey(cloneBytes(userKey), seq, typ)

	p.values = append(p.values, nil)
	copy(p.values[insertAt+1:], p.values[insertAt:])
	p.values[insertAt] = cloneBytes(value)

	return UpdateResultInserted, nil
}

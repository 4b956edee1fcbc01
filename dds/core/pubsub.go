package core

import "time"

// Write publishes one sample through a writer, stamping it with the current
// time.
func Write(writer Handle, sample any) ReturnCode {
	return WriteTS(writer, sample, time.Now().UnixNano())
}

// WriteTS publishes one sample with an explicit source timestamp. The sample
// is delivered by reference to every matched reader in the writer's domain;
// readers treat the memory as middleware-owned until their loan is returned.
func WriteTS(writer Handle, sample any, ts int64) ReturnCode {
	if sample == nil {
		return RetcodeBadParameter
	}
	return publish(writer, cacheEntry{
		data: sample,
		info: SampleInfo{ValidData: true, SourceTimestamp: ts},
	})
}

// Dispose delivers a disposal notification for a sample: matched readers
// receive an entry with no data attached.
func Dispose(writer Handle, sample any) ReturnCode {
	if sample == nil {
		return RetcodeBadParameter
	}
	return publish(writer, cacheEntry{
		info: SampleInfo{ValidData: false, SourceTimestamp: time.Now().UnixNano()},
	})
}

func publish(writer Handle, entry cacheEntry) ReturnCode {
	reg.Lock()

	w, rc := lookupLocked(writer, kindWriter)
	if rc < 0 {
		reg.Unlock()
		return rc
	}

	if w.qos.Durability == DurabilityTransientLocal && entry.info.ValidData {
		w.retained = append(w.retained, entry)
		if w.qos.History == HistoryKeepLast && len(w.retained) > int(w.qos.Depth) {
			w.retained = w.retained[len(w.retained)-int(w.qos.Depth):]
		}
	}

	var signal []chan struct{}
	for _, r := range reg.entities {
		if r.kind != kindReader || r.domain != w.domain || r.name != w.name {
			continue
		}
		if !compatible(w.qos, r.qos) {
			continue
		}
		depositLocked(r, entry)
		for _, wsh := range r.waitsets {
			if ws, ok := reg.entities[wsh]; ok {
				signal = append(signal, ws.signal)
			}
		}
	}
	reg.Unlock()

	// Wake waiters outside the lock; the channels are buffered so a pending
	// wake-up is never lost and never blocks the writer.
	for _, ch := range signal {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return RetcodeOK
}

func depositLocked(r *entity, entry cacheEntry) {
	r.cache = append(r.cache, entry)
	if r.qos.History == HistoryKeepLast && len(r.cache) > int(r.qos.Depth) {
		r.cache = r.cache[len(r.cache)-int(r.qos.Depth):]
	}
}

// Take removes up to max entries from the reader cache and loans them to the
// caller. The third result is the entry count, or a negative return code. A
// reader supports one outstanding loan at a time; the loan must be given back
// with ReturnLoan before the next retrieval.
func Take(reader Handle, max int) ([]any, []SampleInfo, int32) {
	return retrieve(reader, max, true)
}

// Read is Take without removal: entries stay in the cache for later calls.
func Read(reader Handle, max int) ([]any, []SampleInfo, int32) {
	return retrieve(reader, max, false)
}

func retrieve(reader Handle, max int, remove bool) ([]any, []SampleInfo, int32) {
	reg.Lock()
	defer reg.Unlock()

	r, rc := lookupLocked(reader, kindReader)
	if rc < 0 {
		return nil, nil, rc
	}
	if max <= 0 {
		return nil, nil, RetcodeBadParameter
	}
	if r.loan != nil {
		return nil, nil, RetcodePreconditionNotMet
	}

	n := min(max, len(r.cache))
	if n == 0 {
		return nil, nil, 0
	}

	samples := make([]any, n)
	infos := make([]SampleInfo, n)
	for i := 0; i < n; i++ {
		samples[i] = r.cache[i].data
		infos[i] = r.cache[i].info
	}
	if remove {
		r.cache = append([]cacheEntry(nil), r.cache[n:]...)
	}
	r.loan = samples
	return samples, infos, int32(n)
}

// ReturnLoan gives loaned sample memory back to the middleware. Calling it
// with no loan outstanding fails with RetcodePreconditionNotMet.
func ReturnLoan(reader Handle, samples []any) ReturnCode {
	reg.Lock()
	defer reg.Unlock()

	r, rc := lookupLocked(reader, kindReader)
	if rc < 0 {
		return rc
	}
	if r.loan == nil {
		return RetcodePreconditionNotMet
	}
	_ = samples
	r.loan = nil
	return RetcodeOK
}

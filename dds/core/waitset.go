package core

import "time"

// CreateWaitset creates a wait primitive owned by a participant.
func CreateWaitset(participant Handle) Handle {
	reg.Lock()
	defer reg.Unlock()

	p, rc := lookupLocked(participant, kindParticipant)
	if rc < 0 {
		return rc
	}
	return addLocked(&entity{
		kind:        kindWaitset,
		parent:      p.handle,
		domain:      p.domain,
		attachments: make(map[Handle]int32),
		signal:      make(chan struct{}, 1),
		deleted:     make(chan struct{}),
	})
}

// WaitsetAttach registers a reader as a readiness condition of the waitset.
// arg is an opaque token reported back by WaitsetWait triggering (unused by
// the wrapper layer, kept for interface parity).
func WaitsetAttach(waitset, reader Handle, arg int32) ReturnCode {
	reg.Lock()
	defer reg.Unlock()

	ws, rc := lookupLocked(waitset, kindWaitset)
	if rc < 0 {
		return rc
	}
	r, rc := lookupLocked(reader, kindReader)
	if rc < 0 {
		return rc
	}
	if _, dup := ws.attachments[reader]; dup {
		return RetcodePreconditionNotMet
	}
	ws.attachments[reader] = arg
	r.waitsets = append(r.waitsets, ws.handle)
	return RetcodeOK
}

// WaitsetDetach removes a previously attached reader.
func WaitsetDetach(waitset, reader Handle) ReturnCode {
	reg.Lock()
	defer reg.Unlock()

	ws, rc := lookupLocked(waitset, kindWaitset)
	if rc < 0 {
		return rc
	}
	if _, ok := ws.attachments[reader]; !ok {
		return RetcodePreconditionNotMet
	}
	delete(ws.attachments, reader)
	if r, ok := reg.entities[reader]; ok {
		kept := r.waitsets[:0]
		for _, h := range r.waitsets {
			if h != ws.handle {
				kept = append(kept, h)
			}
		}
		r.waitsets = kept
	}
	return RetcodeOK
}

// WaitsetWait blocks the calling goroutine until an attached reader has data
// available or the timeout elapses. It returns the number of triggered
// attachments, 0 on timeout, or a negative return code. A non-positive
// timeout polls once without blocking.
func WaitsetWait(waitset Handle, timeout time.Duration) int32 {
	deadline := time.Now().Add(timeout)
	for {
		reg.Lock()
		ws, rc := lookupLocked(waitset, kindWaitset)
		if rc < 0 {
			reg.Unlock()
			return rc
		}
		triggered := int32(0)
		for rh := range ws.attachments {
			if r, ok := reg.entities[rh]; ok && len(r.cache) > 0 {
				triggered++
			}
		}
		sig, del := ws.signal, ws.deleted
		reg.Unlock()

		if triggered > 0 {
			return triggered
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0
		}
		timer := time.NewTimer(remaining)
		select {
		case <-sig:
			timer.Stop()
		case <-del:
			timer.Stop()
			return RetcodeAlreadyDeleted
		case <-timer.C:
			return 0
		}
	}
}

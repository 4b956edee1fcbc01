package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testSample struct {
	Path  string
	Value float64
}

func newEndpointPair(t *testing.T, readerQos, writerQos *Qos) (participant, writer, reader Handle) {
	t.Helper()
	req := require.New(t)

	participant = CreateParticipant(0, nil)
	req.Positive(participant)
	t.Cleanup(func() { Delete(participant) })

	topic := CreateTopic(participant, "test::Sample", "rt/test/samples", nil)
	req.Positive(topic)

	writer = CreateWriter(participant, topic, writerQos)
	req.Positive(writer)

	reader = CreateReader(participant, topic, readerQos)
	req.Positive(reader)
	return participant, writer, reader
}

func TestHandlesAreUniqueAndPositive(t *testing.T) {
	req := require.New(t)

	p1 := CreateParticipant(0, nil)
	p2 := CreateParticipant(0, nil)
	defer Delete(p1)
	defer Delete(p2)

	req.Positive(p1)
	req.Positive(p2)
	req.NotEqual(p1, p2)

	// Handles are never recycled, even after deletion.
	req.Equal(RetcodeOK, Delete(p2))
	p3 := CreateParticipant(0, nil)
	defer Delete(p3)
	req.Greater(p3, p2)
}

func TestCreateTopicValidation(t *testing.T) {
	req := require.New(t)

	p := CreateParticipant(0, nil)
	defer Delete(p)

	req.Equal(RetcodeBadParameter, CreateTopic(p, "test::Sample", "", nil))
	req.Equal(RetcodeBadParameter, CreateTopic(p, "test::Sample", "bad name", nil))
	req.Equal(RetcodeBadParameter, CreateTopic(p, "", "rt/test/names", nil))

	first := CreateTopic(p, "test::Sample", "rt/test/names", nil)
	req.Positive(first)

	// Same name, same descriptor: fine. Different descriptor: rejected.
	req.Positive(CreateTopic(p, "test::Sample", "rt/test/names", nil))
	req.Equal(RetcodeInconsistentPolicy, CreateTopic(p, "test::Other", "rt/test/names", nil))
}

func TestWriteDeliversInOrder(t *testing.T) {
	req := require.New(t)

	qos := NewQos()
	qos.SetHistory(HistoryKeepAll, 0)
	_, writer, reader := newEndpointPair(t, qos, qos)

	for i := 0; i < 5; i++ {
		req.Equal(RetcodeOK, Write(writer, &testSample{Path: "Vehicle.Speed", Value: float64(i)}))
	}

	samples, infos, n := Take(reader, 10)
	req.Equal(int32(5), n)
	for i := 0; i < 5; i++ {
		req.True(infos[i].ValidData)
		req.Equal(float64(i), samples[i].(*testSample).Value)
	}
	req.Equal(RetcodeOK, ReturnLoan(reader, samples))
}

func TestDomainIsolation(t *testing.T) {
	req := require.New(t)

	p0 := CreateParticipant(0, nil)
	p1 := CreateParticipant(1, nil)
	defer Delete(p0)
	defer Delete(p1)

	t0 := CreateTopic(p0, "test::Sample", "rt/test/iso", nil)
	t1 := CreateTopic(p1, "test::Sample", "rt/test/iso", nil)
	w := CreateWriter(p0, t0, nil)
	r := CreateReader(p1, t1, nil)
	req.Positive(w)
	req.Positive(r)

	req.Equal(RetcodeOK, Write(w, &testSample{Value: 1}))

	_, _, n := Take(r, 10)
	req.Zero(n)
}

func TestQosMatching(t *testing.T) {
	req := require.New(t)

	reliable := NewQos()
	reliable.SetReliability(ReliabilityReliable, time.Second)

	// Reliable reader does not match a best-effort writer.
	_, writer, reader := newEndpointPair(t, reliable, nil)
	req.Equal(RetcodeOK, Write(writer, &testSample{Value: 1}))
	_, _, n := Take(reader, 10)
	req.Zero(n)

	// Reliable writer satisfies a best-effort reader.
	_, writer, reader = newEndpointPair(t, nil, reliable)
	req.Equal(RetcodeOK, Write(writer, &testSample{Value: 1}))
	samples, _, n := Take(reader, 10)
	req.Equal(int32(1), n)
	req.Equal(RetcodeOK, ReturnLoan(reader, samples))
}

func TestKeepLastTrimsReaderCache(t *testing.T) {
	req := require.New(t)

	qos := NewQos()
	qos.SetHistory(HistoryKeepLast, 3)
	_, writer, reader := newEndpointPair(t, qos, nil)

	for i := 0; i < 10; i++ {
		req.Equal(RetcodeOK, Write(writer, &testSample{Value: float64(i)}))
	}

	samples, _, n := Take(reader, 10)
	req.Equal(int32(3), n)
	req.Equal(7.0, samples[0].(*testSample).Value)
	req.Equal(9.0, samples[2].(*testSample).Value)
	req.Equal(RetcodeOK, ReturnLoan(reader, samples))
}

func TestTransientLocalReplaysToLateJoiner(t *testing.T) {
	req := require.New(t)

	p := CreateParticipant(0, nil)
	defer Delete(p)
	topic := CreateTopic(p, "test::Sample", "rt/test/replay", nil)

	tl := NewQos()
	tl.SetDurability(DurabilityTransientLocal)
	tl.SetHistory(HistoryKeepLast, 2)

	w := CreateWriter(p, topic, tl)
	for i := 0; i < 4; i++ {
		req.Equal(RetcodeOK, Write(w, &testSample{Value: float64(i)}))
	}

	// Late joiner requesting transient-local sees the retained tail only.
	r := CreateReader(p, topic, tl)
	samples, _, n := Take(r, 10)
	req.Equal(int32(2), n)
	req.Equal(2.0, samples[0].(*testSample).Value)
	req.Equal(3.0, samples[1].(*testSample).Value)
	req.Equal(RetcodeOK, ReturnLoan(r, samples))

	// A volatile late joiner gets nothing historical.
	rv := CreateReader(p, topic, nil)
	_, _, n = Take(rv, 10)
	req.Zero(n)
}

func TestLoanDiscipline(t *testing.T) {
	req := require.New(t)
	_, writer, reader := newEndpointPair(t, nil, nil)

	req.Equal(RetcodeOK, Write(writer, &testSample{Value: 1}))

	samples, _, n := Take(reader, 10)
	req.Equal(int32(1), n)

	// Second retrieval while the loan is out is refused.
	_, _, rc := Take(reader, 10)
	req.Equal(RetcodePreconditionNotMet, rc)
	_, _, rc = Read(reader, 10)
	req.Equal(RetcodePreconditionNotMet, rc)

	req.Equal(RetcodeOK, ReturnLoan(reader, samples))
	req.Equal(RetcodePreconditionNotMet, ReturnLoan(reader, samples))

	// Retrieval works again once the loan is back.
	_, _, n = Take(reader, 10)
	req.Zero(n)
}

func TestReadLeavesCacheIntact(t *testing.T) {
	req := require.New(t)

	qos := NewQos()
	qos.SetHistory(HistoryKeepAll, 0)
	_, writer, reader := newEndpointPair(t, qos, nil)

	req.Equal(RetcodeOK, Write(writer, &testSample{Value: 42}))

	for i := 0; i < 2; i++ {
		samples, _, n := Read(reader, 10)
		req.Equal(int32(1), n)
		req.Equal(42.0, samples[0].(*testSample).Value)
		req.Equal(RetcodeOK, ReturnLoan(reader, samples))
	}

	samples, _, n := Take(reader, 10)
	req.Equal(int32(1), n)
	req.Equal(RetcodeOK, ReturnLoan(reader, samples))

	_, _, n = Take(reader, 10)
	req.Zero(n)
}

func TestDisposeDeliversInvalidDataEntry(t *testing.T) {
	req := require.New(t)

	qos := NewQos()
	qos.SetHistory(HistoryKeepAll, 0)
	_, writer, reader := newEndpointPair(t, qos, nil)

	req.Equal(RetcodeOK, Write(writer, &testSample{Value: 1}))
	req.Equal(RetcodeOK, Dispose(writer, &testSample{Value: 1}))

	samples, infos, n := Take(reader, 10)
	req.Equal(int32(2), n)
	req.True(infos[0].ValidData)
	req.False(infos[1].ValidData)
	req.Nil(samples[1])
	req.Equal(RetcodeOK, ReturnLoan(reader, samples))
}

func TestWriteAfterParticipantDelete(t *testing.T) {
	req := require.New(t)

	p := CreateParticipant(0, nil)
	topic := CreateTopic(p, "test::Sample", "rt/test/orphan", nil)
	w := CreateWriter(p, topic, nil)
	req.Positive(w)

	req.Equal(RetcodeOK, Delete(p))
	req.Equal(RetcodeAlreadyDeleted, Write(w, &testSample{Value: 1}))
	req.Equal(RetcodeAlreadyDeleted, Delete(w))
}

func TestWriteTSCarriesSourceTimestamp(t *testing.T) {
	req := require.New(t)
	_, writer, reader := newEndpointPair(t, nil, nil)

	req.Equal(RetcodeOK, WriteTS(writer, &testSample{Value: 1}, 12345))

	samples, infos, n := Take(reader, 10)
	req.Equal(int32(1), n)
	req.Equal(int64(12345), infos[0].SourceTimestamp)
	req.Equal(RetcodeOK, ReturnLoan(reader, samples))
}

func TestWaitsetWait(t *testing.T) {
	req := require.New(t)

	p, writer, reader := newEndpointPair(t, nil, nil)
	ws := CreateWaitset(p)
	req.Positive(ws)
	req.Equal(RetcodeOK, WaitsetAttach(ws, reader, 0))

	// Empty cache: zero timeout polls and returns immediately.
	start := time.Now()
	req.Zero(WaitsetWait(ws, 0))
	req.Less(time.Since(start), 50*time.Millisecond)

	// Data arriving from another goroutine wakes the waiter.
	go func() {
		time.Sleep(20 * time.Millisecond)
		Write(writer, &testSample{Value: 1})
	}()
	req.Equal(int32(1), WaitsetWait(ws, time.Second))

	// Timeout path.
	samples, _, n := Take(reader, 10)
	req.Equal(int32(1), n)
	req.Equal(RetcodeOK, ReturnLoan(reader, samples))

	start = time.Now()
	req.Zero(WaitsetWait(ws, 50*time.Millisecond))
	req.GreaterOrEqual(time.Since(start), 45*time.Millisecond)
}

func TestWaitsetDeleteWakesWaiter(t *testing.T) {
	req := require.New(t)

	p, _, reader := newEndpointPair(t, nil, nil)
	ws := CreateWaitset(p)
	req.Equal(RetcodeOK, WaitsetAttach(ws, reader, 0))

	done := make(chan int32, 1)
	go func() { done <- WaitsetWait(ws, 5*time.Second) }()

	time.Sleep(20 * time.Millisecond)
	req.Equal(RetcodeOK, Delete(ws))

	select {
	case rc := <-done:
		req.Equal(RetcodeAlreadyDeleted, rc)
	case <-time.After(time.Second):
		req.Fail("waiter did not wake on waitset deletion")
	}
}

func TestParticipantDeleteIsRecursive(t *testing.T) {
	req := require.New(t)

	before := entityCount()
	p := CreateParticipant(0, nil)
	topic := CreateTopic(p, "test::Sample", "rt/test/rec", nil)
	w := CreateWriter(p, topic, nil)
	r := CreateReader(p, topic, nil)
	ws := CreateWaitset(p)
	req.Equal(RetcodeOK, WaitsetAttach(ws, r, 0))

	req.Equal(RetcodeOK, Delete(p))
	req.Equal(before, entityCount())

	req.Equal(RetcodeAlreadyDeleted, Delete(topic))
	req.Equal(RetcodeAlreadyDeleted, Delete(w))
	req.Equal(RetcodeAlreadyDeleted, Delete(r))
	req.Equal(RetcodeAlreadyDeleted, Delete(ws))
}

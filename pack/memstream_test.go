package pack

import (
	"fmt"
	"io"
)

// memStream is a minimal in-memory io.ReadWriteSeeker with Truncate,
// standing in for the *os.File a real CLI would hand to Open.
type memStream struct {
	buf []byte
	pos int64
}

func (m *memStream) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *memStream) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	n := copy(m.buf[m.pos:end], p)
	m.pos = end
	return n, nil
}

func (m *memStream) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = m.pos + offset
	case io.SeekEnd:
		newPos = int64(len(m.buf)) + offset
	default:
		return 0, fmt.Errorf("memStream: invalid whence %d", whence)
	}
	if newPos < 0 {
		return 0, fmt.Errorf("memStream: negative position")
	}
	m.pos = newPos
	return newPos, nil
}

func (m *memStream) Truncate(size int64) error {
	if size < int64(len(m.buf)) {
		m.buf = m.buf[:size]
	}
	return nil
}

// failAfterWriteStream wraps a memStream and fails the Nth call to Write
// (1-indexed), to exercise what happens when persisting a rewrite fails
// partway through.
type failAfterWriteStream struct {
	memStream
	failOn  int
	writeNo int
}

func (f *failAfterWriteStream) Write(p []byte) (int, error) {
	f.writeNo++
	if f.writeNo == f.failOn {
		return 0, fmt.Errorf("failAfterWriteStream: simulated write failure")
	}
	return f.memStream.Write(p)
}

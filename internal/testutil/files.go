package testutil

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"time"
)

// PNG returns bytes that sniff as image/png.
func PNG() []byte {
	return append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)
}

// JPEG returns bytes that sniff as image/jpeg.
func JPEG() []byte {
	return append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, bytes.Repeat([]byte{0}, 32)...)
}

// MP4 returns a minimal ISO-BMFF file (ftyp + moov/mvhd) lasting the given seconds.
func MP4(seconds uint32) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 24})
	buf.WriteString("ftypisom")
	buf.Write([]byte{0, 0, 2, 0})
	buf.WriteString("isommp42")

	mvhd := make([]byte, 108)
	binary.BigEndian.PutUint32(mvhd[0:4], 108)
	copy(mvhd[4:8], "mvhd")
	// version 0, flags 0, creation and modification time 0
	binary.BigEndian.PutUint32(mvhd[20:24], 1000)
	binary.BigEndian.PutUint32(mvhd[24:28], seconds*1000)
	binary.BigEndian.PutUint32(mvhd[28:32], 0x00010000)

	moovHeader := make([]byte, 8)
	binary.BigEndian.PutUint32(moovHeader[0:4], uint32(8+len(mvhd)))
	copy(moovHeader[4:8], "moov")
	buf.Write(moovHeader)
	buf.Write(mvhd)
	return buf.Bytes()
}

// MP4V1 is MP4 with a version 1 (64-bit) movie header declaring units/timescale.
func MP4V1(timescale uint32, units uint64) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 24})
	buf.WriteString("ftypisom")
	buf.Write([]byte{0, 0, 2, 0})
	buf.WriteString("isommp42")

	mvhd := make([]byte, 120)
	binary.BigEndian.PutUint32(mvhd[0:4], 120)
	copy(mvhd[4:8], "mvhd")
	mvhd[8] = 1
	binary.BigEndian.PutUint32(mvhd[28:32], timescale)
	binary.BigEndian.PutUint64(mvhd[32:40], units)
	binary.BigEndian.PutUint32(mvhd[40:44], 0x00010000)

	moovHeader := make([]byte, 8)
	binary.BigEndian.PutUint32(moovHeader[0:4], uint32(8+len(mvhd)))
	copy(moovHeader[4:8], "moov")
	buf.Write(moovHeader)
	buf.Write(mvhd)
	return buf.Bytes()
}

// Storage is an in-memory object store for tests.
type Storage struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Removed []string
	FailOn  int // fail the Nth upload (1-based); 0 never fails
	uploads int
}

func NewStorage() *Storage {
	return &Storage{Objects: map[string][]byte{}}
}

func (s *Storage) Upload(_ context.Context, path, _ string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++
	if s.FailOn > 0 && s.uploads == s.FailOn {
		return "", errors.New("storage unavailable")
	}
	s.Objects[path] = data
	return "https://cdn.example.com/" + path, nil
}

func (s *Storage) Remove(_ context.Context, paths ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range paths {
		delete(s.Objects, p)
		s.Removed = append(s.Removed, p)
	}
	return nil
}

// Inspector reports a fixed duration for every video.
type Inspector struct {
	D   time.Duration
	Err error
}

func (i Inspector) Duration([]byte) (time.Duration, error) {
	return i.D, i.Err
}

package player

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"
)

// mp3Stream adapts go-mp3's 16-bit stereo PCM reader to beep.
type mp3Stream struct {
	dec *mp3.Decoder
	rc  io.Closer
	buf []byte
	err error
}

// decodeMP3 wraps rc in a seekable beep stream. The stream owns rc.
func decodeMP3(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	dec, err := mp3.NewDecoder(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}
	if dec.SampleRate() == 0 {
		return nil, beep.Format{}, errors.New("mp3: invalid sample rate")
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(dec.SampleRate()),
		NumChannels: 2,
		Precision:   2,
	}
	return &mp3Stream{dec: dec, rc: rc, buf: make([]byte, 8192)}, format, nil
}

func (s *mp3Stream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}

	// 4 bytes per stereo frame.
	want := len(samples) * 4
	if len(s.buf) < want {
		s.buf = make([]byte, want)
	}
	got, err := io.ReadFull(s.dec, s.buf[:want])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		s.err = err
		return 0, false
	}

	frames := got / 4
	if frames == 0 {
		return 0, false
	}
	for i := range frames {
		off := i * 4
		left := int16(binary.LittleEndian.Uint16(s.buf[off:]))    //nolint:gosec // PCM sample
		right := int16(binary.LittleEndian.Uint16(s.buf[off+2:])) //nolint:gosec // PCM sample
		samples[i][0] = float64(left) / 32768
		samples[i][1] = float64(right) / 32768
	}
	return frames, true
}

func (s *mp3Stream) Err() error { return s.err }

func (s *mp3Stream) Len() int {
	return int(max(s.dec.SampleCount(), 0))
}

func (s *mp3Stream) Position() int {
	return int(s.dec.SamplePosition())
}

func (s *mp3Stream) Seek(p int) error {
	p = max(p, 0)
	p = min(p, s.Len())
	if err := s.dec.SeekToSample(int64(p)); err != nil {
		return err
	}
	s.err = nil
	return nil
}

func (s *mp3Stream) Close() error { return s.rc.Close() }

package main

import (
	"github.com/gordonklaus/portaudio"
)

// MicrophoneReader captures mono 16-bit PCM from the default input device.
// Each Read returns one buffer of little-endian samples.
type MicrophoneReader struct {
	stream *portaudio.Stream
	buffer []int16
}

// NewMicrophoneReader starts recording at sampleRate. The caller must Close it.
func NewMicrophoneReader(sampleRate float64, framesPerBuffer int) (*MicrophoneReader, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	buffer := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(buffer), buffer)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, err
	}

	return &MicrophoneReader{
		stream: stream,
		buffer: buffer,
	}, nil
}

// Read implements io.Reader. It blocks until the device fills one buffer,
// then copies those samples into p as little-endian bytes. When p is shorter
// than the buffer the remaining samples are dropped.
func (m *MicrophoneReader) Read(p []byte) (int, error) {
	if err := m.stream.Read(); err != nil {
		return 0, err
	}
	return copy(p, int16SliceToByteSlice(m.buffer)), nil
}

// Close implements io.Closer. It stops and closes the input stream and then
// releases PortAudio. The first error encountered is returned.
func (m *MicrophoneReader) Close() error {
	err := m.stream.Stop()
	if closeErr := m.stream.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	portaudio.Terminate()
	return err
}

// int16SliceToByteSlice encodes samples as little-endian 16-bit PCM, the
// format the relay expects on the wire.
func int16SliceToByteSlice(in []int16) []byte {
	out := make([]byte, len(in)*2)
	for i, v := range in {
		// little-endian
		out[2*i] = byte(v)
		out[2*i+1] = byte(v >> 8)
	}
	return out
}

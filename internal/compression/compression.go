// Package compression is the boundary to the byte-level compression scheme
// the archives store their entries under. The scheme itself lives behind
// the Codec interface; everything above only relies on the round-trip
// contract Decompress(Compress(x)) == x.
package compression

import (
	"encoding/binary"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Codec compresses and decompresses entry payloads. Implementations must
// be lossless and safe for concurrent use; the archive rebuild calls
// Compress from parallel workers.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// Raw is the identity codec, used for plain dumps and in tests.
type Raw struct{}

func (Raw) Compress(data []byte) ([]byte, error)   { return data, nil }
func (Raw) Decompress(data []byte) ([]byte, error) { return data, nil }

// Zstd wraps a shared zstd encoder/decoder pair. Entries sit 16-byte
// aligned inside the archive data file, so a compressed blob may carry
// trailing padding; the payload is length-prefixed so Decompress can find
// the frame boundary without parsing the padding.
type Zstd struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewZstd returns a ready-to-use zstd codec.
func NewZstd() (*Zstd, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, errors.Wrap(err, "create zstd encoder")
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errors.Wrap(err, "create zstd decoder")
	}
	return &Zstd{enc: enc, dec: dec}, nil
}

func (z *Zstd) Compress(data []byte) ([]byte, error) {
	frame := z.enc.EncodeAll(data, nil)
	out := make([]byte, 4, 4+len(frame))
	binary.LittleEndian.PutUint32(out, uint32(len(frame)))
	return append(out, frame...), nil
}

func (z *Zstd) Decompress(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, errors.Errorf("compressed entry of %d bytes has no length prefix", len(data))
	}
	frameLen := int(binary.LittleEndian.Uint32(data))
	if 4+frameLen > len(data) {
		return nil, errors.Errorf("compressed entry declares %d bytes but only %d remain", frameLen, len(data)-4)
	}
	out, err := z.dec.DecodeAll(data[4:4+frameLen], nil)
	if err != nil {
		return nil, errors.Wrap(err, "decompress entry")
	}
	return out, nil
}

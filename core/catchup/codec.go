// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package catchup

import (
	"fmt"
	"io"

	"github.com/golang/snappy"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/encoding/gzip"
)

const (
	codecName = "coresync"

	CompressionGzip   = gzip.Name
	CompressionSnappy = "snappy"
)

func init() {
	encoding.RegisterCompressor(snappyCompressor{})
}

type message interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

// codec encodes the catch-up messages, which all know how to encode
// themselves in the protobuf wire format.
type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(message)
	if !ok {
		return nil, fmt.Errorf("unsupported message type %T", v)
	}
	return m.Marshal()
}

func (codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(message)
	if !ok {
		return fmt.Errorf("unsupported message type %T", v)
	}
	return m.Unmarshal(data)
}

func (codec) Name() string {
	return codecName
}

type snappyCompressor struct{}

func (snappyCompressor) Compress(w io.Writer) (io.WriteCloser, error) {
	return snappy.NewBufferedWriter(w), nil
}

func (snappyCompressor) Decompress(r io.Reader) (io.Reader, error) {
	return snappy.NewReader(r), nil
}

func (snappyCompressor) Name() string {
	return CompressionSnappy
}

// IsSupportedCompression reports whether name is a compression the
// catch-up transport can negotiate.
func IsSupportedCompression(name string) bool {
	return encoding.GetCompressor(name) != nil
}

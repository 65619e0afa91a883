// Copyright (c) 2022 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package capture

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pierrec/lz4"
)

// Write writes a single report to w as a capture file. Empty header
// fields are filled in: ID gets a fresh uuid, Host the machine
// hostname, Created the current time and Version the current format
// version. Size fields are always overwritten. Returns the number of
// bytes written.
func Write(w io.Writer, header Header, report Report) (int64, error) {
	if header.ID == "" {
		header.ID = uuid.NewString()
	}
	if header.Host == "" {
		if host, err := os.Hostname(); err == nil {
			header.Host = host
		}
	}
	if header.Created == 0 {
		header.Created = time.Now().Unix()
	}
	if header.Version == 0 {
		header.Version = formatVersion
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return 0, err
	}

	compressed := bytes.NewBuffer([]byte{})
	zw := lz4.NewWriter(compressed)
	if _, err := io.Copy(zw, bytes.NewReader(payload)); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}

	header.PayloadSize = int64(len(payload))
	header.CompressedSize = int64(compressed.Len())

	rawHeader, err := gobEncode(header)
	if err != nil {
		return 0, err
	}

	var written int64
	for _, chunk := range [][]byte{
		[]byte("IGC\x00"),
		int64ToBinary(int64(len(rawHeader))),
		rawHeader,
		compressed.Bytes(),
	} {
		num, err := w.Write(chunk)
		written += int64(num)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

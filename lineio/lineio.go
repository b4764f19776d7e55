// Package lineio reads newline-delimited streams where one bad line must
// not end the stream.
package lineio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"paperhub/config"
)

const readChunk = 64 * 1024

// Each calls fn with every non-blank line of r, trimmed of surrounding
// whitespace. Lines longer than maxLen bytes are dropped whole and reading
// continues with the next line. Each returns when fn asks to stop, fn
// fails, r fails, or r reaches EOF. A final line without a newline is still
// delivered.
//
// The slice passed to fn is only valid until fn returns.
func Each(r io.Reader, maxLen int, fn func(line []byte) (stop bool, err error)) error {
	br := bufio.NewReaderSize(r, readChunk)
	var buf []byte
	oversized := false
	dropped := 0

	for {
		frag, err := br.ReadSlice('\n')
		if err != nil && !errors.Is(err, bufio.ErrBufferFull) && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read stream: %w", err)
		}

		if !oversized && len(buf)+len(frag) > maxLen {
			oversized = true
			dropped = len(buf)
			buf = buf[:0]
		}
		if oversized {
			dropped += len(frag)
		} else {
			buf = append(buf, frag...)
		}

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}

		if oversized {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Stream] Dropped %d-byte line (limit %d)", dropped, maxLen)
			}
		} else if line := bytes.TrimSpace(buf); len(line) > 0 {
			stop, ferr := fn(line)
			if ferr != nil {
				return ferr
			}
			if stop {
				return nil
			}
		}

		buf = buf[:0]
		oversized, dropped = false, 0
		if err != nil {
			return nil
		}
	}
}

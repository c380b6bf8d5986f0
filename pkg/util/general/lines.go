/*
Copyright 2022 The Katalyst Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package general

import (
	"bufio"
	"bytes"
	"io"
	"os"
)

// MaxLineLength bounds a single line of any procfs/sysfs file we parse,
// newline included. A longer line stops the scan with bufio.ErrTooLong
// unless SkipLongLines is given, it is never truncated.
const MaxLineLength = 8192

// Lines is a lazy, finite and non-restartable sequence of text lines.
type Lines interface {
	// Next advances to the next line, it returns false at the end of input
	// or on the first read error.
	Next() bool
	// Text returns the current line without the trailing newline.
	Text() string
	// Err returns the error that stopped the sequence, nil on a clean EOF.
	Err() error
}

type linesOptions struct {
	skipLong bool
}

type LinesOption func(o *linesOptions)

// SkipLongLines drops lines longer than MaxLineLength and goes on with the
// next one instead of ending the sequence.
func SkipLongLines() LinesOption {
	return func(o *linesOptions) {
		o.skipLong = true
	}
}

type scannerLines struct {
	*bufio.Scanner
}

func (s scannerLines) Next() bool {
	return s.Scan()
}

// NewLines wraps r into a Lines sequence bounded by MaxLineLength.
func NewLines(r io.Reader, opts ...LinesOption) Lines {
	o := &linesOptions{}
	for _, opt := range opts {
		opt(o)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 512), MaxLineLength)
	if o.skipLong {
		scanner.Split(scanLinesSkippingLong(MaxLineLength))
	}
	return scannerLines{scanner}
}

// scanLinesSkippingLong is bufio.ScanLines, except that a full buffer
// without a newline is discarded up to and including the next newline.
func scanLinesSkippingLong(max int) bufio.SplitFunc {
	skipping := false
	return func(data []byte, atEOF bool) (int, []byte, error) {
		if skipping {
			if i := bytes.IndexByte(data, '\n'); i >= 0 {
				skipping = false
				return i + 1, nil, nil
			}
			return len(data), nil, nil
		}

		if len(data) >= max && bytes.IndexByte(data, '\n') < 0 {
			skipping = true
			return len(data), nil, nil
		}
		return bufio.ScanLines(data, atEOF)
	}
}

// WithFileLines opens path and hands its lines to fn, the file is
// closed once fn returns.
func WithFileLines(path string, fn func(lines Lines) error, opts ...LinesOption) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return fn(NewLines(f, opts...))
}

// ReadFirstLine returns the first line of a small pseudo-file.
func ReadFirstLine(path string) (string, error) {
	var line string
	err := WithFileLines(path, func(lines Lines) error {
		if lines.Next() {
			line = lines.Text()
			return nil
		}
		if lines.Err() != nil {
			return lines.Err()
		}
		return io.ErrUnexpectedEOF
	})
	return line, err
}

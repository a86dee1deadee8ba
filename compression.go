/*
* Compression test module
* Copyright (C) 2025  Artem Stefankiv
*
* This program is free software: you can redistribute it and/or modify
* it under the terms of the GNU General Public License as published by
* the Free Software Foundation, either version 3 of the License, or
* (at your option) any later version.
*
* This program is distributed in the hope that it will be useful,
* but WITHOUT ANY WARRANTY; without even the implied warranty of
* MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
* GNU General Public License for more details.
*
* You should have received a copy of the GNU General Public License
* along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// countingWriter discards compressed output, keeping only its size.
type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}

type compressor struct {
	name    string
	newFunc func(w io.Writer) (io.WriteCloser, error)
}

func compressors() []compressor {
	return []compressor{
		{"gzip", func(w io.Writer) (io.WriteCloser, error) { return gzip.NewWriter(w), nil }},
		{"zstd", func(w io.Writer) (io.WriteCloser, error) { return zstd.NewWriter(w) }},
		{"lz4", func(w io.Writer) (io.WriteCloser, error) { return lz4.NewWriter(w), nil }},
		{"brotli", func(w io.Writer) (io.WriteCloser, error) { return brotli.NewWriter(w), nil }},
		{"snappy", func(w io.Writer) (io.WriteCloser, error) { return snappy.NewBufferedWriter(w), nil }},
	}
}

// compressedSize streams the file through one codec and returns the size of
// the compressed output.
func compressedSize(filename string, c compressor) (int64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	counter := &countingWriter{}
	writer, err := c.newFunc(counter)
	if err != nil {
		return 0, fmt.Errorf("%s init failed: %w", c.name, err)
	}
	if _, err := io.Copy(writer, file); err != nil {
		return 0, fmt.Errorf("%s compression failed: %w", c.name, err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("%s flush failed: %w", c.name, err)
	}
	return counter.n, nil
}

// CompressionTest compresses the file with gzip, zstd, lz4, brotli and
// snappy in process and returns the mean of the per-codec size ratios
// (original size over compressed size). Encrypted or already-compressed data
// scores near or below 1. An empty file scores 0.
func CompressionTest(filename string) (float64, error) {
	stat, err := os.Stat(filename)
	if err != nil {
		return 0, err
	}
	fileSize := float64(stat.Size())
	if fileSize == 0 {
		return 0, nil
	}

	codecs := compressors()
	var ratioSum float64
	for _, c := range codecs {
		size, err := compressedSize(filename, c)
		if err != nil {
			return 0, err
		}
		ratioSum += fileSize / float64(size)
	}
	return ratioSum / float64(len(codecs)), nil
}

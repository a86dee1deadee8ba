/*
* File byte distribution counter module
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
	"bufio"
	"fmt"
	"io"
	"os"
)

// CountFileBytes builds the byte value distribution of a whole file in a
// single buffered pass, feeding the whole-file distribution tests. It
// returns the per-value counts and the number of bytes read.
func CountFileBytes(filename string, blockSize int) (*[256]uint64, uint64, error) {
	if blockSize <= 0 {
		return nil, 0, fmt.Errorf("block size must be positive, got %d", blockSize)
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, 0, err
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	reader := bufio.NewReaderSize(file, blockSize)
	buffer := make([]byte, blockSize)

	var counts [256]uint64
	var readBytesCount uint64
	for {
		bytesRead, err := reader.Read(buffer)
		if bytesRead > 0 {
			for _, b := range buffer[:bytesRead] {
				counts[b]++
			}
			readBytesCount += uint64(bytesRead)
		}
		if err == io.EOF || bytesRead == 0 {
			break
		}
		if err != nil {
			return nil, 0, err
		}
	}
	return &counts, readBytesCount, nil
}

/*
* File byte distribution counter tests
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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountFileBytes(t *testing.T) {
	// 3 x 0x00, 2 x 0x41, 1 x 0xFF across a block boundary.
	data := []byte{0x00, 0x41, 0x00, 0xFF, 0x41, 0x00}
	path := filepath.Join(t.TempDir(), "counted.bin")
	require.NoError(t, os.WriteFile(path, data, 0644))

	counts, total, err := CountFileBytes(path, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), total)
	assert.Equal(t, uint64(3), counts[0x00])
	assert.Equal(t, uint64(2), counts[0x41])
	assert.Equal(t, uint64(1), counts[0xFF])
	assert.Equal(t, uint64(0), counts[0x42])
}

func TestCountFileBytesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	counts, total, err := CountFileBytes(path, 4096)
	require.NoError(t, err)
	assert.Zero(t, total)
	for _, count := range counts {
		assert.Zero(t, count)
	}
}

func TestCountFileBytesMissingFile(t *testing.T) {
	_, _, err := CountFileBytes(filepath.Join(t.TempDir(), "nope"), 4096)
	assert.Error(t, err)
}

func TestCountFileBytesInvalidBlockSize(t *testing.T) {
	_, _, err := CountFileBytes("irrelevant", 0)
	assert.Error(t, err)
}

/*
* File signature density module
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
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/rure-go"
)

type SignatureMap map[string]*rure.Regex

// signaturePatterns maps format names to magic byte sequences, written as
// case-insensitive hex regexes matched against hex-encoded file blocks.
var signaturePatterns = map[string]string{
	"7-Zip archive":       "(?i)(377abcaf271c)",
	"BMP image":           "(?i)(424d)",
	"bzip2 archive":       "(?i)(425a68)",
	"ELF executable":      "(?i)(7f454c46)",
	"FLAC audio":          "(?i)(664c6143)",
	"GIF image":           "(?i)(474946383761|474946383961)",
	"gzip archive":        "(?i)(1f8b08)",
	"ISO 9660 image":      "(?i)(4344303031)",
	"Java class file":     "(?i)(cafebabe)",
	"JPEG image":          "(?i)(ffd8ffe0|ffd8ffe1|ffd8ffdb)",
	"LZ4 frame":           "(?i)(04224d18)",
	"Mach-O executable":   "(?i)(feedface|feedfacf)",
	"Matroska video":      "(?i)(1a45dfa3)",
	"MIDI audio":          "(?i)(4d546864)",
	"MP3 audio":           "(?i)(494433)",
	"MS Office document":  "(?i)(d0cf11e0a1b11ae1)",
	"Ogg container":       "(?i)(4f676753)",
	"PDF document":        "(?i)(255044462d)",
	"PNG image":           "(?i)(89504e470d0a1a0a)",
	"PostScript document": "(?i)(25215053)",
	"RAR archive":         "(?i)(526172211a07)",
	"RIFF container":      "(?i)(52494646)",
	"SQLite database":     "(?i)(53514c69746520666f726d6174203300)",
	"TAR archive":         "(?i)(7573746172)",
	"TIFF image":          "(?i)(49492a00|4d4d002a)",
	"WebP image":          "(?i)(57454250)",
	"Windows executable":  "(?i)(4d5a9000)",
	"WOFF font":           "(?i)(774f4646|774f4632)",
	"XML document":        "(?i)(3c3f786d6c20)",
	"XZ archive":          "(?i)(fd377a585a00)",
	"ZIP archive":         "(?i)(504b0304)",
	"ZStandard archive":   "(?i)(28b52ffd)",
}

func getSignatures() (SignatureMap, error) {
	signatures := make(SignatureMap, len(signaturePatterns))
	for name, pattern := range signaturePatterns {
		regex, err := rure.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern for %s: %w", name, err)
		}
		signatures[name] = regex
	}
	return signatures, nil
}

func FindBytesPattern(data string, regex *rure.Regex) int {
	matches := regex.FindAll(data)
	// FindAll returns start and end positions per match, count pairs
	return len(matches) / 2
}

// SignatureAnalysis counts known file-format magic byte sequences across the
// file and returns the match density in signatures per megabyte. Plaintext
// filesystems carry many recognizable headers; encrypted data only chance
// matches. The count is a scalar statistic, it does not identify the file.
func SignatureAnalysis(filename string, blockSize int) (float64, error) {
	if blockSize <= 0 {
		return 0, fmt.Errorf("block size must be positive, got %d", blockSize)
	}

	signatures, err := getSignatures()
	if err != nil {
		return 0, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	stat, err := file.Stat()
	if err != nil {
		return 0, err
	}
	if stat.Size() == 0 {
		return 0, nil
	}

	buffer := make([]byte, blockSize)
	var matchesTotal int
	for {
		bytesRead, err := file.Read(buffer)
		if bytesRead == 0 {
			if err == io.EOF || err == nil {
				break
			}
			return 0, err
		}

		hexData := hex.EncodeToString(buffer[:bytesRead])
		for _, regex := range signatures {
			matchesTotal += FindBytesPattern(hexData, regex)
		}
	}

	fileSizeMB := float64(stat.Size()) / 1048576.0
	return float64(matchesTotal) / fileSizeMB, nil
}

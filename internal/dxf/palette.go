/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dxf

import (
	"strconv"
	"strings"
)

// aciByLayer and aciByBlock are the reserved color index sentinels of the
// exchange format.
const (
	aciByBlock = 0
	aciByLayer = 256
)

// hexToACI approximates a #RRGGBB color to a palette index by thresholding
// each channel at 128. This is deliberately coarse, not a nearest-color
// search; both directions of the mapping are lossy and kept that way for
// format compatibility.
func hexToACI(hex string) int {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return 7
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 7
	}
	r := v>>16&0xff >= 128
	g := v>>8&0xff >= 128
	b := v&0xff >= 128
	switch {
	case r && g && b:
		return 7
	case r && g:
		return 2 // yellow
	case g && b:
		return 4 // cyan
	case r && b:
		return 6 // magenta
	case r:
		return 1
	case g:
		return 3
	case b:
		return 5
	default:
		return 7 // black renders as index 7
	}
}

// aciToHex is the fixed inverse table for the indices the exporter emits.
var aciToHex = map[int]string{
	1: "#FF0000",
	2: "#FFFF00",
	3: "#00FF00",
	4: "#00FFFF",
	5: "#0000FF",
	6: "#FF00FF",
	7: "#FFFFFF",
	8: "#808080",
	9: "#C0C0C0",
}

func hexFromACI(aci int) string {
	if hex, ok := aciToHex[aci]; ok {
		return hex
	}
	return aciToHex[7]
}

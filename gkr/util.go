// Copyright 2024 Distributed Lab. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package gkr

import "fmt"

// log2PowerOfTwo returns log2(n), panicking if n is not a power of two -
// a programmer error (spec.md §7), since every variable-group width this
// package derives a round count from (pack_size, world_size) is declared
// a power of two by the field/mpi contracts.
func log2PowerOfTwo(n int) int {
	if n <= 0 || n&(n-1) != 0 {
		panic(fmt.Sprintf("gkr: expected a power of two, got %d", n))
	}
	l := 0
	for n > 1 {
		n >>= 1
		l++
	}
	return l
}

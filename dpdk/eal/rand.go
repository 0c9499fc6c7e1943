package eal

/*
#include "../../csrc/core/common.h"
#include <rte_random.h>
*/
import "C"

// SeedRand seeds the DPDK pseudo-random number generator.
func SeedRand(seed uint64) {
	C.rte_srand(C.uint64_t(seed))
}

// Rand returns a pseudo-random 64-bit number from the DPDK generator.
func Rand() uint64 {
	return uint64(C.rte_rand())
}

// RandMax returns a pseudo-random number in [0, upperBound).
func RandMax(upperBound uint64) uint64 {
	return uint64(C.rte_rand_max(C.uint64_t(upperBound)))
}

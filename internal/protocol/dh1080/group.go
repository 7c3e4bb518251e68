package dh1080

import "math/big"

const primeHex = "FBE1022E23D213E8ACFA9AE8B9DFADA3EA6B7AC7A7B7E95AB5EB2DF858921FEA" +
	"DE95E6AC7BE7DE6ADBAB8A783E7AF7A7FA6A2B7BEB1E72EAE2B72F9FA2BFB2A2" +
	"EFBEFAC868BADB3E828FA8BADFADA3E4CC1BE7E8AFE85E9698A783EB68FA07A7" +
	"7AB6AD7BEB618ACF9CA2897EB28A6189EFA07AB99A8A7FA9AE299EFA7BA66DEA" +
	"FEFBEFBF0B7D8B"

// Bits is the size of the prime modulus.
const Bits = 1080

var (
	prime     = mustHex(primeHex)
	generator = big.NewInt(2)
	primeLess = new(big.Int).Sub(prime, big.NewInt(1))
	one       = big.NewInt(1)
)

func mustHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("dh1080: bad prime constant")
	}
	return n
}

// Prime returns a copy of the group modulus P.
func Prime() *big.Int { return new(big.Int).Set(prime) }

// Generator returns a copy of the group generator g.
func Generator() *big.Int { return new(big.Int).Set(generator) }

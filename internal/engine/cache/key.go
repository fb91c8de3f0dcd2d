package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"

	"github.com/rshade/kepler/internal/kepler"
)

// keySchema is bumped whenever the key derivation changes.
const keySchema = "kepler-solve-v1"

// KeyFor derives the cache key for solving meanAnomaly/ecc with cfg. The
// key covers the exact bit patterns of every input, so -0 and 0 or two
// NaN payloads produce different keys.
func KeyFor(meanAnomaly, ecc []float64, cfg kepler.Config) string {
	h := sha256.New()
	h.Write([]byte(keySchema))

	writeUint(h, uint64(cfg.MaxIterations))
	writeUint(h, math.Float64bits(cfg.Tolerance))
	if cfg.DisableWarmStart {
		writeUint(h, 1)
	} else {
		writeUint(h, 0)
	}

	writeFloats(h, meanAnomaly)
	writeFloats(h, ecc)

	return hex.EncodeToString(h.Sum(nil))
}

func writeFloats(h hash.Hash, values []float64) {
	writeUint(h, uint64(len(values)))
	for _, v := range values {
		writeUint(h, math.Float64bits(v))
	}
}

func writeUint(h hash.Hash, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}

package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
)

// GenerateID returns a random hex string of the given byte length
func GenerateID(byteLen int) string {
	b := make([]byte, byteLen)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// GenerateUUID returns a random UUIDv4-formatted string
func GenerateUUID() string {
	b := make([]byte, 16)
	rand.Read(b)
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// NormalizeAngle wraps angle to [-PI, PI]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// round1 rounds to one decimal place for compact snapshots
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// randFloat returns a random float64 in [0, 1) using a xorshift generator
// seeded from crypto/rand. Not for security-sensitive use.
var randSrc uint64

func randFloat() float64 {
	randSrc ^= randSrc << 13
	randSrc ^= randSrc >> 7
	randSrc ^= randSrc << 17
	if randSrc == 0 {
		randSrc = 1
	}
	return float64(randSrc%10000) / 10000.0
}

// randRange returns a random float64 in [lo, hi)
func randRange(lo, hi float64) float64 {
	return lo + randFloat()*(hi-lo)
}

func init() {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	for i, v := range b {
		randSrc |= uint64(v) << (uint(i) * 8)
	}
	if randSrc == 0 {
		randSrc = 1
	}
}

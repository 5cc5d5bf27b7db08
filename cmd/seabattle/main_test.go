package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/seabattle/internal/config"
)

func TestNewSource_SeededIsReproducible(t *testing.T) {
	cfg := config.GameConfig{Source: config.SourceSeeded, Seed: 7}
	a, b := newSource(cfg), newSource(cfg)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Intn(10), b.Intn(10))
		assert.Equal(t, a.Bool(), b.Bool())
	}
}

func TestNewSource_CryptoInRange(t *testing.T) {
	src := newSource(config.GameConfig{Source: config.SourceCrypto})
	for i := 0; i < 100; i++ {
		n := src.Intn(8)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 8)
	}
}

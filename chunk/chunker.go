// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chunk

import (
	"errors"
	"regexp"
	"strings"
)

// Config controls fragment sizing.
type Config struct {
	// MaxSize is the maximum fragment length in runes.
	MaxSize int

	// Overlap is how many runes adjacent windows share, so a concept
	// spanning a window boundary survives in at least one fragment.
	Overlap int

	// MinLength is the smallest fragment worth keeping; shorter fragments
	// are discarded as noise.
	MinLength int
}

// DefaultConfig returns the production chunking parameters.
func DefaultConfig() Config {
	return Config{
		MaxSize:   2000,
		Overlap:   200,
		MinLength: 20,
	}
}

// Validate checks the sizing constraints: MaxSize > Overlap >= 0 and a
// positive minimum length.
func (c Config) Validate() error {
	if c.MaxSize <= 0 {
		return errors.New("chunk config: MaxSize must be positive")
	}
	if c.Overlap < 0 {
		return errors.New("chunk config: Overlap cannot be negative")
	}
	if c.Overlap >= c.MaxSize {
		return errors.New("chunk config: Overlap must be smaller than MaxSize")
	}
	if c.MinLength <= 0 {
		return errors.New("chunk config: MinLength must be positive")
	}
	return nil
}

var (
	paragraphBreak = regexp.MustCompile(`\n{2,}`)
	sentenceBreak  = regexp.MustCompile(`[.!?]+\s+`)
)

// Split segments text into bounded fragments using a three-tier fallback:
//
//  1. Paragraph tier: split on runs of blank lines. Paragraph boundaries
//     preserve the most semantic coherence for downstream embedding.
//  2. Sentence tier: used only when no paragraph clears the minimum length.
//  3. Fixed-size tier: a raw sliding window, guaranteeing coverage for
//     degenerate input with no usable boundaries at all.
//
// Fragments longer than MaxSize are windowed with the configured overlap.
// Empty or whitespace-only input yields zero fragments; the caller decides
// what that means (for the pipeline it is an extraction outcome, not a
// chunking failure).
func Split(text string, cfg Config) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	if paragraphs := fragmentsAboveMin(paragraphBreak.Split(trimmed, -1), cfg); len(paragraphs) > 0 {
		return windowAll(paragraphs, cfg)
	}

	if sentences := fragmentsAboveMin(sentenceBreak.Split(trimmed, -1), cfg); len(sentences) > 0 {
		return windowAll(sentences, cfg)
	}

	return window([]rune(trimmed), cfg)
}

// fragmentsAboveMin trims the candidate fragments and keeps those that
// clear the minimum length. The tier wins if any survive.
func fragmentsAboveMin(candidates []string, cfg Config) [][]rune {
	kept := make([][]rune, 0, len(candidates))
	for _, c := range candidates {
		t := strings.TrimSpace(c)
		if t == "" {
			continue
		}
		runes := []rune(t)
		if len(runes) >= cfg.MinLength {
			kept = append(kept, runes)
		}
	}
	return kept
}

func windowAll(fragments [][]rune, cfg Config) []string {
	var out []string
	for _, f := range fragments {
		out = append(out, window(f, cfg)...)
	}
	return out
}

// window emits a fragment whole when it fits, otherwise slides a MaxSize
// window advancing by MaxSize-Overlap. Each emitted piece is trimmed, and
// pieces below MinLength are dropped.
func window(runes []rune, cfg Config) []string {
	if len(runes) <= cfg.MaxSize {
		piece := strings.TrimSpace(string(runes))
		if len([]rune(piece)) >= cfg.MinLength {
			return []string{piece}
		}
		return nil
	}

	step := cfg.MaxSize - cfg.Overlap
	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + cfg.MaxSize
		if end > len(runes) {
			end = len(runes)
		}

		piece := strings.TrimSpace(string(runes[start:end]))
		if len([]rune(piece)) >= cfg.MinLength {
			out = append(out, piece)
		}

		if end == len(runes) {
			break
		}
	}
	return out
}

/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var errQuestionsExhausted = errors.New("question bank exhausted")

// Answer is compared as a string. Numeric values in the bank or from clients
// are normalized to their decimal form, so 2 and "2" match.
type Answer string

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Answer(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("answer must be a string or number: %w", err)
	}
	*a = Answer(normalizeNumber(n.String()))

	return nil
}

func (a *Answer) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: answer must be a scalar", node.Line)
	}

	switch node.Tag {
	case "!!int", "!!float":
		*a = Answer(normalizeNumber(node.Value))
	case "!!null":
		*a = ""
	default:
		*a = Answer(node.Value)
	}

	return nil
}

func normalizeNumber(s string) string {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return s
}

type Question struct {
	Prompt  string   `json:"prompt" yaml:"prompt"`
	Choices []string `json:"choices" yaml:"choices"`
	Answer  Answer   `json:"answer" yaml:"answer"`
	Enabled bool     `json:"enabled" yaml:"enabled"`
}

// QuestionSource supplies trivia items on demand.
type QuestionSource interface {
	Next() (Question, error)
}

// Bank draws questions without replacement from a fixed pool.
//
// With ExcludeLast set, the random index is taken from [0, n-1), which never
// selects the final remaining item unless it is the only one left. This is
// the historical draw range and is kept as the default.
type Bank struct {
	ExcludeLast bool

	pool []Question
	rng  *rand.Rand
}

func newBank(pool []Question, excludeLast bool, rng *rand.Rand) *Bank {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Bank{
		ExcludeLast: excludeLast,
		pool:        append([]Question(nil), pool...),
		rng:         rng,
	}
}

func loadBank(path string, excludeLast bool) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}

	pool, err := parseQuestions(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("parse question bank %s: %w", path, err)
	}

	return newBank(pool, excludeLast, nil), nil
}

func parseQuestions(ext string, data []byte) ([]Question, error) {
	var pool []Question

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &pool); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &pool); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported question bank format %q", ext)
	}

	return pool, nil
}

// Remaining reports how many items, enabled or not, are left in the pool.
func (b *Bank) Remaining() int {
	return len(b.pool)
}

func (b *Bank) span(n int) int {
	if b.ExcludeLast && n > 1 {
		return n - 1
	}
	return n
}

// Next removes and returns a random enabled question. Disabled items drawn
// along the way are discarded.
func (b *Bank) Next() (Question, error) {
	for len(b.pool) > 0 {
		i := b.rng.IntN(b.span(len(b.pool)))

		q := b.pool[i]
		b.pool = append(b.pool[:i], b.pool[i+1:]...)

		if q.Enabled {
			return q, nil
		}
	}

	return Question{}, errQuestionsExhausted
}

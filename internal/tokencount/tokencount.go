// Package tokencount wraps a process-lifetime BPE tokenizer used purely
// for before/after statistics — it never gates a transform's success.
package tokencount

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	once sync.Once
	enc  *tiktoken.Tiktoken
	err  error
)

func get() (*tiktoken.Tiktoken, error) {
	once.Do(func() {
		enc, err = tiktoken.GetEncoding("cl100k_base")
	})
	return enc, err
}

// Count returns the number of cl100k_base tokens in text. A tokenizer
// initialization failure yields a zero count rather than propagating an
// error — token stats are advisory, never load-bearing for a transform.
func Count(text []byte) int {
	tk, err := get()
	if err != nil || tk == nil {
		return 0
	}
	return len(tk.Encode(string(text), nil, nil))
}

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChooseDevice(t *testing.T) {
	t.Parallel()

	names := []string{"AT Translated Set 2 keyboard", "Logitech USB Keyboard"}
	tests := []struct {
		name   string
		input  string
		index  int
		ok     bool
		prompt []string
	}{
		{name: "valid index", input: "1\n", index: 1, ok: true},
		{name: "quit", input: "q\n", ok: false},
		{name: "quit upper case word", input: "Quit\n", ok: false},
		{name: "end of input", input: "", ok: false},
		{name: "retry after garbage", input: "abc\n0\n", index: 0, ok: true, prompt: []string{"Not a valid integer"}},
		{name: "retry after range", input: "7\n-1\n1\n", index: 1, ok: true, prompt: []string{"Index outside of range"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			index, ok := chooseDevice(strings.NewReader(tt.input), &out, names)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.index, index)
			}
			assert.Contains(t, out.String(), "0: AT Translated Set 2 keyboard")
			assert.Contains(t, out.String(), "1: Logitech USB Keyboard")
			for _, p := range tt.prompt {
				assert.Contains(t, out.String(), p)
			}
		})
	}
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// chooseDevice prompts on out for one of names until a valid index or a quit
// command is read from in. End of input counts as quit.
//
// Parameters:
//   - in: Source of user answers, one per line.
//   - out: Destination for the prompt.
//   - names: Display names of the candidate devices, in index order.
//
// Returns:
//   - int: The selected index.
//   - bool: False if the user quit.
func chooseDevice(in io.Reader, out io.Writer, names []string) (int, bool) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintln(out, "Select one of the following:")
		for i, n := range names {
			fmt.Fprintf(out, "%d: %s\n", i, n)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Enter id or Q to quit: ")

		if !scanner.Scan() {
			return 0, false
		}
		answer := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(strings.ToLower(answer), "q") {
			return 0, false
		}
		index, err := strconv.Atoi(answer)
		switch {
		case err != nil:
			fmt.Fprintln(out, "Not a valid integer")
		case index < 0 || index >= len(names):
			fmt.Fprintln(out, "Index outside of range")
		default:
			return index, true
		}
		fmt.Fprint(out, "\n\n")
	}
}

package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/joseph-ayodele/cardscan/internal/output"
)

// Confirm returns an output.Confirm that asks on out and reads a y/n answer
// from in. An empty answer or end of input means no.
func Confirm(in io.Reader, out io.Writer) output.Confirm {
	reader := bufio.NewReader(in)
	return func(question string) (bool, error) {
		fmt.Fprintf(out, "%s [y/N]: ", question)
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return false, fmt.Errorf("read answer: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

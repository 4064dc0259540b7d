package output

import (
	"fmt"
	"strings"
)

// OverwritePolicy decides what happens when contacts.vcf already exists.
type OverwritePolicy int

const (
	PolicyPrompt OverwritePolicy = iota
	PolicyAbort
	PolicyOverwrite
	PolicyAppend
)

func (p OverwritePolicy) String() string {
	switch p {
	case PolicyPrompt:
		return "prompt"
	case PolicyAbort:
		return "abort"
	case PolicyOverwrite:
		return "overwrite"
	case PolicyAppend:
		return "append"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy maps a flag value onto a policy.
func ParsePolicy(s string) (OverwritePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "prompt":
		return PolicyPrompt, nil
	case "abort":
		return PolicyAbort, nil
	case "overwrite":
		return PolicyOverwrite, nil
	case "append":
		return PolicyAppend, nil
	}
	return PolicyPrompt, fmt.Errorf("unknown overwrite policy %q (want prompt|overwrite|append|abort)", s)
}

// Confirm asks a yes/no question. Only PolicyPrompt calls it.
type Confirm func(question string) (bool, error)

package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/cardscan/constants"
)

func TestConfirmAnswers(t *testing.T) {
	for in, want := range map[string]bool{
		"y\n":   true,
		"YES\n": true,
		"n\n":   false,
		"\n":    false,
		"":      false,
		"yes":   true,
	} {
		var out bytes.Buffer
		got, err := Confirm(strings.NewReader(in), &out)("contacts.vcf already exists. Delete it?")
		require.NoError(t, err, "%q", in)
		assert.Equal(t, want, got, "%q", in)
		assert.Equal(t, "contacts.vcf already exists. Delete it? [y/N]: ", out.String())
	}
}

func TestReporterSummary(t *testing.T) {
	DisableColor()

	var out bytes.Buffer
	r := NewReporter(&out, false)
	r.RunStarted(2)
	r.PageStage(0, constants.PageStageRendered)
	r.RetryWaiting(1, 10, 10*time.Second)
	r.PageStage(0, constants.PageStageWritten)
	r.RunFinished(2, nil)
	assert.Equal(t, "✓ 2 contact(s) written\n", out.String())

	out.Reset()
	r = NewReporter(&out, false)
	r.RunFinished(1, errors.New("page 1: boom"))
	assert.Equal(t, "⚠ 1 contact(s) written before the run stopped\n", out.String())
}

func TestReporterProgressBarAdvances(t *testing.T) {
	DisableColor()

	var out bytes.Buffer
	r := NewReporter(&out, true)
	r.RunStarted(1)
	r.PageStage(0, constants.PageStageRendered)
	r.PageStage(0, constants.PageStageOriented)
	r.PageStage(0, constants.PageStageExtracted)
	r.PageStage(0, constants.PageStageWritten)
	r.RunFinished(1, nil)

	assert.Contains(t, out.String(), "1/1")
	assert.Contains(t, out.String(), "✓ 1 contact(s) written")
}

package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

type dumpTarget struct {
	Name  string
	Count int
}

func newTestDiagnostics(level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	t := NewDiagnosticSystem(level)
	var out, errOut bytes.Buffer
	t.SetOutput(&out, &errOut)
	t.useColors = false
	t.SetShowTime(false)
	return t, &out, &errOut
}

func TestDiagnosticLevels(t *testing.T) {
	d, out, errOut := newTestDiagnostics(DiagnosticInfo)

	d.Error("broken %d", 1)
	d.Warn("careful")
	d.Info("hello")
	d.Verbose("hidden")
	d.Debug("hidden")

	assert.Equal(t, "[ERROR] broken 1\n", errOut.String())
	assert.Contains(t, out.String(), "[WARN] careful\n")
	assert.Contains(t, out.String(), "[INFO] hello\n")
	assert.NotContains(t, out.String(), "hidden")
}

func TestDiagnosticSilent(t *testing.T) {
	d, out, errOut := newTestDiagnostics(DiagnosticSilent)

	d.Error("x")
	d.Raw("y")
	d.Info("z")

	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestDiagnosticDump(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticDebug)

	d.Dump("target", dumpTarget{Name: "Load", Count: 2})
	assert.Contains(t, out.String(), "[DEBUG] target:")
	assert.Contains(t, out.String(), `Name: "Load"`)
}

func TestDiagnosticIndentAndList(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)

	d.Indent()
	d.List("item %s", "one")
	d.Unindent()
	d.Unindent()
	d.List("item %s", "two")

	assert.Equal(t, "  - item one\n- item two\n", out.String())
}

package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	bwerrors "github.com/wippyai/bitwire-runtime/errors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestEncodeCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "int8 under true",
			args: []string{"encode", "--tag=true", "--value=-5"},
			want: "alternative: valueA\nhex: fb\nbits: 8\n",
		},
		{
			name: "int16 under false",
			args: []string{"encode", "--tag=false", "--value=300"},
			want: "alternative: valueB\nhex: 012c\nbits: 16\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("execute() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeCmd_OutOfRange(t *testing.T) {
	_, err := execute(t, "encode", "--tag=true", "--value=200")
	if !errors.Is(err, bwerrors.ErrValidation) {
		t.Errorf("error = %v, want validation", err)
	}
}

func TestDecodeCmd(t *testing.T) {
	got, err := execute(t, "decode", "--tag=false", "--hex=012cff")
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	want := "alternative: valueB\nvalue: 300\nbits consumed: 16\ntrailing bits: 8\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeCmd_LinearMemory(t *testing.T) {
	got, err := execute(t, "decode", "--tag=false", "--hex=012c", "--linear-pages=1")
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if !strings.Contains(got, ": 01 00 2c 01\n") {
		t.Errorf("canonical image missing from output:\n%s", got)
	}
}

func TestDecodeCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		kind error
	}{
		{"underrun", []string{"decode", "--tag=false", "--hex=01"}, bwerrors.ErrStream},
		{"bad pages", []string{"decode", "--hex=fb", "--linear-pages=40000"}, bwerrors.ErrAllocation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); !errors.Is(err, tt.kind) {
				t.Errorf("error = %v, want %v", err, tt.kind)
			}
		})
	}

	if _, err := execute(t, "decode", "--hex=zz"); err == nil {
		t.Error("expected hex parse error")
	}
}

func TestDescribeCmd(t *testing.T) {
	got, err := execute(t, "describe")
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	for _, want := range []string{
		"variant bool-param-choice {",
		"value-a(s8),",
		"size: 4\n",
		"payload offset: 2\n",
		"tag true selects valueA: 8 bits on the wire (1 bytes)",
		"tag false selects valueB: 16 bits on the wire (2 bytes)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("describe output missing %q:\n%s", want, got)
		}
	}
}

func TestInspectModel(t *testing.T) {
	m := newInspectModel()
	if m.enc.bits != 8 {
		t.Fatalf("initial bits = %d, want 8", m.enc.bits)
	}

	m.input.SetValue("300")
	m.recompute()
	if !errors.Is(m.err, bwerrors.ErrValidation) {
		t.Errorf("300 under tag true: err = %v, want validation", m.err)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.tag || m.err != nil {
		t.Fatalf("after tab: tag=%v err=%v", m.tag, m.err)
	}
	if diff := cmp.Diff([]byte{0x01, 0x2C}, m.enc.data); diff != "" {
		t.Errorf("encoding mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(m.View(), "01 2c") {
		t.Errorf("view does not show the encoding:\n%s", m.View())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Error("esc should quit")
	}
}

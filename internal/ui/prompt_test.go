package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrompterConfirm(t *testing.T) {
	tests := map[string]struct {
		input string
		want  bool
	}{
		"lowercase y":   {input: "y\n", want: true},
		"full yes":      {input: "Yes\n", want: true},
		"n declines":    {input: "n\n", want: false},
		"anything else": {input: "sure\n", want: false},
		"no newline":    {input: "y", want: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.Confirm("Upload?")
			if err != nil {
				t.Fatalf("Confirm() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "Upload?\n(y/n)\n> ") {
				t.Errorf("unexpected prompt output %q", out.String())
			}
		})
	}
}

func TestPrompterConfirm_ClosedInput(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})
	if _, err := p.Confirm("Upload?"); err == nil {
		t.Error("expected error when input is closed")
	}
}

func TestPrompterReadPassword_NonTerminal(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("hunter2\nhunter2\n"), &out)

	first, err := p.ReadPassword("Password")
	if err != nil {
		t.Fatalf("ReadPassword() error = %v", err)
	}
	second, err := p.ReadPassword("Confirm password")
	if err != nil {
		t.Fatalf("ReadPassword() error = %v", err)
	}
	if first != "hunter2" || second != "hunter2" {
		t.Errorf("got %q and %q, want hunter2 twice", first, second)
	}
}

func TestConfirmFunc(t *testing.T) {
	var asked []string
	c := ConfirmFunc(func(q string) (bool, error) {
		asked = append(asked, q)
		return true, nil
	})

	ok, err := c.Confirm("one")
	if err != nil || !ok {
		t.Fatalf("Confirm() = %v, %v", ok, err)
	}
	if len(asked) != 1 || asked[0] != "one" {
		t.Errorf("asked = %v", asked)
	}

	if ok, _ := AlwaysNo.Confirm("x"); ok {
		t.Error("AlwaysNo confirmed")
	}
	if ok, _ := AlwaysYes.Confirm("x"); !ok {
		t.Error("AlwaysYes declined")
	}
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary([]SummaryRow{
		{Kind: "saved resources", Downloaded: 12, Uploaded: 10, Skipped: 2},
	})

	for _, want := range []string{"Resource", "Saved Resources", "12", "10"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/pagedeps/pagedeps/pkg/deps"
)

func buildRegistry(t *testing.T, closed bool) *deps.Registry {
	t.Helper()
	reg := deps.NewRegistry()
	jq, err := deps.New("jquery", nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ui, err := deps.New("jquery.ui", deps.ParseHandles("jquery"), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := reg.Admit(jq, ui); err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if closed {
		if err := reg.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}
	return reg
}

func TestToDOT(t *testing.T) {
	dot, err := ToDOT([]Group{{Name: "lib", Registry: buildRegistry(t, true)}})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}

	for _, want := range []string{
		"digraph pagedeps {",
		`label="lib";`,
		`"lib/jquery" [label="jquery"];`,
		`"lib/jquery.ui" [label="jquery.ui"];`,
		`"lib/jquery.ui" -> "lib/jquery";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTMultipleGroups(t *testing.T) {
	dot, err := ToDOT([]Group{
		{Name: "lib", Registry: buildRegistry(t, true)},
		{Name: "css", Registry: buildRegistry(t, true)},
	})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}
	if !strings.Contains(dot, "subgraph cluster_0") || !strings.Contains(dot, "subgraph cluster_1") {
		t.Errorf("DOT missing clusters:\n%s", dot)
	}
	// Same handle in two groups must produce distinct node IDs.
	if !strings.Contains(dot, `"lib/jquery"`) || !strings.Contains(dot, `"css/jquery"`) {
		t.Errorf("DOT missing group-prefixed nodes:\n%s", dot)
	}
}

func TestToDOTOpenRegistry(t *testing.T) {
	_, err := ToDOT([]Group{{Name: "lib", Registry: buildRegistry(t, false)}})
	if !errors.Is(err, deps.ErrRegistryOpen) {
		t.Errorf("ToDOT error = %v, want ErrRegistryOpen", err)
	}
}

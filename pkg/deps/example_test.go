package deps_test

import (
	"fmt"

	"github.com/pagedeps/pagedeps/pkg/deps"
)

func ExampleRegistry_Summon() {
	// Declarations can arrive in any order; jquery.ui names jquery
	// before jquery itself is admitted.
	ui, _ := deps.New("jquery.ui", deps.ParseHandles("jquery"), nil)
	jq, _ := deps.New("jquery", nil, nil)
	deform, _ := deps.New("deform", deps.ParseHandles("jquery, jquery.ui"), nil)

	reg := deps.NewRegistry()
	_ = reg.Admit(ui, jq, deform)
	_ = reg.Close()

	ordered, _ := reg.Summon("deform")
	for _, d := range ordered {
		fmt.Println(d.Handle())
	}
	// Output:
	// jquery
	// jquery.ui
	// deform
}

func ExampleRegistry_Summon_requestOrder() {
	a, _ := deps.New("a", nil, nil)
	m, _ := deps.New("m", deps.ParseHandles("a"), nil)
	b, _ := deps.New("b", nil, nil)

	reg := deps.NewRegistry()
	_ = reg.Admit(a, m, b)
	_ = reg.Close()

	// Independent subgraphs keep the order they were requested in:
	// b has no relation to m, so it stays first.
	ordered, _ := reg.Summon("m, b")
	fmt.Println(ordered)
	// Output:
	// [b a m]
}

func ExampleParseHandles() {
	fmt.Println(deps.ParseHandles("jquery, jquery.ui,deform"))
	// Output:
	// [jquery jquery.ui deform]
}

package graph_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/actionviz/pkg/graph"
)

func ExampleNormalize() {
	// A version 2 action graph: run app:build after syncing the project
	data := `{"graph": {
		"nodes": [
			{"action": "sync-project", "params": {"projectId": "app"}},
			{"action": "run-task", "params": {"target": "app:build"}}
		],
		"edges": [[1, 0, "production"]]
	}}`

	p, err := graph.ReadPayload(strings.NewReader(data))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	elems, err := graph.Normalize(p)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	for _, n := range elems.Nodes {
		fmt.Printf("%s %s [%s]\n", n.ID, n.Label, n.Category)
	}
	for _, e := range elems.Edges {
		fmt.Printf("%s (%s)\n", e.ID, e.Label)
	}
	// Output:
	// 0 SyncProject(app) [sync-project]
	// 1 RunTask(app:build) [run-task]
	// 1 -> 0 (prod)
}

func ExampleClassifyLabel() {
	for _, label := range []string{"RunTask(app:build)", "SetupToolchain(node)", "SetupProto(0.40.1)"} {
		fmt.Println(label, "=>", graph.ClassifyLabel(label))
	}
	// Output:
	// RunTask(app:build) => run-task
	// SetupToolchain(node) => setup-toolchain
	// SetupProto(0.40.1) => unknown
}

func ExampleWriteElements() {
	p, _ := graph.Decode([]byte(`{"nodes": [{"id": 1, "label": "SyncWorkspace"}], "edges": []}`))
	elems, _ := graph.Normalize(p)

	if err := graph.WriteElements(elems, os.Stdout); err != nil {
		fmt.Println("Error:", err)
	}
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "1",
	//       "label": "SyncWorkspace",
	//       "type": "sync-workspace"
	//     }
	//   ],
	//   "edges": []
	// }
}

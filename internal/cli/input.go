package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/actionviz/pkg/errors"
	"github.com/matzehuels/actionviz/pkg/graph"
	"github.com/matzehuels/actionviz/pkg/httputil"
)

// stdinArg names standard input as the payload source.
const stdinArg = "-"

// stdin is swapped out in tests.
var stdin io.Reader = os.Stdin

// input is a payload read from a file, stdin or a URL.
type input struct {
	name string // file path, URL or "-"
	data []byte
}

// isFile reports whether the input came from a local file.
func (in input) isFile() bool {
	return in.name != stdinArg && !httputil.IsURL(in.name)
}

// base returns the output path stem for derived files: the input path
// without its extension, or "graph" for stdin and URLs.
func (in input) base() string {
	if !in.isFile() {
		return "graph"
	}
	return strings.TrimSuffix(in.name, filepath.Ext(in.name))
}

// readInput reads the payload named by arg.
func readInput(ctx context.Context, arg string) (input, error) {
	logger := loggerFromContext(ctx)

	switch {
	case arg == stdinArg:
		data, err := io.ReadAll(io.LimitReader(stdin, httputil.MaxPayloadBytes))
		if err != nil {
			return input{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return input{name: arg, data: data}, nil

	case httputil.IsURL(arg):
		logger.Debug("fetching payload", "url", arg)
		data, err := httputil.Fetch(ctx, nil, arg)
		if err != nil {
			return input{}, err
		}
		return input{name: arg, data: data}, nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		if os.IsNotExist(err) {
			return input{}, errors.New(errors.ErrCodeFileNotFound, "file not found: %s", arg)
		}
		return input{}, err
	}
	return input{name: arg, data: data}, nil
}

// readElements reads and normalizes the payload named by arg.
func readElements(ctx context.Context, arg string) (input, graph.Payload, graph.Elements, error) {
	in, err := readInput(ctx, arg)
	if err != nil {
		return input{}, nil, graph.Elements{}, err
	}
	p, err := graph.Decode(in.data)
	if err != nil {
		return input{}, nil, graph.Elements{}, err
	}
	elements, err := graph.Normalize(p)
	if err != nil {
		return input{}, nil, graph.Elements{}, err
	}
	loggerFromContext(ctx).Debug("loaded payload", "input", in.name, "version", p.Version(),
		"nodes", len(elements.Nodes), "edges", len(elements.Edges))
	return in, p, elements, nil
}

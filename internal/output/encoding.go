package output

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/htmlindex"
)

// TranscodingWriter wraps w so that everything written through it is
// transcoded from UTF-8 into the named encoding before hitting the
// underlying writer. An empty or UTF-8 name returns w unchanged; a name
// htmlindex does not know is an error.
func TranscodingWriter(w io.Writer, name string) (io.Writer, error) {
	if name == "" || isUTF8Name(name) {
		return w, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("output: unknown encoding %q: %w", name, err)
	}
	return enc.NewEncoder().Writer(w), nil
}

func isUTF8Name(name string) bool {
	switch name {
	case "utf-8", "utf8", "UTF-8", "UTF8":
		return true
	default:
		return false
	}
}

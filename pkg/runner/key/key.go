// Package key prints the glyph legend.
package key

import (
	"context"

	"tableflip.dev/taskflow/pkg/printers"
)

// Key prints every status, priority and journal glyph with its meaning.
type Key struct{}

func (k *Key) Do(_ context.Context) error {
	pp := printers.PrettyPrint{}
	pp.NewLine()
	pp.Legend()
	return nil
}

package main

import (
	"fmt"
	"runtime"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/regionkit/layout"
	"github.com/joshuapare/regionkit/region"
	"github.com/joshuapare/regionkit/regiontype"
)

var sizePrinter = message.NewPrinter(language.English)

// formatSize renders n in the largest binary unit that divides it, falling
// back to grouped bytes.
func formatSize(n uint64) string {
	units := []struct {
		shift uint
		name  string
	}{
		{40, "TiB"}, {30, "GiB"}, {20, "MiB"}, {10, "KiB"},
	}
	for _, u := range units {
		if n >= 1<<u.shift && n%(1<<u.shift) == 0 {
			return sizePrinter.Sprintf("%d %s", n>>u.shift, u.name)
		}
	}
	return sizePrinter.Sprintf("%d bytes", n)
}

func parseAddr(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return v, nil
}

func treeByName(l *layout.Layout, name string) (*region.Tree, error) {
	tree, ok := l.Trees()[name]
	if !ok {
		return nil, fmt.Errorf("unknown tree %q (want one of %v)", name, layout.TreeNames)
	}
	return tree, nil
}

// regionJSON is the JSON shape of a region.
type regionJSON struct {
	Address     string `json:"address"`
	LastAddress string `json:"last_address"`
	Size        uint64 `json:"size"`
	Type        string `json:"type"`
	TypeID      string `json:"type_id"`
	Attributes  uint32 `json:"attributes"`
	Pair        string `json:"pair,omitempty"`
}

func toJSON(r *region.Region) regionJSON {
	out := regionJSON{
		Address:     fmt.Sprintf("0x%X", r.Address()),
		LastAddress: fmt.Sprintf("0x%X", r.LastAddress()),
		Size:        r.Size(),
		Type:        regiontype.Name(r.Type()),
		TypeID:      fmt.Sprintf("0x%08X", r.Type()),
		Attributes:  r.Attributes(),
	}
	if r.PairAddress() != region.UnsetPairAddress {
		out.Pair = fmt.Sprintf("0x%X", r.PairAddress())
	}
	return out
}

// printRegion writes one aligned text row.
func printRegion(r *region.Region) {
	pair := "-"
	if r.PairAddress() != region.UnsetPairAddress {
		pair = fmt.Sprintf("0x%016X", r.PairAddress())
	}
	printInfo("  0x%016X-0x%016X  %12s  %-40s attr=%-2d pair=%s\n",
		r.Address(), r.LastAddress(), formatSize(r.Size()), regiontype.Name(r.Type()), r.Attributes(), pair)
}

// catchFatal runs fn and turns a fatal region panic into an error.
func catchFatal(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		e, ok := r.(error)
		if _, rt := r.(runtime.Error); !ok || rt {
			panic(r)
		}
		err = e
	}()
	fn()
	return nil
}

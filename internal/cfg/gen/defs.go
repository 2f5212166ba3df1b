package gen

import (
	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/tools/container/intsets"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/ir"
)

// DefSites records, per variable, the blocks holding a definition of it.
// Names keep the order of their first definition.
type DefSites struct {
	names []string
	sites map[string]*intsets.Sparse
	used  mapset.Set[string]
}

func NewDefSites() *DefSites {
	return &DefSites{
		sites: make(map[string]*intsets.Sparse),
		used:  mapset.NewThreadUnsafeSet[string](),
	}
}

// Add records a definition of name in block.
func (d *DefSites) Add(name string, block ir.BlockID) {
	s, ok := d.sites[name]
	if !ok {
		s = new(intsets.Sparse)
		d.sites[name] = s
		d.names = append(d.names, name)
	}
	s.Insert(int(block))
}

// Use records a read of name.
func (d *DefSites) Use(name string) {
	d.used.Add(name)
}

// Names returns the defined variables in first-definition order.
func (d *DefSites) Names() []string {
	return d.names
}

// Blocks returns the def sites of name. The set is shared.
func (d *DefSites) Blocks(name string) *intsets.Sparse {
	if s, ok := d.sites[name]; ok {
		return s
	}
	return new(intsets.Sparse)
}

// Undefined returns the variables that are read but never defined, sorted.
func (d *DefSites) Undefined() []string {
	var out []string
	for _, name := range mapset.Sorted(d.used) {
		if _, ok := d.sites[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

// remap rewrites block ids after the graph dropped unreachable blocks.
func (d *DefSites) remap(mapping []ir.BlockID) {
	for _, name := range d.names {
		var next intsets.Sparse
		for _, old := range d.sites[name].AppendTo(nil) {
			if id := mapping[old]; id != ir.InvalidBlock {
				next.Insert(int(id))
			}
		}
		d.sites[name].Copy(&next)
	}
}

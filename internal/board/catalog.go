package board

import (
	"fmt"
	"slices"
)

// ResourceSpec describes a spawnable resource.
type ResourceSpec struct {
	ID        string
	Name      string
	Swappable bool
	Value     int
}

// TowerSpec describes one level of a tower chain.
type TowerSpec struct {
	ID        string
	Name      string
	Swappable bool
}

// ChainSpec is a resource and the towers it evolves into, level 1 first.
type ChainSpec struct {
	Resource ResourceSpec
	Towers   []TowerSpec
}

// TileDef is the static definition behind a tile id.
type TileDef struct {
	ID        string
	Name      string
	Kind      Kind
	Chain     string // id of the resource that heads the chain
	Level     int    // 0 for the resource, 1..MaxLevel for towers
	MaxLevel  int
	Swappable bool
	Value     int
}

// Catalog is the read-only definitions provider.
type Catalog struct {
	defs   map[string]TileDef
	chains map[string][]string
	order  []string
	pool   []string
}

// NewCatalog validates chains and builds the lookup tables. pool lists the
// resource ids that refills may spawn; empty means every resource.
func NewCatalog(chains []ChainSpec, pool []string) (*Catalog, error) {
	if len(chains) == 0 {
		return nil, fmt.Errorf("%w: no tile chains", ErrInvalidCatalog)
	}
	c := &Catalog{
		defs:   make(map[string]TileDef),
		chains: make(map[string][]string),
	}
	for _, ch := range chains {
		res := ch.Resource
		if res.ID == "" {
			return nil, fmt.Errorf("%w: resource with empty id", ErrInvalidCatalog)
		}
		if len(ch.Towers) == 0 {
			return nil, fmt.Errorf("%w: resource %q has no towers", ErrInvalidCatalog, res.ID)
		}
		if err := c.add(TileDef{
			ID:        res.ID,
			Name:      res.Name,
			Kind:      KindResource,
			Chain:     res.ID,
			MaxLevel:  len(ch.Towers),
			Swappable: res.Swappable,
			Value:     res.Value,
		}); err != nil {
			return nil, err
		}
		ids := make([]string, len(ch.Towers))
		for i, tw := range ch.Towers {
			if tw.ID == "" {
				return nil, fmt.Errorf("%w: tower %d of %q has empty id", ErrInvalidCatalog, i+1, res.ID)
			}
			if err := c.add(TileDef{
				ID:        tw.ID,
				Name:      tw.Name,
				Kind:      KindTower,
				Chain:     res.ID,
				Level:     i + 1,
				MaxLevel:  len(ch.Towers),
				Swappable: tw.Swappable,
			}); err != nil {
				return nil, err
			}
			ids[i] = tw.ID
		}
		c.chains[res.ID] = ids
		c.order = append(c.order, res.ID)
	}

	if len(pool) == 0 {
		c.pool = slices.Clone(c.order)
		return c, nil
	}
	for _, id := range pool {
		def, ok := c.defs[id]
		if !ok || def.Kind != KindResource {
			return nil, fmt.Errorf("%w: spawn pool entry %q is not a resource", ErrInvalidCatalog, id)
		}
	}
	c.pool = slices.Clone(pool)
	return c, nil
}

func (c *Catalog) add(def TileDef) error {
	if _, dup := c.defs[def.ID]; dup {
		return fmt.Errorf("%w: duplicate tile id %q", ErrInvalidCatalog, def.ID)
	}
	c.defs[def.ID] = def
	return nil
}

// Lookup returns the definition of id.
func (c *Catalog) Lookup(id string) (TileDef, error) {
	def, ok := c.defs[id]
	if !ok {
		return TileDef{}, &UnknownTileError{ID: id}
	}
	return def, nil
}

// Resources returns resource ids in definition order.
func (c *Catalog) Resources() []string { return slices.Clone(c.order) }

// SpawnPool returns the resources refills draw from.
func (c *Catalog) SpawnPool() []string { return slices.Clone(c.pool) }

// Chain returns the tower ids of a resource's chain, level 1 first.
func (c *Catalog) Chain(resource string) []string {
	return slices.Clone(c.chains[resource])
}

// Verify checks that a cell agrees with its definition.
func (c *Catalog) Verify(cell Cell) error {
	if cell.IsEmpty() {
		return nil
	}
	def, err := c.Lookup(cell.ID)
	if err != nil {
		return err
	}
	if def.Kind != cell.Kind || def.Level != cell.Level {
		return fmt.Errorf("%w: %v defined as %v level %d", ErrInconsistent, cell, def.Kind, def.Level)
	}
	return nil
}

// VerifyBoard checks every occupied cell of b.
func (c *Catalog) VerifyBoard(b *Board) error {
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			at := b.coord(x, y)
			if err := c.Verify(b.Get(at)); err != nil {
				return unknownAt(err, at)
			}
		}
	}
	return nil
}

// Evolve returns what a matched run of cell becomes. A resource becomes
// the level 1 tower of its chain and a tower below the top level becomes
// the next level. A top-level tower has no target and ok is false.
func (c *Catalog) Evolve(cell Cell) (next Cell, ok bool, err error) {
	if cell.IsEmpty() {
		return Empty(), false, fmt.Errorf("%w: cannot evolve an empty cell", ErrInconsistent)
	}
	if err := c.Verify(cell); err != nil {
		return Empty(), false, err
	}
	def := c.defs[cell.ID]
	towers := c.chains[def.Chain]
	if def.Level >= def.MaxLevel {
		return Empty(), false, nil
	}
	return Tower(towers[def.Level], def.Level+1), true, nil
}

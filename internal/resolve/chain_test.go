package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/marquee/internal/ir"
)

func TestKeyed_ByEntityNormalizesUUID(t *testing.T) {
	k := NewKeyed("player", "entity", map[string][]ir.Entry{
		"0F8FAD5B-D9CB-469F-A165-70867728950E": {ir.Layered{Template: tpl("mine")}},
	})

	layer := k.LayerFor("0f8fad5b-d9cb-469f-a165-70867728950e", nil)
	assert.Equal(t, "player", layer.Name)
	assert.Len(t, layer.Entries, 1)

	layer = k.LayerFor("{0f8fad5b-d9cb-469f-a165-70867728950e}", nil)
	assert.Len(t, layer.Entries, 1, "braced form is the same id")

	assert.Empty(t, k.LayerFor("someone-else", nil).Entries)
}

func TestKeyed_ByAttribute(t *testing.T) {
	k := NewKeyed("group", "%luckperms_primary_group%", map[string][]ir.Entry{
		"admin": {ir.Layered{Template: tpl("admin header")}},
	})
	assert.Equal(t, "luckperms_primary_group", k.By)

	src := ir.SourceFunc(func(entity, token string) string {
		if token == "luckperms_primary_group" && entity == "alice" {
			return "admin"
		}
		return "default"
	})

	assert.Len(t, k.LayerFor("alice", src).Entries, 1)
	assert.Empty(t, k.LayerFor("bob", src).Entries)
	assert.Empty(t, k.LayerFor("alice", nil).Entries)
}

func TestChain_LayersInOrder(t *testing.T) {
	chain := Chain{
		NewKeyed("player", KeyEntity, nil),
		Static{Name: "conditional"},
		NewKeyed("world", "player_world", map[string][]ir.Entry{
			"nether": {ir.Layered{Template: tpl("hot")}},
		}),
		Static{Name: "global", Entries: []ir.Entry{ir.Layered{Template: tpl("hi")}}},
	}
	src := ir.SourceFunc(func(string, string) string { return "nether" })

	layers := chain.Layers("steve", src)
	assert.Equal(t, []string{"player", "conditional", "world", "global"}, chain.Names())
	assert.Len(t, layers, 4)

	d := Resolve(nil, "steve", layers, nil)
	assert.Equal(t, "world", d.Layer)
	assert.Equal(t, tpl("hot"), d.Template)
}

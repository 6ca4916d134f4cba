package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryRegistersDefaults(t *testing.T) {
	reg := NewRegistry()
	defs := reg.Definitions()
	require.Len(t, defs, len(DefaultWidgetDefinitions()))
	for i := 1; i < len(defs); i++ {
		assert.Less(t, defs[i-1].Code, defs[i].Code)
	}
	kpi, ok := reg.Definition("dashboard.widget.kpi")
	require.True(t, ok)
	assert.Equal(t, 1, kpi.Width)
}

func TestRegistryRejectsInvalidDefinitions(t *testing.T) {
	reg := NewEmptyRegistry()
	assert.Error(t, reg.RegisterDefinition(WidgetDefinition{Width: 1, Height: 1}))
	assert.Error(t, reg.RegisterDefinition(WidgetDefinition{Code: "flat", Width: 2}))
	assert.Empty(t, reg.Definitions())
}

func TestCatalogHooksRunOnNewRegistries(t *testing.T) {
	globalHookMu.Lock()
	saved := globalHooks
	globalHooks = nil
	globalHookMu.Unlock()
	t.Cleanup(func() {
		globalHookMu.Lock()
		globalHooks = saved
		globalHookMu.Unlock()
	})

	RegisterCatalogHook(func(reg *Registry) error {
		return reg.RegisterDefinition(WidgetDefinition{Code: "plugin.widget.map", Name: "Map", Width: 3, Height: 3})
	})
	reg := NewRegistry()
	def, ok := reg.Definition("plugin.widget.map")
	require.True(t, ok)
	assert.Equal(t, 3, def.Height)

	_, ok = NewEmptyRegistry().Definition("plugin.widget.map")
	assert.False(t, ok)
}

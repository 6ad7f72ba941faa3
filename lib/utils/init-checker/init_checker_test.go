package initchecker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type dep interface{ Do() }

type depImpl struct{}

func (d *depImpl) Do() {}

func TestCheckInit(t *testing.T) {
	t.Run(`initialized dependencies check`, func(t *testing.T) {
		var d dep = &depImpl{}
		require.NotPanics(t, func() { CheckInit("dep", d, "value", 1) })
	})
	t.Run(`nil dependency check`, func(t *testing.T) {
		var d dep
		require.PanicsWithValue(t, "dep dependency not initialized", func() { CheckInit("dep", d) })
	})
	t.Run(`typed nil dependency check`, func(t *testing.T) {
		var p *depImpl
		var d dep = p
		require.Panics(t, func() { CheckInit("dep", d) })
	})
	t.Run(`odd arguments check`, func(t *testing.T) {
		require.Panics(t, func() { CheckInit("dep") })
	})
}

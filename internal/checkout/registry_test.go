package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levelup-gamer/checkout/internal/domain"
)

func TestFlowRegistry_PutGetDelete(t *testing.T) {
	registry := NewFlowRegistry()
	defer registry.Close()

	_, ok := registry.Get("user-1")
	assert.False(t, ok)

	registry.Put(&Flow{UserID: "user-1", Step: domain.StepShippingForm})

	flow, ok := registry.Get("user-1")
	require.True(t, ok)
	assert.Equal(t, domain.StepShippingForm, flow.Step)
	assert.False(t, flow.UpdatedAt.IsZero())

	registry.Delete("user-1")
	_, ok = registry.Get("user-1")
	assert.False(t, ok)
}

func TestFlowRegistry_OneFlowPerShopper(t *testing.T) {
	registry := NewFlowRegistry()
	defer registry.Close()

	registry.Put(&Flow{UserID: "user-1", Step: domain.StepShippingForm})
	registry.Put(&Flow{UserID: "user-1", Step: domain.StepPayment})

	flow, ok := registry.Get("user-1")
	require.True(t, ok)
	assert.Equal(t, domain.StepPayment, flow.Step)
}

func TestFlowRegistry_ExpiresStaleFlows(t *testing.T) {
	registry := NewFlowRegistry()
	defer registry.Close()

	stale := &Flow{UserID: "stale"}
	fresh := &Flow{UserID: "fresh"}
	registry.Put(stale)
	registry.Put(fresh)

	stale.mu.Lock()
	stale.UpdatedAt = time.Now().Add(-FlowTTL - time.Minute)
	stale.mu.Unlock()

	registry.expireFlows()

	_, ok := registry.Get("stale")
	assert.False(t, ok)
	_, ok = registry.Get("fresh")
	assert.True(t, ok)
}

package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

func TestPartition(t *testing.T) {
	roomA := &domain.Resource{
		ID: 1,
		Bindings: []domain.ResourceBinding{
			{EntityType: domain.EntityTypeService, EntityID: 10},
		},
	}
	roomB := &domain.Resource{
		ID: 2,
		Bindings: []domain.ResourceBinding{
			{EntityType: domain.EntityTypeEmployee, EntityID: 5},
			{EntityType: domain.EntityTypeLocation, EntityID: 100},
		},
	}

	providerRes, locationRes := Partition([]*domain.Resource{roomA, roomB})

	require.Len(t, providerRes, 1)
	require.Len(t, locationRes, 1)
	assert.Equal(t, int64(1), providerRes[0].ID)
	assert.Equal(t, int64(2), locationRes[0].ID)
}

// Свойство: после разворачивания число экземпляров равно числу различных
// сущностей shared-типа, ёмкость каждого экземпляра равна исходной.
func TestExpandShared_PreservesCapacityPerInstance(t *testing.T) {
	shared := &domain.Resource{
		ID:       1,
		Name:     "projector",
		Quantity: 3,
		Scope:    domain.ScopeSharedAcrossLocations,
		Bindings: []domain.ResourceBinding{
			{EntityType: domain.EntityTypeService, EntityID: 10},
		},
	}

	allLocations := []int64{100, 200, 300}
	expanded := ExpandShared([]*domain.Resource{shared}, map[domain.EntityType][]int64{
		domain.EntityTypeLocation: allLocations,
	})

	require.Len(t, expanded, len(allLocations))
	for i, instance := range expanded {
		assert.Equal(t, 3, instance.Quantity)
		assert.Equal(t, domain.ScopeFixed, instance.Scope)

		// Экземпляр несёт прочие привязки оригинала плюс ровно одну локацию
		locations := instance.EntityIDsOf(domain.EntityTypeLocation)
		require.Len(t, locations, 1)
		assert.Equal(t, allLocations[i], locations[0])
		assert.Equal(t, []int64{10}, instance.EntityIDsOf(domain.EntityTypeService))
	}

	// Оригинал не изменился
	assert.Equal(t, domain.ScopeSharedAcrossLocations, shared.Scope)
	require.Len(t, shared.Bindings, 1)
}

func TestExpandShared_OwnBindingsTakePrecedence(t *testing.T) {
	// Ресурс с собственными location-привязками разворачивается только по ним
	shared := &domain.Resource{
		ID:       1,
		Quantity: 2,
		Scope:    domain.ScopeSharedAcrossLocations,
		Bindings: []domain.ResourceBinding{
			{EntityType: domain.EntityTypeLocation, EntityID: 100},
			{EntityType: domain.EntityTypeLocation, EntityID: 200},
		},
	}

	expanded := ExpandShared([]*domain.Resource{shared}, map[domain.EntityType][]int64{
		domain.EntityTypeLocation: {100, 200, 300, 400},
	})

	require.Len(t, expanded, 2)
	assert.Equal(t, []int64{100}, expanded[0].EntityIDsOf(domain.EntityTypeLocation))
	assert.Equal(t, []int64{200}, expanded[1].EntityIDsOf(domain.EntityTypeLocation))
}

func TestExpandShared_AcrossServices(t *testing.T) {
	shared := &domain.Resource{
		ID:       1,
		Quantity: 1,
		Scope:    domain.ScopeSharedAcrossServices,
	}

	expanded := ExpandShared([]*domain.Resource{shared}, map[domain.EntityType][]int64{
		domain.EntityTypeService: {10, 20},
	})

	require.Len(t, expanded, 2)
	assert.Equal(t, []int64{10}, expanded[0].EntityIDsOf(domain.EntityTypeService))
	assert.Equal(t, []int64{20}, expanded[1].EntityIDsOf(domain.EntityTypeService))
}

func TestExpandShared_FixedPassedThrough(t *testing.T) {
	fixed := &domain.Resource{ID: 1, Quantity: 5, Scope: domain.ScopeFixed}

	expanded := ExpandShared([]*domain.Resource{fixed}, nil)

	require.Len(t, expanded, 1)
	assert.Same(t, fixed, expanded[0])
}

func TestExpandShared_NothingToExpandOver(t *testing.T) {
	shared := &domain.Resource{ID: 1, Quantity: 1, Scope: domain.ScopeSharedAcrossLocations}

	expanded := ExpandShared([]*domain.Resource{shared}, nil)

	assert.Empty(t, expanded)
}

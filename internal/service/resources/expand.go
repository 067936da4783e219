package resources

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Partition разделяет ресурсы на провайдерские и локационные.
// Ресурс с хотя бы одной привязкой к локации считается локационным,
// остальные - провайдерскими.
func Partition(resources []*domain.Resource) (providerResources, locationResources []*domain.Resource) {
	for _, r := range resources {
		if r.HasBindingOf(domain.EntityTypeLocation) {
			locationResources = append(locationResources, r)
		} else {
			providerResources = append(providerResources, r)
		}
	}
	return providerResources, locationResources
}

// ExpandShared разворачивает shared-ресурсы в независимые экземпляры.
//
// Ресурс, разделяемый по типу T, сам по себе не является ограничением ёмкости:
// для каждой известной сущности типа T синтезируется подменный ресурс с той же
// ёмкостью, остальными привязками оригинала и ровно одной привязкой типа T.
// Занятость при этом отслеживается независимо на каждый экземпляр, а не общим
// пулом. Сущности типа T берутся из собственных T-привязок ресурса, а при их
// отсутствии - из entityIDsByType.
//
// Fixed-ресурсы возвращаются как есть; порядок входа сохраняется.
func ExpandShared(resources []*domain.Resource, entityIDsByType map[domain.EntityType][]int64) []*domain.Resource {
	expanded := make([]*domain.Resource, 0, len(resources))

	for _, r := range resources {
		switch r.Scope {
		case domain.ScopeSharedAcrossLocations:
			expanded = append(expanded, expandOver(r, domain.EntityTypeLocation, entityIDsByType)...)
		case domain.ScopeSharedAcrossServices:
			expanded = append(expanded, expandOver(r, domain.EntityTypeService, entityIDsByType)...)
		default:
			expanded = append(expanded, r)
		}
	}

	return expanded
}

// expandOver синтезирует по одному экземпляру ресурса на каждую сущность типа sharedType
func expandOver(r *domain.Resource, sharedType domain.EntityType, entityIDsByType map[domain.EntityType][]int64) []*domain.Resource {
	entityIDs := r.EntityIDsOf(sharedType)
	if len(entityIDs) == 0 {
		entityIDs = entityIDsByType[sharedType]
	}
	entityIDs = dedupIDs(entityIDs)

	if len(entityIDs) == 0 {
		// Некуда разворачивать - ресурс не ограничивает ничего
		return nil
	}

	instances := make([]*domain.Resource, 0, len(entityIDs))
	for _, id := range entityIDs {
		instance := r.Clone()
		instance.Scope = domain.ScopeFixed

		// Оставляем привязки остальных типов и добавляем ровно одну привязку sharedType
		bindings := make([]domain.ResourceBinding, 0, len(r.Bindings)+1)
		for _, b := range r.Bindings {
			if b.EntityType != sharedType {
				bindings = append(bindings, b)
			}
		}
		bindings = append(bindings, domain.ResourceBinding{EntityType: sharedType, EntityID: id})
		instance.Bindings = bindings

		instances = append(instances, instance)
	}

	return instances
}

// dedupIDs убирает дубликаты, сохраняя порядок первого вхождения
func dedupIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

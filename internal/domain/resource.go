package domain

// EntityType represents the dimension a resource binding constrains
type EntityType string

const (
	EntityTypeService  EntityType = "service"
	EntityTypeEmployee EntityType = "employee"
	EntityTypeLocation EntityType = "location"
)

// KnownEntityTypes типы сущностей, которые понимает движок ресурсов
// Привязки с другими типами игнорируются (не матчатся)
var KnownEntityTypes = []EntityType{
	EntityTypeService,
	EntityTypeEmployee,
	EntityTypeLocation,
}

// IsKnownEntityType проверяет, что тип сущности известен движку
func IsKnownEntityType(t EntityType) bool {
	for _, known := range KnownEntityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ResourceScope determines how a resource's capacity is instantiated
type ResourceScope string

const (
	// ScopeFixed обычный ресурс: одна единица ёмкости на весь набор привязок
	ScopeFixed ResourceScope = "fixed"
	// ScopeSharedAcrossLocations ресурс разделяется между локациями:
	// на каждую локацию синтезируется независимый экземпляр той же ёмкости
	ScopeSharedAcrossLocations ResourceScope = "shared_locations"
	// ScopeSharedAcrossServices ресурс разделяется между услугами
	ScopeSharedAcrossServices ResourceScope = "shared_services"
)

// ResourceBinding привязка ресурса к сущности (услуга, сотрудник или локация)
type ResourceBinding struct {
	EntityType EntityType
	EntityID   int64
}

// Resource represents a shared physical or virtual resource (room, equipment, seats)
// attached to combinations of {service, employee, location} with a finite quantity.
//
// A resource with no bindings of a given entity type is unconstrained on that
// dimension and matches every appointment along it.
type Resource struct {
	ID       int64
	Name     string
	Quantity int
	// CountAdditionalPeople true: ёмкость считается по числу участников,
	// false: по числу бронирований
	CountAdditionalPeople bool
	Scope                 ResourceScope
	Bindings              []ResourceBinding

	CreatedAt int64
}

// BindingsOf returns the bindings of the given entity type, preserving order
func (r *Resource) BindingsOf(entityType EntityType) []ResourceBinding {
	var result []ResourceBinding
	for _, b := range r.Bindings {
		if b.EntityType == entityType {
			result = append(result, b)
		}
	}
	return result
}

// EntityIDsOf returns the bound entity ids of the given type, preserving order
func (r *Resource) EntityIDsOf(entityType EntityType) []int64 {
	bindings := r.BindingsOf(entityType)
	ids := make([]int64, 0, len(bindings))
	for _, b := range bindings {
		ids = append(ids, b.EntityID)
	}
	return ids
}

// HasBindingOf returns true if the resource has at least one binding of the given type
func (r *Resource) HasBindingOf(entityType EntityType) bool {
	for _, b := range r.Bindings {
		if b.EntityType == entityType {
			return true
		}
	}
	return false
}

// BindsEntity returns true if the resource has a binding to the specific entity
func (r *Resource) BindsEntity(entityType EntityType, entityID int64) bool {
	for _, b := range r.Bindings {
		if b.EntityType == entityType && b.EntityID == entityID {
			return true
		}
	}
	return false
}

// Matches returns true if the appointment falls under this resource's constraints.
// A dimension with no bindings matches unconditionally; unknown binding types are
// ignored.
func (r *Resource) Matches(a *Appointment) bool {
	if r.HasBindingOf(EntityTypeService) && !r.BindsEntity(EntityTypeService, a.ServiceID) {
		return false
	}
	if r.HasBindingOf(EntityTypeEmployee) && !r.BindsEntity(EntityTypeEmployee, a.ProviderID) {
		return false
	}
	if r.HasBindingOf(EntityTypeLocation) {
		if a.LocationID == nil || !r.BindsEntity(EntityTypeLocation, *a.LocationID) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the resource
// Используется при синтезе per-location экземпляров shared-ресурсов
func (r *Resource) Clone() *Resource {
	clone := *r
	clone.Bindings = make([]ResourceBinding, len(r.Bindings))
	copy(clone.Bindings, r.Bindings)
	return &clone
}

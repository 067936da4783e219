package packagecredits

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ReconcileOverdrawnSlots сверяет историю визитов с ёмкостью кредитных слотов
// и само-исцеляет переисчерпанные привязки.
//
// Визиты обрабатываются в порядке входа; для каждого слота ведётся бегущий
// счётчик доступности. Визит, ссылающийся на слот с нулевой доступностью,
// перепривязывается к первому слоту-соседу той же покупки (в порядке вставки)
// с остатком: сосед декрементируется, ссылка визита переписывается через
// узкое обновление по ID. Покупка, затронутая перепривязкой, принудительно
// переводится в статус approved.
//
// Сверка advisory, не транзакционна: любая ошибка персистентности логируется
// и пропускается - запрос доступности не должен падать из-за сверки
// исторических данных. Перепривязка не меняет суммарное потребление покупки,
// двигается только попривязочная атрибуция.
//
// Возвращает число перепривязанных визитов.
func (s *Service) ReconcileOverdrawnSlots(
	ctx context.Context,
	appointments []*domain.Appointment,
	packageCustomers []*domain.PackageCustomer,
	now time.Time,
) int {
	// Слоты по ID и соседи в порядке вставки; shared-capacity покупки
	// не сверяются - их кредиты лежат в общем пуле и попривязочная
	// атрибуция ёмкость не ограничивает
	slotParent := make(map[int64]*domain.PackageCustomer)
	available := make(map[int64]int)

	for _, pc := range packageCustomers {
		if !pc.IsValidAt(now) || pc.IsSharedCapacity() {
			continue
		}
		for _, slot := range pc.Services {
			slotParent[slot.ID] = pc
			available[slot.ID] = slot.BookingsCount
		}
	}

	approved := make(map[int64]bool)
	reassigned := 0

	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		for _, b := range a.Bookings {
			if !b.IsActive() || b.PackageCustomerServiceID == nil {
				continue
			}

			slotID := *b.PackageCustomerServiceID
			parent, ok := slotParent[slotID]
			if !ok {
				continue
			}

			if available[slotID] > 0 {
				available[slotID]--
				continue
			}

			// Слот исчерпан - ищем соседа с остатком в порядке вставки
			sibling := findSiblingWithAvailability(parent, slotID, available)
			if sibling == nil {
				continue
			}

			if err := s.bookings.UpdateSlotReference(ctx, b.ID, sibling.ID); err != nil {
				s.log.Warn("ReconcileOverdrawnSlots: failed to rewrite booking id=%d to slot id=%d: %v",
					b.ID, sibling.ID, err)
				continue
			}
			// Остаток соседа уменьшается только после успешной записи,
			// иначе неудачная попытка съедала бы ёмкость следующих визитов
			available[sibling.ID]--
			b.PackageCustomerServiceID = &sibling.ID
			reassigned++

			if !approved[parent.ID] {
				approved[parent.ID] = true
				if err := s.packageCustomers.UpdateStatus(ctx, parent.ID, domain.PackageCustomerStatusApproved); err != nil {
					s.log.Warn("ReconcileOverdrawnSlots: failed to approve package customer id=%d: %v",
						parent.ID, err)
				} else {
					parent.Status = domain.PackageCustomerStatusApproved
				}
			}

			s.log.Info("ReconcileOverdrawnSlots: booking id=%d reassigned from slot id=%d to slot id=%d",
				b.ID, slotID, sibling.ID)
		}
	}

	return reassigned
}

// findSiblingWithAvailability первый слот-сосед покупки с остатком,
// в порядке вставки слотов
func findSiblingWithAvailability(
	pc *domain.PackageCustomer,
	exhaustedSlotID int64,
	available map[int64]int,
) *domain.PackageCustomerService {
	for _, slot := range pc.Services {
		if slot.ID == exhaustedSlotID {
			continue
		}
		if available[slot.ID] > 0 {
			return slot
		}
	}
	return nil
}

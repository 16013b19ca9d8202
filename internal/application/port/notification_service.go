package port

import "github.com/dreschagin/marine-dashboard/internal/application/dto"

// NotificationService определяет интерфейс push-уведомлений клиентов (Port)
// Реализация - WebSocket Hub
type NotificationService interface {
	// BroadcastMeasurements отправляет новые измерения всем клиентам
	BroadcastMeasurements(points []*dto.MeasurementDTO)

	// BroadcastConditions отправляет пересчитанное состояние океана
	BroadcastConditions(conditions *dto.OceanConditionsDTO)

	// BroadcastAlert отправляет новый алерт
	BroadcastAlert(alert *dto.AlertDTO)

	// ClientCount возвращает количество подключенных клиентов
	ClientCount() int
}

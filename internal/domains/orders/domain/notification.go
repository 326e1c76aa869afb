package domain

import "fmt"

// NotificationType classifies user-facing order messages.
type NotificationType string

const (
	NotificationOrderCreated       NotificationType = "ORDER_CREATED"
	NotificationOrderStatusChanged NotificationType = "ORDER_STATUS_CHANGED"
)

// Notification is the message handed to the notifier for one user.
type Notification struct {
	UserID  int64
	Type    NotificationType
	Title   string
	Message string
}

// OrderCreatedNotification announces a freshly persisted order.
func OrderCreatedNotification(order *Order) Notification {
	return Notification{
		UserID:  order.UserID,
		Type:    NotificationOrderCreated,
		Title:   "Order Created",
		Message: fmt.Sprintf("Your order #%d has been created successfully!", order.ID),
	}
}

// OrderStatusChangedNotification announces the new status of an order.
func OrderStatusChangedNotification(order *Order) Notification {
	return Notification{
		UserID:  order.UserID,
		Type:    NotificationOrderStatusChanged,
		Title:   "Order Status Updated",
		Message: fmt.Sprintf("Your order #%d status changed to %s", order.ID, order.Status),
	}
}

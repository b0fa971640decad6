package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// SubjectOrdersPaid — тема письма после выкупа корзины.
const SubjectOrdersPaid = "Your order has been updated"

// Email — готовое к отправке письмо.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ComposeOrdersEmail собирает текст письма об обновлённых заказах.
// Менеджеры получают расширенный формат с идентификаторами заказов
// и адресами доставки, покупатели — краткий.
func ComposeOrdersEmail(user domain.User, subject string, orders []domain.Order) Email {
	var b strings.Builder

	if user.IsManager {
		fmt.Fprintf(&b, "Dear %s,\n\nThe following orders have been updated:\n", user.FirstName)
		for _, order := range orders {
			fmt.Fprintf(&b, "- Order ID: %s,\n", order.ID)
			fmt.Fprintf(&b, "- Product ID: %s,\n", order.ProductID)
			fmt.Fprintf(&b, "- Quantity: %d,\n", order.Amount)
			fmt.Fprintf(&b, "- Delivery Address: %s,\n", order.DeliveryAddress)
			fmt.Fprintf(&b, "- Order Date: %s\n", order.CreatedAt.Format(time.RFC3339))
		}
	} else {
		fmt.Fprintf(&b, "Dear %s %s,\n\nThe following orders have been updated:\n", user.FirstName, user.LastName)
		for _, order := range orders {
			fmt.Fprintf(&b, "- Product ID: %s,\n", order.ProductID)
			fmt.Fprintf(&b, "Quantity: %d,\n", order.Amount)
			fmt.Fprintf(&b, "Order Date: %s\n", order.CreatedAt.Format(time.RFC3339))
		}
	}

	b.WriteString("\nBest regards,\nYour Storefront")

	return Email{
		To:      user.Email,
		Subject: subject,
		Body:    b.String(),
	}
}

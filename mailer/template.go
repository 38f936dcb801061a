package mailer

import (
	_ "embed"
	"html/template"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MahmoudShalabyy/tadawi-app-sub001/entities"
)

//go:embed templates/order_confirmation.html
var orderConfirmationHTML string

var orderConfirmationTmpl = template.Must(
	template.New("order_confirmation").Parse(orderConfirmationHTML))

// moneyPrinter formats amounts with digit grouping (1,234.50).
var moneyPrinter = message.NewPrinter(language.English)

type confirmationLine struct {
	BrandName      string
	DosageStrength string
	Quantity       int64
	LineTotal      string
}

type confirmationData struct {
	UserName         string
	OrderRef         string
	Status           string
	PharmacyLocation string
	BillingAddress   string
	Lines            []confirmationLine
	Total            string
	LatestPayment    *entities.Payment
	PaymentAmount    string
}

// renderOrderConfirmation renders the email body for an order loaded with
// user, pharmacy, medicines and payments.
func renderOrderConfirmation(order *entities.Order, currency string) (string, error) {
	data := confirmationData{
		OrderRef:       orderRef(order),
		Status:         order.Status,
		BillingAddress: order.BillingAddress,
		LatestPayment:  order.LatestPayment(),
	}

	if order.User != nil {
		data.UserName = order.User.Name
	}
	if order.Pharmacy != nil {
		data.PharmacyLocation = order.Pharmacy.Location
	}

	var total float64
	for i := range order.Medicines {
		line := &order.Medicines[i]
		lineTotal := line.Price * float64(line.Quantity)
		total += lineTotal
		data.Lines = append(data.Lines, confirmationLine{
			BrandName:      line.BrandName,
			DosageStrength: line.DosageStrength,
			Quantity:       line.Quantity,
			LineTotal:      formatMoney(lineTotal, currency),
		})
	}
	data.Total = formatMoney(total, currency)

	if data.LatestPayment != nil {
		amountCurrency := data.LatestPayment.Currency
		if amountCurrency == "" {
			amountCurrency = currency
		}
		data.PaymentAmount = formatMoney(data.LatestPayment.Amount, amountCurrency)
	}

	var sb strings.Builder
	if err := orderConfirmationTmpl.Execute(&sb, data); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func formatMoney(amount float64, currency string) string {
	return moneyPrinter.Sprintf("%.2f %s", amount, currency)
}

func orderRef(o *entities.Order) string {
	if o.OrderNumber != nil && *o.OrderNumber != "" {
		return *o.OrderNumber
	}
	return strconv.FormatInt(o.ID, 10)
}

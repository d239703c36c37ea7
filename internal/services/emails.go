package services

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders an amount with two decimals and thousands separators.
func FormatPrice(amount float64) string {
	return pricePrinter.Sprintf("%.2f", amount)
}

func otpEmail(to, name, code string, ttl time.Duration) Message {
	minutes := int(math.Ceil(ttl.Minutes()))
	return Message{
		To:      to,
		Subject: "Your OTP for Shop Order",
		Text: fmt.Sprintf("Hello %s,\n\nYour OTP is %s. It expires in %d minutes.\n\nThank you.",
			name, code, minutes),
	}
}

var orderEmailTemplates = template.Must(template.New("order").Funcs(template.FuncMap{
	"price": FormatPrice,
}).Parse(`
{{define "table"}}
<p>Hi {{.CustomerName}},</p>
<p>Thank you for your order.</p>
<p><strong>Order ID:</strong> {{.OrderID}}</p>
<table border="1" cellpadding="6" cellspacing="0" style="border-collapse:collapse;">
  <thead>
    <tr><th>Company</th><th>Product</th><th>Price</th><th>Qty</th><th>Line Total</th></tr>
  </thead>
  <tbody>
  {{- range .Items}}
    <tr><td>{{.Company}}</td><td>{{.Product}}</td><td>{{price .Price}}</td><td>{{.Quantity}}</td><td>{{price .LineTotal}}</td></tr>
  {{- end}}
  </tbody>
  <tfoot>
    <tr><td colspan="4"><strong>Total</strong></td><td><strong>{{price .Total}}</strong></td></tr>
  </tfoot>
</table>
{{end}}
{{define "customer"}}{{template "table" .}}{{end}}
{{define "owner"}}
<p>New order received.</p>
<p><strong>Customer:</strong> {{.CustomerName}} ({{.CustomerEmail}})</p>
{{template "table" .}}
{{end}}
`))

type orderEmailItem struct {
	Company   string
	Product   string
	Price     float64
	Quantity  int
	LineTotal float64
}

type orderEmailData struct {
	OrderID       string
	CustomerName  string
	CustomerEmail string
	Items         []orderEmailItem
	Total         float64
}

func renderOrderEmail(name string, data orderEmailData) (string, error) {
	var buf bytes.Buffer
	if err := orderEmailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s order email: %w", name, err)
	}
	return buf.String(), nil
}

func orderConfirmationEmails(data orderEmailData, ownerEmail string) (customer Message, owner Message, err error) {
	customerHTML, err := renderOrderEmail("customer", data)
	if err != nil {
		return Message{}, Message{}, err
	}
	ownerHTML, err := renderOrderEmail("owner", data)
	if err != nil {
		return Message{}, Message{}, err
	}

	customer = Message{
		To:      data.CustomerEmail,
		Subject: fmt.Sprintf("Order Confirmation (#%s)", data.OrderID),
		HTML:    customerHTML,
	}
	owner = Message{
		To:      ownerEmail,
		Subject: fmt.Sprintf("New Order (#%s) by %s", data.OrderID, data.CustomerName),
		HTML:    ownerHTML,
	}
	return customer, owner, nil
}
